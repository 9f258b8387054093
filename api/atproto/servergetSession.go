package atproto

// schema: com.atproto.server.getSession

import (
	"context"

	"github.com/bsky-cli/bsky/lex/util"
)

// ServerGetSession_Output is the output of a com.atproto.server.getSession call
type ServerGetSession_Output struct {
	Active *bool   `json:"active,omitempty"`
	Did    string  `json:"did"`
	Email  *string `json:"email,omitempty"`
	Handle string  `json:"handle"`
	Status *string `json:"status,omitempty"`
}

// ServerGetSession calls the XRPC method "com.atproto.server.getSession".
func ServerGetSession(ctx context.Context, c util.LexClient) (*ServerGetSession_Output, error) {
	var out ServerGetSession_Output
	if err := c.LexDo(ctx, util.Query, "", "com.atproto.server.getSession", nil, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
