package atproto

// schema: com.atproto.server.refreshSession

import (
	"context"

	"github.com/bsky-cli/bsky/lex/util"
)

// ServerRefreshSession_Output is the output of a com.atproto.server.refreshSession call
type ServerRefreshSession_Output struct {
	AccessJwt  string  `json:"accessJwt"`
	Active     *bool   `json:"active,omitempty"`
	Did        string  `json:"did"`
	Handle     string  `json:"handle"`
	RefreshJwt string  `json:"refreshJwt"`
	Status     *string `json:"status,omitempty"`
}

// ServerRefreshSession calls the XRPC method "com.atproto.server.refreshSession". The client must be authenticated with the refresh token, not the access token.
func ServerRefreshSession(ctx context.Context, c util.LexClient) (*ServerRefreshSession_Output, error) {
	var out ServerRefreshSession_Output
	if err := c.LexDo(ctx, util.Procedure, "", "com.atproto.server.refreshSession", nil, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
