package atproto

// schema: com.atproto.repo.uploadBlob

import (
	"context"
	"io"

	"github.com/bsky-cli/bsky/lex/util"
)

// RepoUploadBlob_Output is the output of a com.atproto.repo.uploadBlob call
type RepoUploadBlob_Output struct {
	Blob *util.LexBlob `json:"blob"`
}

// RepoUploadBlob calls the XRPC method "com.atproto.repo.uploadBlob". The encoding is sent as the Content-Type of the request body.
func RepoUploadBlob(ctx context.Context, c util.LexClient, input io.Reader, encoding string) (*RepoUploadBlob_Output, error) {
	var out RepoUploadBlob_Output
	if err := c.LexDo(ctx, util.Procedure, encoding, "com.atproto.repo.uploadBlob", nil, input, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
