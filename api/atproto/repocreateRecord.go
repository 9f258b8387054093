package atproto

// schema: com.atproto.repo.createRecord

import (
	"context"

	"github.com/bsky-cli/bsky/lex/util"
)

// RepoCreateRecord_Input is the input argument to a com.atproto.repo.createRecord call
type RepoCreateRecord_Input struct {
	// collection: The NSID of the record collection.
	Collection string `json:"collection"`
	// record: The record itself. Must contain a $type field.
	Record any `json:"record"`
	// repo: The handle or DID of the repo (aka, current account).
	Repo string `json:"repo"`
	// rkey: The Record Key.
	Rkey *string `json:"rkey,omitempty"`
	// validate: Can be set to 'false' to skip Lexicon schema validation of record data, 'true' to require it, or leave unset to validate only for known Lexicons.
	Validate *bool `json:"validate,omitempty"`
}

// RepoCreateRecord_Output is the output of a com.atproto.repo.createRecord call
type RepoCreateRecord_Output struct {
	Cid              string  `json:"cid"`
	Uri              string  `json:"uri"`
	ValidationStatus *string `json:"validationStatus,omitempty"`
}

// RepoCreateRecord calls the XRPC method "com.atproto.repo.createRecord".
func RepoCreateRecord(ctx context.Context, c util.LexClient, input *RepoCreateRecord_Input) (*RepoCreateRecord_Output, error) {
	var out RepoCreateRecord_Output
	if err := c.LexDo(ctx, util.Procedure, "application/json", "com.atproto.repo.createRecord", nil, input, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
