package bsky

// schema: app.bsky.embed.record

import (
	comatproto "github.com/bsky-cli/bsky/api/atproto"
)

// EmbedRecord is a "main" in the app.bsky.embed.record schema.
type EmbedRecord struct {
	LexiconTypeID string                    `json:"$type,omitempty"`
	Record        *comatproto.RepoStrongRef `json:"record"`
}
