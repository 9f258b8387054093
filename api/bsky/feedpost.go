package bsky

// schema: app.bsky.feed.post

import (
	"encoding/json"
	"errors"
	"fmt"

	comatproto "github.com/bsky-cli/bsky/api/atproto"
	"github.com/bsky-cli/bsky/lex/util"
)

// FeedPost is a "main" in the app.bsky.feed.post schema.
//
// Record containing a Bluesky post.
type FeedPost struct {
	LexiconTypeID string `json:"$type"`
	// createdAt: Client-declared timestamp when this post was originally created.
	CreatedAt string          `json:"createdAt"`
	Embed     *FeedPost_Embed `json:"embed,omitempty"`
	// langs: Indicates human language of post primary text content.
	Langs []string           `json:"langs,omitempty"`
	Reply *FeedPost_ReplyRef `json:"reply,omitempty"`
	// text: The primary post content.
	Text string `json:"text"`
}

type FeedPost_Embed struct {
	EmbedImages          *EmbedImages
	EmbedRecord          *EmbedRecord
	EmbedRecordWithMedia *EmbedRecordWithMedia
}

func (t *FeedPost_Embed) MarshalJSON() ([]byte, error) {
	if t.EmbedImages != nil {
		t.EmbedImages.LexiconTypeID = "app.bsky.embed.images"
		return json.Marshal(t.EmbedImages)
	}
	if t.EmbedRecord != nil {
		t.EmbedRecord.LexiconTypeID = "app.bsky.embed.record"
		return json.Marshal(t.EmbedRecord)
	}
	if t.EmbedRecordWithMedia != nil {
		t.EmbedRecordWithMedia.LexiconTypeID = "app.bsky.embed.recordWithMedia"
		return json.Marshal(t.EmbedRecordWithMedia)
	}
	return nil, errors.New("cannot marshal empty enum")
}

func (t *FeedPost_Embed) UnmarshalJSON(b []byte) error {
	typ, err := util.TypeExtract(b)
	if err != nil {
		return err
	}

	switch typ {
	case "app.bsky.embed.images":
		t.EmbedImages = new(EmbedImages)
		return json.Unmarshal(b, t.EmbedImages)
	case "app.bsky.embed.record":
		t.EmbedRecord = new(EmbedRecord)
		return json.Unmarshal(b, t.EmbedRecord)
	case "app.bsky.embed.recordWithMedia":
		t.EmbedRecordWithMedia = new(EmbedRecordWithMedia)
		return json.Unmarshal(b, t.EmbedRecordWithMedia)
	default:
		return fmt.Errorf("unsupported post embed type: %q", typ)
	}
}

// FeedPost_ReplyRef is a "replyRef" in the app.bsky.feed.post schema.
type FeedPost_ReplyRef struct {
	Parent *comatproto.RepoStrongRef `json:"parent"`
	Root   *comatproto.RepoStrongRef `json:"root"`
}
