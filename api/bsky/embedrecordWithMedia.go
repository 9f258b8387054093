package bsky

// schema: app.bsky.embed.recordWithMedia

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bsky-cli/bsky/lex/util"
)

// EmbedRecordWithMedia is a "main" in the app.bsky.embed.recordWithMedia schema.
type EmbedRecordWithMedia struct {
	LexiconTypeID string                      `json:"$type,omitempty"`
	Media         *EmbedRecordWithMedia_Media `json:"media"`
	Record        *EmbedRecord                `json:"record"`
}

type EmbedRecordWithMedia_Media struct {
	EmbedImages *EmbedImages
}

func (t *EmbedRecordWithMedia_Media) MarshalJSON() ([]byte, error) {
	if t.EmbedImages != nil {
		t.EmbedImages.LexiconTypeID = "app.bsky.embed.images"
		return json.Marshal(t.EmbedImages)
	}
	return nil, errors.New("cannot marshal empty enum")
}

func (t *EmbedRecordWithMedia_Media) UnmarshalJSON(b []byte) error {
	typ, err := util.TypeExtract(b)
	if err != nil {
		return err
	}

	switch typ {
	case "app.bsky.embed.images":
		t.EmbedImages = new(EmbedImages)
		return json.Unmarshal(b, t.EmbedImages)
	default:
		return fmt.Errorf("unsupported record-with-media media type: %q", typ)
	}
}
