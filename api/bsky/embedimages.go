package bsky

// schema: app.bsky.embed.images

import (
	"github.com/bsky-cli/bsky/lex/util"
)

// EmbedImages is a "main" in the app.bsky.embed.images schema.
type EmbedImages struct {
	LexiconTypeID string               `json:"$type,omitempty"`
	Images        []*EmbedImages_Image `json:"images"`
}

// EmbedImages_Image is a "image" in the app.bsky.embed.images schema.
type EmbedImages_Image struct {
	// alt: Alt text description of the image, for accessibility.
	Alt   string        `json:"alt"`
	Image *util.LexBlob `json:"image"`
}
