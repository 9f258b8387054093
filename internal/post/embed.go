package post

import (
	"context"
	"errors"
	"fmt"

	"github.com/bsky-cli/bsky/api/bsky"
	"github.com/bsky-cli/bsky/internal/media"
	"github.com/bsky-cli/bsky/internal/thread"
	lexutil "github.com/bsky-cli/bsky/lex/util"
)

// Uploader stores blob data on the account's PDS and returns a reference to it.
type Uploader interface {
	UploadBlob(ctx context.Context, data []byte, mimeType string) (*lexutil.LexBlob, error)
}

// BuildEmbed returns the embed for a post with the given attachments and reply context, or nil if the post has no embed.
//
//	Quote    + images -> recordWithMedia (quoted record, images)
//	Quote             -> record
//	NoParent/Reply + images -> images
//	NoParent/Reply          -> nil
//
// Images are uploaded one at a time, in order, and appear in the embed in that same order. Every item is checked to be an image before anything is uploaded. Any failure returns no embed.
func BuildEmbed(ctx context.Context, items []media.Item, reply thread.ReplyContext, up Uploader) (*bsky.FeedPost_Embed, error) {
	switch rc := reply.(type) {
	case thread.Quote:
		quote := &bsky.EmbedRecord{Record: rc.Target.StrongRef()}
		if len(items) == 0 {
			return &bsky.FeedPost_Embed{EmbedRecord: quote}, nil
		}
		images, err := uploadImages(ctx, items, up)
		if err != nil {
			return nil, err
		}
		return &bsky.FeedPost_Embed{
			EmbedRecordWithMedia: &bsky.EmbedRecordWithMedia{
				Record: quote,
				Media:  &bsky.EmbedRecordWithMedia_Media{EmbedImages: images},
			},
		}, nil
	case thread.Reply, thread.NoParent:
		if len(items) == 0 {
			return nil, nil
		}
		images, err := uploadImages(ctx, items, up)
		if err != nil {
			return nil, err
		}
		return &bsky.FeedPost_Embed{EmbedImages: images}, nil
	case nil:
		return nil, thread.ErrNoReplyContext
	default:
		return nil, fmt.Errorf("unhandled reply context: %T", reply)
	}
}

func uploadImages(ctx context.Context, items []media.Item, up Uploader) (*bsky.EmbedImages, error) {
	for _, it := range items {
		if err := it.CheckImage(); err != nil {
			return nil, err
		}
	}

	images := make([]*bsky.EmbedImages_Image, 0, len(items))
	for i, it := range items {
		blob, err := up.UploadBlob(ctx, it.Data, it.MimeType)
		if err != nil {
			return nil, &UploadError{Index: i, Source: it.Source, Err: err}
		}
		if blob == nil {
			return nil, &UploadError{Index: i, Source: it.Source, Err: errors.New("no blob in upload response")}
		}
		// TODO: alt text, once there is a way to prompt for it per image
		images = append(images, &bsky.EmbedImages_Image{
			Alt:   "",
			Image: blob,
		})
	}
	return &bsky.EmbedImages{Images: images}, nil
}
