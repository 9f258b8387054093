// Package post composes Bluesky post records (text, images, reply and quote embeds), validates them against the post lexicon, and submits them through an authenticated session.
package post

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsky-cli/bsky/api/bsky"
	"github.com/bsky-cli/bsky/atproto/lexicon"
	"github.com/bsky-cli/bsky/atproto/syntax"
	"github.com/bsky-cli/bsky/internal/media"
	"github.com/bsky-cli/bsky/internal/thread"
)

const (
	// Collection is the NSID of post records.
	Collection = "app.bsky.feed.post"

	// MaxImages is the most attachments accepted in one post.
	MaxImages = 4

	// MaxImageSize is the largest image blob (in bytes) the post lexicon allows.
	MaxImageSize = 1_000_000
)

// Session is the authenticated connection a post is created through.
type Session interface {
	Uploader
	SubmitRecord(ctx context.Context, record *bsky.FeedPost) (thread.PostRef, error)
}

// Request is everything needed to compose one post.
type Request struct {
	Text  string
	Media []media.Item
	Reply thread.ReplyContext
	// BCP-47 language tags; optional
	Langs []string
}

type Composer struct {
	Session Session
	Catalog lexicon.Catalog
	// Clock supplies the record creation time. Defaults to time.Now.
	Clock  func() time.Time
	Logger *slog.Logger
}

// NewComposer returns a Composer which validates against the embedded post lexicons.
func NewComposer(sess Session) (*Composer, error) {
	cat, err := lexicon.DefaultCatalog()
	if err != nil {
		return nil, err
	}
	return &Composer{
		Session: sess,
		Catalog: cat,
		Clock:   time.Now,
		Logger:  slog.Default().With("component", "post"),
	}, nil
}

func (c *Composer) now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock()
}

func (c *Composer) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}

// checks that need no network access, done before any image is uploaded
func checkAttachments(items []media.Item) error {
	if len(items) > MaxImages {
		return &RecordInvalidError{Err: fmt.Errorf("too many images (%d, max %d)", len(items), MaxImages)}
	}
	for _, it := range items {
		if err := it.CheckImage(); err != nil {
			return err
		}
		if len(it.Data) > MaxImageSize {
			return &RecordInvalidError{Err: fmt.Errorf("image %s is too large (%d bytes, max %d)", it.Source, len(it.Data), MaxImageSize)}
		}
	}
	return nil
}

// BuildRecord assembles and validates the post record for req, uploading any images through the session. Nothing is submitted.
//
// The record without its images (but with any quoted post) is validated before any upload, so a bad request (eg, text too long, or a malformed quote target) has no network side effects. The complete record is validated again once the embed is attached.
func (c *Composer) BuildRecord(ctx context.Context, req Request) (*bsky.FeedPost, error) {
	if err := checkAttachments(req.Media); err != nil {
		return nil, err
	}

	record := &bsky.FeedPost{
		LexiconTypeID: Collection,
		Text:          req.Text,
		CreatedAt:     syntax.DatetimeFromTime(c.now()).String(),
		Langs:         req.Langs,
	}

	switch rc := req.Reply.(type) {
	case thread.Reply:
		record.Reply = &bsky.FeedPost_ReplyRef{
			Root:   rc.Target.ThreadRoot.StrongRef(),
			Parent: rc.Target.PostInfo.StrongRef(),
		}
	case thread.NoParent, thread.Quote:
	case nil:
		return nil, thread.ErrNoReplyContext
	default:
		return nil, fmt.Errorf("unhandled reply context: %T", req.Reply)
	}

	// a quoted post is known before any upload, so check it along with the rest of the record
	pre := *record
	if q, ok := req.Reply.(thread.Quote); ok {
		pre.Embed = &bsky.FeedPost_Embed{EmbedRecord: &bsky.EmbedRecord{Record: q.Target.StrongRef()}}
	}
	if err := c.Validate(&pre); err != nil {
		return nil, err
	}

	embed, err := BuildEmbed(ctx, req.Media, req.Reply, c.Session)
	if err != nil {
		return nil, err
	}
	if embed != nil {
		record.Embed = embed
		if err := c.Validate(record); err != nil {
			return nil, err
		}
	}
	return record, nil
}

// Validate checks a post record against the app.bsky.feed.post lexicon. Failures are returned as *RecordInvalidError.
func (c *Composer) Validate(record *bsky.FeedPost) error {
	data, err := lexicon.ToData(record)
	if err != nil {
		return &RecordInvalidError{Err: err}
	}
	if err := lexicon.ValidateRecord(c.Catalog, data, Collection); err != nil {
		return &RecordInvalidError{Err: err}
	}
	return nil
}

// Submit composes, validates and creates the post described by req, returning a reference to the new post.
//
// There are no retries: upload and submission errors are returned to the caller as-is (wrapped in *UploadError and *SubmitError).
func (c *Composer) Submit(ctx context.Context, req Request) (thread.PostRef, error) {
	record, err := c.BuildRecord(ctx, req)
	if err != nil {
		return thread.PostRef{}, err
	}

	ref, err := c.Session.SubmitRecord(ctx, record)
	if err != nil {
		return thread.PostRef{}, &SubmitError{Err: err}
	}
	c.logger().Info("created post", "uri", ref.URI, "cid", ref.CID, "images", len(req.Media))
	return ref, nil
}
