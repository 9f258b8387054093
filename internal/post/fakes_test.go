package post

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsky-cli/bsky/api/bsky"
	"github.com/bsky-cli/bsky/atproto/lexicon"
	"github.com/bsky-cli/bsky/internal/media"
	"github.com/bsky-cli/bsky/internal/thread"
	lexutil "github.com/bsky-cli/bsky/lex/util"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

var testTime = time.Date(2024, 3, 9, 17, 4, 5, 123000000, time.UTC)

// records calls and hands out content-addressed blobs and sequential post refs
type fakeSession struct {
	uploads   []string
	records   []*bsky.FeedPost
	failAt    int
	submitErr error
	nextPost  int
}

func newFakeSession() *fakeSession {
	return &fakeSession{failAt: -1}
}

func blobCID(data []byte) cid.Cid {
	pre := cid.Prefix{
		Version:  1,
		Codec:    cid.Raw,
		MhType:   multihash.SHA2_256,
		MhLength: -1,
	}
	c, err := pre.Sum(data)
	if err != nil {
		panic(err)
	}
	return c
}

func recordCID(n int) string {
	pre := cid.Prefix{
		Version:  1,
		Codec:    cid.DagCBOR,
		MhType:   multihash.SHA2_256,
		MhLength: -1,
	}
	c, err := pre.Sum([]byte(fmt.Sprintf("post-%d", n)))
	if err != nil {
		panic(err)
	}
	return c.String()
}

func (s *fakeSession) UploadBlob(ctx context.Context, data []byte, mimeType string) (*lexutil.LexBlob, error) {
	if len(s.uploads) == s.failAt {
		s.uploads = append(s.uploads, string(data))
		return nil, errors.New("XRPC ERROR 500: InternalServerError")
	}
	s.uploads = append(s.uploads, string(data))
	return &lexutil.LexBlob{
		Ref:      lexutil.LexLink(blobCID(data)),
		MimeType: mimeType,
		Size:     int64(len(data)),
	}, nil
}

func (s *fakeSession) SubmitRecord(ctx context.Context, record *bsky.FeedPost) (thread.PostRef, error) {
	s.records = append(s.records, record)
	if s.submitErr != nil {
		return thread.PostRef{}, s.submitErr
	}
	s.nextPost++
	return thread.PostRef{
		URI: fmt.Sprintf("at://did:plc:ewvi7nxzyoun6zhxrhs64oiz/app.bsky.feed.post/3kabc%07d", s.nextPost),
		CID: recordCID(s.nextPost),
	}, nil
}

func testComposer(sess *fakeSession) *Composer {
	cat, err := lexicon.DefaultCatalog()
	if err != nil {
		panic(err)
	}
	return &Composer{
		Session: sess,
		Catalog: cat,
		Clock:   func() time.Time { return testTime },
	}
}

func pngItem(name string) media.Item {
	return media.Item{
		Data:     []byte("\x89PNG\r\n\x1a\n" + name),
		MimeType: "image/png",
		Source:   name,
	}
}

func testRef(n int) thread.PostRef {
	return thread.PostRef{
		URI: fmt.Sprintf("at://did:plc:ewvi7nxzyoun6zhxrhs64oiz/app.bsky.feed.post/3kxyz%07d", n),
		CID: recordCID(1000 + n),
	}
}
