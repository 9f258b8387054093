// Package thread models where the next post continues from: the reference to a created post, the "location" (latest post plus thread root) persisted between runs, and the reply context a new post is composed with.
package thread

import (
	"errors"
	"fmt"

	comatproto "github.com/bsky-cli/bsky/api/atproto"
)

// ErrNoReplyContext is returned when a nil ReplyContext is passed where a variant is required.
var ErrNoReplyContext = errors.New("no reply context (use NoParent for a top-level post)")

// PostRef identifies a created post. Only the session constructs these, from a successful createRecord response.
type PostRef struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

func (r PostRef) StrongRef() *comatproto.RepoStrongRef {
	return &comatproto.RepoStrongRef{
		Uri: r.URI,
		Cid: r.CID,
	}
}

func (r PostRef) String() string {
	return r.URI
}

// LocationInfo is the post to continue from: the most recently created post, and the first post of its chain. The JSON field names are the on-disk history format.
type LocationInfo struct {
	PostInfo   PostRef `json:"post_info"`
	ThreadRoot PostRef `json:"thread_root"`
}

// ReplyContext is one of NoParent, Reply or Quote. The set of variants is closed.
type ReplyContext interface {
	replyContext()
}

// NoParent starts a new chain.
type NoParent struct{}

// Reply continues the chain at Target.
type Reply struct {
	Target LocationInfo
}

// Quote embeds Target in a new post, which starts its own chain.
type Quote struct {
	Target PostRef
}

func (NoParent) replyContext() {}
func (Reply) replyContext()    {}
func (Quote) replyContext()    {}

// NextLocation computes the location to persist after result was created with the given reply context. The returned value replaces the stored location.
//
// A reply inherits the thread root of the location it replied to. Anything else, quotes included, is the root of its own chain.
func NextLocation(result PostRef, reply ReplyContext) (LocationInfo, error) {
	switch rc := reply.(type) {
	case Reply:
		return LocationInfo{PostInfo: result, ThreadRoot: rc.Target.ThreadRoot}, nil
	case NoParent, Quote:
		return LocationInfo{PostInfo: result, ThreadRoot: result}, nil
	case nil:
		return LocationInfo{}, ErrNoReplyContext
	default:
		return LocationInfo{}, fmt.Errorf("unhandled reply context: %T", reply)
	}
}
