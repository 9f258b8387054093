package util

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ipfs/go-cid"
)

// CID link, serialized in JSON as {"$link": "<cid>"}.
type LexLink cid.Cid

type jsonLink struct {
	Link string `json:"$link"`
}

func (ll LexLink) String() string {
	return cid.Cid(ll).String()
}

func (ll LexLink) Defined() bool {
	return cid.Cid(ll).Defined()
}

func (ll LexLink) MarshalJSON() ([]byte, error) {
	if !ll.Defined() {
		return nil, errors.New("tried to marshal nil or undefined cid-link")
	}
	return json.Marshal(jsonLink{Link: ll.String()})
}

func (ll *LexLink) UnmarshalJSON(raw []byte) error {
	var jl jsonLink
	if err := json.Unmarshal(raw, &jl); err != nil {
		return fmt.Errorf("parsing cid-link JSON: %w", err)
	}
	c, err := cid.Decode(jl.Link)
	if err != nil {
		return fmt.Errorf("parsing cid-link CID: %w", err)
	}
	*ll = LexLink(c)
	return nil
}

// Reference to an uploaded blob, as returned by com.atproto.repo.uploadBlob and embedded in records in place of the raw bytes.
type LexBlob struct {
	Ref      LexLink
	MimeType string
	Size     int64
}

type blobSchema struct {
	LexiconTypeID string  `json:"$type"`
	Ref           LexLink `json:"ref"`
	MimeType      string  `json:"mimeType"`
	Size          int64   `json:"size"`
}

func (b LexBlob) MarshalJSON() ([]byte, error) {
	return json.Marshal(blobSchema{
		LexiconTypeID: "blob",
		Ref:           b.Ref,
		MimeType:      b.MimeType,
		Size:          b.Size,
	})
}

func (b *LexBlob) UnmarshalJSON(raw []byte) error {
	typ, err := TypeExtract(raw)
	if err != nil {
		return fmt.Errorf("parsing blob type: %w", err)
	}
	if typ != "blob" {
		return fmt.Errorf("unsupported blob object type: %q", typ)
	}
	var bs blobSchema
	if err := json.Unmarshal(raw, &bs); err != nil {
		return fmt.Errorf("parsing blob JSON: %w", err)
	}
	if bs.Size < 0 {
		return fmt.Errorf("parsing blob: negative size: %d", bs.Size)
	}
	b.Ref = bs.Ref
	b.MimeType = bs.MimeType
	b.Size = bs.Size
	return nil
}
