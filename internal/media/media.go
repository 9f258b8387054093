// Package media turns attachment sources (a file path, or raw clipboard bytes) in to image data ready for upload.
//
// Only the mimetype is checked. Image content (dimensions, corruption, metadata) is passed through as-is.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/adrg/xdg"
	"github.com/h2non/filetype"
)

// ErrInvalidMedia is matched (with errors.Is) by every error returned from this package.
var ErrInvalidMedia = errors.New("invalid media")

// SourceClipboard is the Item.Source label for raw clipboard bytes.
const SourceClipboard = "clipboard"

// Item is a single attachment: bytes plus a mimetype whose primary type is "image".
type Item struct {
	Data     []byte
	MimeType string
	// Human-readable origin (file path, or SourceClipboard), for error messages.
	Source string
}

type InvalidMediaError struct {
	Source string
	Reason string
	Err    error
}

func (e *InvalidMediaError) Error() string {
	msg := fmt.Sprintf("invalid media %q: %s", e.Source, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidMediaError) Unwrap() error {
	return e.Err
}

func (e *InvalidMediaError) Is(target error) bool {
	return target == ErrInvalidMedia
}

// IsImage reports whether the primary type of mimeType is "image".
func IsImage(mimeType string) bool {
	primary, _, _ := strings.Cut(mimeType, "/")
	return primary == "image"
}

// CheckImage returns an InvalidMediaError if the item is not an image.
func (it Item) CheckImage() error {
	if it.MimeType == "" {
		return &InvalidMediaError{Source: it.Source, Reason: "no mimetype"}
	}
	if !IsImage(it.MimeType) {
		return &InvalidMediaError{Source: it.Source, Reason: "not an image: " + it.MimeType}
	}
	return nil
}

// ResolvePath loads an image from the filesystem. The mimetype comes from the file extension, and is checked before the file is read.
func ResolvePath(path string) (Item, error) {
	mimeType := MimeTypeForPath(path)
	if mimeType == "" {
		return Item{}, &InvalidMediaError{Source: path, Reason: "mimetype not found, check that the file has an image extension"}
	}
	item := Item{MimeType: mimeType, Source: path}
	if err := item.CheckImage(); err != nil {
		return Item{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Item{}, &InvalidMediaError{Source: path, Reason: "could not read file", Err: err}
	}
	if len(data) == 0 {
		return Item{}, &InvalidMediaError{Source: path, Reason: "file is empty"}
	}
	item.Data = data
	return item, nil
}

// ResolveBytes resolves clipboard content. The clipboard holds either raw image bytes, or the path of an image file.
//
// If data looks like text rather than a binary format, it is trimmed and resolved as a path (file:// URIs and a leading "~/" are understood). Otherwise mimeType is used, falling back to sniffing the content when mimeType is empty.
//
// The text/binary decision is best-effort: a short binary payload can happen to be valid UTF-8.
func ResolveBytes(data []byte, mimeType string) (Item, error) {
	if len(data) == 0 {
		return Item{}, &InvalidMediaError{Source: SourceClipboard, Reason: "clipboard is empty"}
	}

	if looksLikeText(data) {
		path, err := textToPath(string(data))
		if err != nil {
			return Item{}, &InvalidMediaError{Source: SourceClipboard, Reason: "clipboard text is not a file path", Err: err}
		}
		return ResolvePath(path)
	}

	if mimeType == "" {
		mimeType = sniffMimeType(data)
	}
	if mimeType == "" {
		return Item{}, &InvalidMediaError{Source: SourceClipboard, Reason: "could not determine mimetype of clipboard content"}
	}
	item := Item{Data: data, MimeType: mimeType, Source: SourceClipboard}
	if err := item.CheckImage(); err != nil {
		return Item{}, err
	}
	return item, nil
}

func sniffMimeType(data []byte) string {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return ""
	}
	return kind.MIME.Value
}

func looksLikeText(data []byte) bool {
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return false
	}
	return sniffMimeType(data) == ""
}

func textToPath(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("empty")
	}
	if strings.ContainsAny(s, "\r\n") {
		return "", errors.New("more than one line")
	}
	if strings.HasPrefix(s, "file://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", err
		}
		s = u.Path
	}
	if rest, ok := strings.CutPrefix(s, "~/"); ok {
		s = filepath.Join(xdg.Home, rest)
	}
	return s, nil
}
