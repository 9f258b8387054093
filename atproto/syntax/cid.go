package syntax

import (
	"errors"
	"regexp"
	"strings"
)

var cidRegex = regexp.MustCompile(`^[a-zA-Z0-9+=]{8,256}$`)

// CIDv1 in string form, as accepted by the 'cid' lexicon string format.
//
// This only checks string syntax. Blob references, which need an actual decoded CID, go through github.com/ipfs/go-cid in the lex/util package.
type CID string

func ParseCID(raw string) (CID, error) {
	if len(raw) > 256 {
		return "", errors.New("CID is too long (256 chars max)")
	}
	if len(raw) < 8 {
		return "", errors.New("CID is too short (8 chars min)")
	}
	if !cidRegex.MatchString(raw) {
		return "", errors.New("CID syntax didn't validate via regex")
	}
	if strings.HasPrefix(raw, "Qmb") {
		return "", errors.New("CIDv0 not allowed in this version of atproto")
	}
	return CID(raw), nil
}

func (c CID) String() string {
	return string(c)
}
