package syntax

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var aturiRegex = regexp.MustCompile(`^at:\/\/(?P<authority>[a-zA-Z0-9._:%-]+)(\/(?P<collection>[a-zA-Z0-9-.]+)(\/(?P<rkey>[a-zA-Z0-9_~.:-]{1,512}))?)?$`)

// String type for an AT URI as accepted by the 'at-uri' lexicon string format: "at://<authority>[/<collection>[/<rkey>]]", with no query or fragment.
//
// Post references returned by the network are always full record URIs (all three segments).
type ATURI string

func ParseATURI(raw string) (ATURI, error) {
	if len(raw) > 8192 {
		return "", errors.New("AT-URI is too long (8192 chars max)")
	}
	parts := aturiRegex.FindStringSubmatch(raw)
	if parts == nil {
		return "", fmt.Errorf("AT-URI syntax didn't validate via regex: %s", raw)
	}
	if _, err := ParseAtIdentifier(parts[1]); err != nil {
		return "", fmt.Errorf("AT-URI authority is neither a DID nor a handle: %s", parts[1])
	}
	if parts[3] != "" {
		if _, err := ParseNSID(parts[3]); err != nil {
			return "", fmt.Errorf("AT-URI collection is not an NSID: %s", parts[3])
		}
	}
	if parts[5] != "" {
		if _, err := ParseRecordKey(parts[5]); err != nil {
			return "", fmt.Errorf("AT-URI record key is invalid: %s", parts[5])
		}
	}
	return ATURI(raw), nil
}

func (n ATURI) segments() []string {
	return strings.SplitN(strings.TrimPrefix(string(n), "at://"), "/", 3)
}

func (n ATURI) Authority() AtIdentifier {
	return AtIdentifier(n.segments()[0])
}

// Returns the collection NSID, or empty string if the URI has no collection segment.
func (n ATURI) Collection() NSID {
	s := n.segments()
	if len(s) < 2 {
		return ""
	}
	return NSID(s[1])
}

// Returns the record key, or empty string if the URI does not point at a record.
func (n ATURI) RecordKey() RecordKey {
	s := n.segments()
	if len(s) < 3 {
		return ""
	}
	return RecordKey(s[2])
}

func (n ATURI) String() string {
	return string(n)
}
