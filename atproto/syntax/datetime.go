package syntax

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	// Preferred atproto datetime layout, for use with [time.Time.Format]. Parsing is more flexible.
	AtprotoDatetimeLayout = "2006-01-02T15:04:05.999Z"
)

var datetimeRegex = regexp.MustCompile(`^[0-9]{4}-[01][0-9]-[0-3][0-9]T[0-2][0-9]:[0-6][0-9]:[0-6][0-9](.[0-9]{1,20})?(Z|([+-][0-2][0-9]:[0-5][0-9]))$`)

// Datetime string as accepted by the 'datetime' lexicon string format: the intersection of RFC-3339 and ISO-8601.
type Datetime string

func ParseDatetime(raw string) (Datetime, error) {
	if len(raw) > 64 {
		return "", errors.New("datetime too long (64 chars max)")
	}
	if !datetimeRegex.MatchString(raw) {
		return "", fmt.Errorf("datetime syntax didn't validate via regex: %s", raw)
	}
	if strings.HasSuffix(raw, "-00:00") {
		return "", errors.New("datetime can't use '-00:00' for UTC timezone, must use '+00:00'")
	}
	if _, err := time.Parse(time.RFC3339Nano, raw); err != nil {
		return "", fmt.Errorf("datetime did not parse: %w", err)
	}
	return Datetime(raw), nil
}

// Formats t (converted to UTC) in the preferred syntax.
func DatetimeFromTime(t time.Time) Datetime {
	return Datetime(t.UTC().Format(AtprotoDatetimeLayout))
}

func (d Datetime) String() string {
	return string(d)
}
