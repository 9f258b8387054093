package syntax

import (
	"errors"
	"fmt"
	"regexp"
)

var langRegex = regexp.MustCompile(`^(i|[a-z]{2,3})(-[a-zA-Z0-9]+)*$`)

// BCP-47 language tag as accepted by the 'language' lexicon string format. This is a naive syntax check with no normalization; the CLI canonicalizes user input with golang.org/x/text/language first.
type Language string

func ParseLanguage(raw string) (Language, error) {
	if raw == "" {
		return "", errors.New("expected language code, got empty string")
	}
	if len(raw) > 128 {
		return "", errors.New("language is too long (128 chars max)")
	}
	if !langRegex.MatchString(raw) {
		return "", fmt.Errorf("language syntax didn't validate via regex: %s", raw)
	}
	return Language(raw), nil
}

func (l Language) String() string {
	return string(l)
}
