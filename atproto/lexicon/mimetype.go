package lexicon

import (
	"strings"
)

// checks if val matches pattern, with optional trailing glob on pattern ("*/*" matches anything). case-sensitive.
func acceptableMimeType(pattern, val string) bool {
	if val == "" || pattern == "" {
		return false
	}
	if pattern == "*/*" || pattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(val, prefix)
	}
	return pattern == val
}
