package syllable

import "strings"

// Normalize canonicalizes syllable keys for corpus construction and lookup.
// Keys are compared case-insensitively and ignoring surrounding whitespace.
func Normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
