package domain

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims surrounding whitespace. Case is preserved; the store
// compares emails case-insensitively.
func NormalizeEmail(s string) string {
	return strings.TrimSpace(s)
}

// ValidEmail is a shape check only: something@something.tld, no spaces.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
