// Package id issues the 32-hex public identifiers used for users, loans and repayments.
package id

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var re32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewID32 returns a random (v4) UUID as 32 lowercase hex characters.
func NewID32() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Valid reports whether s has the NewID32 shape.
func Valid(s string) bool { return re32.MatchString(s) }

// Suffix returns the last n characters of an id, or the whole id when shorter.
func Suffix(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
