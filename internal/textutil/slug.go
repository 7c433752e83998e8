package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiFold decomposes text (NFKD) and strips the combining marks, so
// "Crème Brûlée" folds to "Creme Brulee" before the ASCII filter runs.
var asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Slug normalizes arbitrary text into a filesystem-safe string: accents are
// folded to ASCII, characters outside letters, digits, spaces, and hyphens
// are dropped, runs of whitespace and underscores collapse to single spaces,
// and leading/trailing whitespace is trimmed.
//
// Slug is total and idempotent; empty input yields empty output. Truncation
// is the caller's concern (see Truncate) so the function stays reusable in
// contexts without a length limit.
func Slug(text string) string {
	folded, _, err := transform.String(asciiFold, text)
	if err != nil {
		folded = text
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastSpace := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r) || r == '_':
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		default:
			// drop
		}
	}
	return strings.TrimSpace(b.String())
}

// Truncate cuts s to at most limit runes, trimming any whitespace left
// dangling at the cut. A non-positive limit returns the empty string.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return strings.TrimRight(string(r[:limit]), " ")
}
