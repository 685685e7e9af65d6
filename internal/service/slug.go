// Package service implements the application's business operations on top
// of the repositories: the post ingestion pipeline and comment handling.
package service

import (
	"strings"
	"unicode"
)

// Slugify derives a URL-safe slug from a title: lowercased, every run of
// non-alphanumeric characters collapsed to a single hyphen, leading and
// trailing hyphens trimmed.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	prevHyphen := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevHyphen = false
			continue
		}
		if !prevHyphen && b.Len() > 0 {
			b.WriteByte('-')
			prevHyphen = true
		}
	}

	return strings.TrimRight(b.String(), "-")
}
