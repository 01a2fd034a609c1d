package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeTitle prepares a section title for taxonomy lookup:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - removes diacritics ("étymologie" → "etymologie")
//   - compresses runs of spaces into one
func NormalizeTitle(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return ""
	}

	if stripped, _, err := transform.String(stripMarks, text); err == nil {
		text = stripped
	}

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
