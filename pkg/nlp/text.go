// Package nlp holds the text normalization shared by prompt handling.
package nlp

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize composes text to NFC, drops control characters and collapses
// whitespace runs into single spaces.
func Normalize(text string) string {
	text = norm.NFC.String(text)

	text = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	return strings.Join(strings.Fields(text), " ")
}

// Fold lowercases text and strips combining marks, so "Café" and "cafe"
// compare equal.
func Fold(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, strings.ToLower(text))
	if err != nil {
		return strings.ToLower(text)
	}
	return result
}
