package nlp

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Fold brings free text to the form used for matching: NFC-composed and lower-cased.
// Punctuation is kept, so "c++," and "c++" stay different tokens.
func Fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}

// Segments splits a folded answer on "/" (people slash-separate alternatives,
// e.g. "react/node"). A field without "/" is a single segment.
func Segments(folded string) []string {
	if !strings.Contains(folded, "/") {
		return []string{folded}
	}
	return strings.Split(folded, "/")
}

// Words returns the whitespace-separated tokens of a segment.
func Words(segment string) []string {
	return strings.Fields(segment)
}

// Tokens returns every word token of a folded answer, segment by segment.
func Tokens(folded string) []string {
	var out []string
	for _, seg := range Segments(folded) {
		out = append(out, Words(seg)...)
	}
	return out
}
