package nlp

import (
	"fmt"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Scorer rates how similar two strings are on a 0..100 scale.
type Scorer interface {
	Score(a, b string) float64
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(a, b string) float64

func (f ScorerFunc) Score(a, b string) float64 { return f(a, b) }

const (
	ScorerIndel       = "indel"
	ScorerLevenshtein = "levenshtein"
)

// ScorerByName resolves a configured scorer name.
func ScorerByName(name string) (Scorer, error) {
	switch name {
	case "", ScorerIndel:
		return ScorerFunc(IndelRatio), nil
	case ScorerLevenshtein:
		return ScorerFunc(LevenshteinRatio), nil
	default:
		return nil, fmt.Errorf("unknown scorer %q", name)
	}
}

// IndelRatio is the normalized insertion/deletion similarity:
// 100 * 2*LCS(a, b) / (len(a)+len(b)), computed over runes.
// Two empty strings are identical (100).
func IndelRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	return 100 * float64(2*lcsLength(ra, rb)) / float64(total)
}

// LevenshteinRatio is 100 * (1 - distance/longest) with unit edit costs.
func LevenshteinRatio(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 100
	}
	d := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(d)/float64(longest))
}

func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				cur[j] = prev[j-1] + 1
			case prev[j] >= cur[j-1]:
				cur[j] = prev[j]
			default:
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
