package nlp

import (
	"sort"
	"strings"

	"github.com/artem13815/hackathon/pkg/vocabulary"
)

// DefaultThreshold is the minimum score a token needs to be accepted.
const DefaultThreshold = 60.0

type candidate struct {
	key       string // folded spelling compared against tokens
	canonical string
}

// Resolver maps user-typed technology mentions onto the canonical vocabulary.
// It holds no mutable state and may be shared.
type Resolver struct {
	candidates []candidate
	scorer     Scorer
	threshold  float64
}

type Option func(*Resolver)

// WithScorer replaces the similarity function (IndelRatio by default).
func WithScorer(s Scorer) Option {
	return func(r *Resolver) {
		if s != nil {
			r.scorer = s
		}
	}
}

// WithThreshold sets the minimum accepted score (0..100).
func WithThreshold(t float64) Option {
	return func(r *Resolver) { r.threshold = t }
}

func NewResolver(v *vocabulary.Vocabulary, opts ...Option) *Resolver {
	r := &Resolver{
		scorer:    ScorerFunc(IndelRatio),
		threshold: DefaultThreshold,
	}
	for _, e := range v.Entries() {
		r.candidates = append(r.candidates, candidate{key: Fold(e.Name), canonical: e.Name})
		for _, a := range e.Aliases {
			r.candidates = append(r.candidates, candidate{key: Fold(a), canonical: e.Name})
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Resolver) Threshold() float64 { return r.threshold }

// Match is the best vocabulary hit for one token.
type Match struct {
	Token     string
	Canonical string
	Score     float64
}

// Match scores token against every candidate and returns the best one. Ties keep
// the earliest candidate in vocabulary order. ok is false when the best score is
// below the threshold.
func (r *Resolver) Match(token string) (m Match, ok bool) {
	token = Fold(token)
	m = Match{Token: token, Score: -1}
	for _, c := range r.candidates {
		if s := r.scorer.Score(token, c.key); s > m.Score {
			m.Score = s
			m.Canonical = c.canonical
		}
	}
	return m, m.Canonical != "" && m.Score >= r.threshold
}

// Resolution is the outcome of resolving one free-text answer.
type Resolution struct {
	Canonical []string // sorted, unique
	Matched   int
	Unmatched []string // tokens that were dropped
}

// String renders the canonical set the way it is persisted: "A, B, C".
func (res Resolution) String() string {
	return strings.Join(res.Canonical, ", ")
}

// ResolveDetailed lower-cases the answer, splits it on "/" and whitespace and
// matches every word independently.
func (r *Resolver) ResolveDetailed(field string) Resolution {
	var res Resolution
	set := make(map[string]struct{})
	for _, word := range Tokens(Fold(field)) {
		m, ok := r.Match(word)
		if !ok {
			res.Unmatched = append(res.Unmatched, word)
			continue
		}
		res.Matched++
		set[m.Canonical] = struct{}{}
	}
	res.Canonical = make([]string, 0, len(set))
	for name := range set {
		res.Canonical = append(res.Canonical, name)
	}
	sort.Strings(res.Canonical)
	return res
}

// Resolve returns only the persisted form of ResolveDetailed.
func (r *Resolver) Resolve(field string) string {
	return r.ResolveDetailed(field).String()
}
