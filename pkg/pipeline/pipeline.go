// Package pipeline turns a raw form export into cleaned registration records:
// header mapping, per-field normalization, deduplication by email and fuzzy
// resolution of the technologies answer.
package pipeline

import (
	"context"
	"io"

	"github.com/rs/zerolog"

	"github.com/artem13815/hackathon/pkg/nlp"
	"github.com/artem13815/hackathon/pkg/registration"
)

// Stats summarizes one transform run.
type Stats struct {
	Read              int `json:"read"`
	Kept              int `json:"kept"`
	Duplicates        int `json:"duplicates"`
	UnknownTimestamps int `json:"unknown_timestamps"`
	UnknownPhones     int `json:"unknown_phones"`
	MatchedTokens     int `json:"matched_tokens"`
	UnmatchedTokens   int `json:"unmatched_tokens"`
}

// Result is the cleaned table in original row order, duplicates removed.
type Result struct {
	Records []registration.Cleaned
	Stats   Stats
}

type Pipeline struct {
	resolver *nlp.Resolver
	layouts  []string
	log      zerolog.Logger
}

type Option func(*Pipeline)

// WithLayouts restricts submission time parsing to the given layouts.
func WithLayouts(layouts []string) Option {
	return func(p *Pipeline) {
		if len(layouts) > 0 {
			p.layouts = layouts
		}
	}
}

// WithLogger sets the fallback logger used when the context carries none.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

func New(resolver *nlp.Resolver, opts ...Option) *Pipeline {
	p := &Pipeline{
		resolver: resolver,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run loads the CSV at path and transforms it. A source failure is returned as
// *SourceError and no partial result is produced.
func (p *Pipeline) Run(ctx context.Context, path string) (Result, error) {
	records, err := ReadSource(path)
	if err != nil {
		return Result{}, err
	}
	return p.Transform(ctx, records), nil
}

// RunReader is Run over an already opened CSV stream.
func (p *Pipeline) RunReader(ctx context.Context, name string, r io.Reader) (Result, error) {
	records, err := ReadCSV(r, name)
	if err != nil {
		return Result{}, err
	}
	return p.Transform(ctx, records), nil
}

// Transform cleans records in order. The first record of every email wins;
// later ones are dropped whatever their other fields contain.
func (p *Pipeline) Transform(ctx context.Context, records []registration.Record) Result {
	logger := p.logger(ctx)
	res := Result{Records: make([]registration.Cleaned, 0, len(records))}
	res.Stats.Read = len(records)
	seen := make(map[string]struct{}, len(records))

	for _, rec := range records {
		key := registration.DedupKey(rec.Email)
		if _, dup := seen[key]; dup {
			res.Stats.Duplicates++
			logger.Debug().Int("line", rec.Line).Msg("duplicate email dropped")
			continue
		}
		seen[key] = struct{}{}

		c := p.clean(rec)
		if c.SubmittedAt == nil {
			res.Stats.UnknownTimestamps++
			logger.Debug().Int("line", rec.Line).Str("raw", rec.Timestamp).Msg("unparsable timestamp")
		}
		if !registration.IsKnownPhone(c.Phone) {
			res.Stats.UnknownPhones++
		}

		resolution := p.resolver.ResolveDetailed(registration.NormalizeTechList(rec.Technologies))
		c.Technologies = resolution.String()
		res.Stats.MatchedTokens += resolution.Matched
		res.Stats.UnmatchedTokens += len(resolution.Unmatched)
		if len(resolution.Unmatched) > 0 {
			logger.Debug().Int("line", rec.Line).Strs("tokens", resolution.Unmatched).Msg("unmatched technologies dropped")
		}

		res.Records = append(res.Records, c)
	}
	res.Stats.Kept = len(res.Records)

	logger.Info().
		Int("read", res.Stats.Read).
		Int("kept", res.Stats.Kept).
		Int("duplicates", res.Stats.Duplicates).
		Int("unknown_timestamps", res.Stats.UnknownTimestamps).
		Int("unmatched_tokens", res.Stats.UnmatchedTokens).
		Msg("transform finished")
	return res
}

func (p *Pipeline) clean(rec registration.Record) registration.Cleaned {
	c := registration.Cleaned{
		Timestamp:    registration.UnknownTimestamp,
		FullName:     registration.NormalizeName(rec.FullName),
		Role:         rec.Role,
		TrackURL:     rec.TrackURL,
		Area:         rec.Area,
		Availability: rec.Availability,
		Commitment:   rec.Commitment,
		Teamwork:     rec.Teamwork,
		Email:        rec.Email,
		Phone:        registration.NormalizePhone(rec.Phone),
	}
	if ts, ok := registration.ParseTimestamp(rec.Timestamp, p.layouts); ok {
		c.Timestamp = registration.FormatTimestamp(ts)
		c.SubmittedAt = &ts
	}
	return c
}

func (p *Pipeline) logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &p.log
}
