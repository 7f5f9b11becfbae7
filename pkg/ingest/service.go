// Package ingest runs one import batch end to end: read and transform the
// source, replace the registrations table, report.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/artem13815/hackathon/pkg/metrics"
	"github.com/artem13815/hackathon/pkg/pipeline"
	"github.com/artem13815/hackathon/pkg/registration"
)

// SuccessMessage is shown to the operator after a completed import.
const SuccessMessage = "Dados atualizados"

const defaultLimit = 100

// ErrPersistence marks failures of the Loader; the previous table is kept.
var ErrPersistence = errors.New("persistence failed")

type PersistenceError struct {
	Table string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Table, e.Err)
}

func (e *PersistenceError) Unwrap() []error { return []error{ErrPersistence, e.Err} }

// Report describes a finished batch.
type Report struct {
	RunID   string         `json:"run_id"`
	Source  string         `json:"source"`
	Stats   pipeline.Stats `json:"stats"`
	Loaded  int            `json:"loaded"`
	Message string         `json:"message"`
}

type Service struct {
	pipeline *pipeline.Pipeline
	repo     registration.Repository
	metrics  *metrics.Batch
	log      zerolog.Logger
	limit    int
	now      func() time.Time

	// serializes batches so two replace transactions never interleave
	mu sync.Mutex
}

type Option func(*Service)

func WithMetrics(m *metrics.Batch) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithQueryLimit sets how many rows Recent returns.
func WithQueryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.limit = n
		}
	}
}

func NewService(p *pipeline.Pipeline, repo registration.Repository, opts ...Option) *Service {
	s := &Service{
		pipeline: p,
		repo:     repo,
		log:      zerolog.Nop(),
		limit:    defaultLimit,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run imports the CSV file at path.
func (s *Service) Run(ctx context.Context, path string) (Report, error) {
	return s.run(ctx, path, func(ctx context.Context) (pipeline.Result, error) {
		return s.pipeline.Run(ctx, path)
	})
}

// RunReader imports an uploaded CSV; name identifies it in logs and errors.
func (s *Service) RunReader(ctx context.Context, name string, r io.Reader) (Report, error) {
	return s.run(ctx, name, func(ctx context.Context) (pipeline.Result, error) {
		return s.pipeline.RunReader(ctx, name, r)
	})
}

func (s *Service) run(ctx context.Context, source string, transform func(context.Context) (pipeline.Result, error)) (Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.NewString()
	logger := s.log.With().Str("run_id", runID).Str("source", source).Logger()
	ctx = logger.WithContext(ctx)
	started := s.now()

	res, err := transform(ctx)
	if err != nil {
		var srcErr *pipeline.SourceError
		if errors.As(err, &srcErr) {
			logger.Error().Err(err).Str("kind", srcErr.KindName()).Str("path", srcErr.Path).Msg("source load failed")
		} else {
			logger.Error().Err(err).Msg("transform failed")
		}
		s.metrics.Observe(metrics.Observation{Outcome: metrics.OutcomeSourceError, Started: started, Finished: s.now()})
		return Report{}, err
	}

	if err := s.repo.ReplaceAll(ctx, res.Records); err != nil {
		logger.Error().Err(err).Str("table", registration.Table).Msg("load failed, previous table kept")
		s.metrics.Observe(observation(metrics.OutcomeStoreError, res.Stats, 0, started, s.now()))
		return Report{}, &PersistenceError{Table: registration.Table, Err: err}
	}

	finished := s.now()
	s.metrics.Observe(observation(metrics.OutcomeSuccess, res.Stats, len(res.Records), started, finished))
	logger.Info().
		Int("loaded", len(res.Records)).
		Dur("took", finished.Sub(started)).
		Msg(SuccessMessage)

	return Report{
		RunID:   runID,
		Source:  source,
		Stats:   res.Stats,
		Loaded:  len(res.Records),
		Message: SuccessMessage,
	}, nil
}

// Recent returns the newest cleaned registrations, up to the query limit.
func (s *Service) Recent(ctx context.Context) ([]registration.Cleaned, error) {
	rows, err := s.repo.Recent(ctx, s.limit)
	if err != nil {
		return nil, &PersistenceError{Table: registration.Table, Err: err}
	}
	return rows, nil
}

func observation(outcome string, st pipeline.Stats, loaded int, started, finished time.Time) metrics.Observation {
	return metrics.Observation{
		Outcome:    outcome,
		Read:       st.Read,
		Loaded:     loaded,
		Duplicates: st.Duplicates,
		Matched:    st.MatchedTokens,
		Unmatched:  st.UnmatchedTokens,
		Started:    started,
		Finished:   finished,
	}
}
