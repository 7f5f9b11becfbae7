// Package bootstrap wires configuration into the store, resolver and import
// service shared by the server and the CLI.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/artem13815/hackathon/pkg/config"
	"github.com/artem13815/hackathon/pkg/health"
	"github.com/artem13815/hackathon/pkg/health/checkers"
	"github.com/artem13815/hackathon/pkg/migrations"
	"github.com/artem13815/hackathon/pkg/nlp"
	"github.com/artem13815/hackathon/pkg/pipeline"
	"github.com/artem13815/hackathon/pkg/registration"
	pgrepo "github.com/artem13815/hackathon/pkg/repository/postgres"
	sqliterepo "github.com/artem13815/hackathon/pkg/repository/sqlite"
	"github.com/artem13815/hackathon/pkg/storage/postgres"
	"github.com/artem13815/hackathon/pkg/storage/sqlite"
	"github.com/artem13815/hackathon/pkg/vocabulary"
)

// Store is an opened Loader together with what migrations and readiness checks need.
type Store struct {
	Repo    registration.Repository
	Checker health.Checker

	db      *sql.DB
	dialect goose.Dialect
	close   func()
}

// OpenStore connects to the configured database driver.
func OpenStore(ctx context.Context, cfg config.Config) (*Store, error) {
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLitePath, sqlite.DefaultConfig())
		if err != nil {
			return nil, err
		}
		return &Store{
			Repo:    sqliterepo.NewRegistrationRepository(db),
			Checker: checkers.NewSQLChecker("sqlite", db),
			db:      db,
			dialect: goose.DialectSQLite3,
			close:   func() { _ = db.Close() },
		}, nil
	case config.DriverPostgres:
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		db := postgres.SQLDB(pool)
		return &Store{
			Repo:    pgrepo.NewRegistrationRepository(pool),
			Checker: checkers.NewPostgresChecker(pool),
			db:      db,
			dialect: goose.DialectPostgres,
			close: func() {
				_ = db.Close()
				pool.Close()
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}

// Migrate applies pending migrations and returns how many ran.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	return migrations.Up(ctx, s.db, s.dialect)
}

func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// NewResolver builds the fuzzy resolver from the configured vocabulary and scorer.
func NewResolver(cfg config.Config) (*nlp.Resolver, error) {
	vocab := vocabulary.Default()
	if cfg.VocabularyPath != "" {
		v, err := vocabulary.Load(cfg.VocabularyPath)
		if err != nil {
			return nil, err
		}
		vocab = v
	}
	scorer, err := nlp.ScorerByName(cfg.MatchScorer)
	if err != nil {
		return nil, err
	}
	return nlp.NewResolver(vocab, nlp.WithScorer(scorer), nlp.WithThreshold(cfg.MatchThreshold)), nil
}

// NewPipeline builds the transform pipeline for cfg.
func NewPipeline(cfg config.Config, logger zerolog.Logger) (*pipeline.Pipeline, error) {
	resolver, err := NewResolver(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolver: %w", err)
	}
	return pipeline.New(resolver,
		pipeline.WithLayouts(cfg.TimestampLayouts),
		pipeline.WithLogger(logger),
	), nil
}
