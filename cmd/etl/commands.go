package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"github.com/artem13815/hackathon/pkg/bootstrap"
	"github.com/artem13815/hackathon/pkg/config"
	"github.com/artem13815/hackathon/pkg/ingest"
	xlog "github.com/artem13815/hackathon/pkg/log"
	"github.com/artem13815/hackathon/pkg/pipeline"
	"github.com/artem13815/hackathon/pkg/registration"
	"github.com/artem13815/hackathon/pkg/security/jwt"
)

// dbFields are skipped when validating config for commands without a database.
var dbFields = []string{"DatabaseURL", "SQLitePath"}

func runCLI(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stdout)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch args[0] {
	case "run":
		return runImport(ctx, args[1:], stdout, stderr)
	case "transform":
		return runTransform(ctx, args[1:], stdout, stderr)
	case "query":
		return runQuery(ctx, args[1:], stdout, stderr)
	case "migrate":
		return runMigrate(ctx, args[1:], stdout, stderr)
	case "token":
		return runToken(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Usage:")
	_, _ = fmt.Fprintln(w, "  etl <command> [flags]")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Commands:")
	_, _ = fmt.Fprintln(w, "  run        Import the source CSV and replace the registrations table")
	_, _ = fmt.Fprintln(w, "  transform  Print the cleaned rows as CSV without touching the database")
	_, _ = fmt.Fprintln(w, "  query      Print the most recent registrations")
	_, _ = fmt.Fprintln(w, "  migrate    Apply database migrations")
	_, _ = fmt.Fprintln(w, "  token      Mint an operator token for POST /api/v1/imports")
	_, _ = fmt.Fprintln(w, "")
	_, _ = fmt.Fprintln(w, "Configuration is read from the environment and an optional .env file.")
}

func newLogger(cfg config.Config, stderr io.Writer) zerolog.Logger {
	return xlog.New(xlog.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: stderr, Service: "etl"})
}

// fail prints the single diagnostic line of a failed command.
func fail(stderr io.Writer, err error) int {
	var srcErr *pipeline.SourceError
	switch {
	case errors.As(err, &srcErr):
		fmt.Fprintf(stderr, "Error: %s source: %v\n", srcErr.KindName(), err)
	case errors.Is(err, ingest.ErrPersistence):
		fmt.Fprintf(stderr, "Error: database: %v\n", err)
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return 1
}

func sourceFlags(name string, cfg config.Config, stderr io.Writer) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet("etl "+name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	source := fs.String("source", cfg.SourcePath, "Path to the registration CSV export")
	return fs, source
}

// openService loads config, connects, migrates and builds the import service.
func openService(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*ingest.Service, func(), error) {
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if _, err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, nil, err
	}
	p, err := bootstrap.NewPipeline(cfg, xlog.WithComponent(logger, "pipeline"))
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	svc := ingest.NewService(p, store.Repo,
		ingest.WithLogger(xlog.WithComponent(logger, "ingest")),
		ingest.WithQueryLimit(cfg.QueryLimit),
	)
	return svc, store.Close, nil
}

func runImport(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		return fail(stderr, err)
	}
	fs, source := sourceFlags("run", cfg, stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	logger := newLogger(cfg, stderr)

	svc, closeStore, err := openService(ctx, cfg, logger)
	if err != nil {
		return fail(stderr, err)
	}
	defer closeStore()

	rep, err := svc.Run(ctx, *source)
	if err != nil {
		return fail(stderr, err)
	}
	fmt.Fprintf(stdout, "%s: %d rows loaded (%d read, %d duplicates)\n",
		rep.Message, rep.Loaded, rep.Stats.Read, rep.Stats.Duplicates)
	return 0
}

func runTransform(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg := config.Read()
	if err := config.ValidateExcept(cfg, dbFields...); err != nil {
		return fail(stderr, err)
	}
	fs, source := sourceFlags("transform", cfg, stderr)
	withContacts := fs.Bool("contacts", false, "Also print email and phone columns")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	logger := newLogger(cfg, stderr)

	p, err := bootstrap.NewPipeline(cfg, logger)
	if err != nil {
		return fail(stderr, err)
	}
	res, err := p.Run(logger.WithContext(ctx), *source)
	if err != nil {
		return fail(stderr, err)
	}

	w := csv.NewWriter(stdout)
	header := registration.Columns
	if *withContacts {
		header = append(append([]string(nil), header...), "email", "telefone")
	}
	_ = w.Write(header)
	for _, c := range res.Records {
		row := c.Strings()
		if *withContacts {
			row = append(row, c.Email, c.Phone)
		}
		_ = w.Write(row)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fail(stderr, err)
	}
	return 0
}

func runQuery(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		return fail(stderr, err)
	}
	fs := flag.NewFlagSet("etl query", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	svc, closeStore, err := openService(ctx, cfg, newLogger(cfg, stderr))
	if err != nil {
		return fail(stderr, err)
	}
	defer closeStore()

	rows, err := svc.Recent(ctx)
	if err != nil {
		return fail(stderr, err)
	}
	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(registration.Columns, "\t"))
	for _, c := range rows {
		fmt.Fprintln(tw, strings.Join(c.Strings(), "\t"))
	}
	if err := tw.Flush(); err != nil {
		return fail(stderr, err)
	}
	return 0
}

func runMigrate(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		return fail(stderr, err)
	}
	fs := flag.NewFlagSet("etl migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return fail(stderr, err)
	}
	defer store.Close()
	n, err := store.Migrate(ctx)
	if err != nil {
		return fail(stderr, err)
	}
	fmt.Fprintf(stdout, "applied %d migration(s) on %s\n", n, cfg.DatabaseDriver)
	return 0
}

func runToken(args []string, stdout, stderr io.Writer) int {
	cfg := config.Read()
	if err := config.ValidateExcept(cfg, dbFields...); err != nil {
		return fail(stderr, err)
	}
	fs := flag.NewFlagSet("etl token", flag.ContinueOnError)
	fs.SetOutput(stderr)
	subject := fs.String("subject", "operator", "Who the token is issued to")
	ttl := fs.Duration("ttl", time.Duration(cfg.JWTTTLMinutes)*time.Minute, "Token lifetime")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	token, err := jwt.NewGenerator(cfg.JWTSecret, cfg.JWTIssuer, *ttl).Generate(*subject)
	if err != nil {
		return fail(stderr, err)
	}
	fmt.Fprintln(stdout, token)
	return 0
}
