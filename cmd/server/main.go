// @title         hackathon-etl API
// @version       1.0
// @description   Imports hackathon registration exports and serves the cleaned table.
// @BasePath      /api/v1
// @schemes       http
// @host          localhost:8080
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Operator token from `etl token`. Accepts "Bearer <JWT>" or "<JWT>".
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	_ "github.com/artem13815/hackathon/docs"

	// internal imports
	"github.com/artem13815/hackathon/api/http"
	"github.com/artem13815/hackathon/api/http/handlers"
	"github.com/artem13815/hackathon/pkg/bootstrap"
	"github.com/artem13815/hackathon/pkg/config"
	"github.com/artem13815/hackathon/pkg/health"
	"github.com/artem13815/hackathon/pkg/health/checkers"
	"github.com/artem13815/hackathon/pkg/ingest"
	xlog "github.com/artem13815/hackathon/pkg/log"
	"github.com/artem13815/hackathon/pkg/metrics"
	"github.com/artem13815/hackathon/pkg/security/jwt"
)

func main() {
	// Load configuration from env/.env
	cfg, err := config.Load()
	if err != nil {
		boot := xlog.New(xlog.Config{Service: "hackathon-etl"})
		boot.Fatal().Err(err).Msg("config")
	}
	logger := xlog.New(xlog.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "hackathon-etl"})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	applied, err := store.Migrate(ctx)
	if err != nil {
		return err
	}
	logger.Info().Str("driver", cfg.DatabaseDriver).Int("applied", applied).Msg("migrations done")

	p, err := bootstrap.NewPipeline(cfg, xlog.WithComponent(logger, "pipeline"))
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc := ingest.NewService(p, store.Repo,
		ingest.WithMetrics(metrics.NewBatch(reg)),
		ingest.WithLogger(xlog.WithComponent(logger, "ingest")),
		ingest.WithQueryLimit(cfg.QueryLimit),
	)

	// Health service: compose checkers
	readiness := health.NewService(store.Checker, checkers.NewSourceChecker(cfg.SourcePath))

	app := fiber.New(http.AppConfig())
	app.Use(recover.New())

	http.Register(app,
		handlers.NewHealthHandler(readiness),
		handlers.NewRegistrationsHandler(svc),
		handlers.NewImportsHandler(svc, cfg.SourcePath),
		jwt.NewAuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer),
		handlers.NewMetricsHandler(reg),
	)

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("HTTP server listening")
		errc <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info().Msg("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
