package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/Simplici0/metal-lca/internal/catalog"
	"github.com/Simplici0/metal-lca/internal/config"
	"github.com/Simplici0/metal-lca/internal/db"
	"github.com/Simplici0/metal-lca/internal/estimator"
	"github.com/Simplici0/metal-lca/internal/logging"
	"github.com/Simplici0/metal-lca/internal/migrations"
	"github.com/Simplici0/metal-lca/internal/seed"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	for _, w := range cfg.Warnings {
		logger.Warn().Msg(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	stats, err := seed.Run(ctx, database, seed.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}
	logger.Info().Int("inserts", stats.Inserts).Str("db", cfg.DBPath).Msg("catalog ready")

	store := catalog.NewStore(database)
	table, err := store.LoadTable(ctx)
	if err != nil {
		return fmt.Errorf("failed to load emission table: %w", err)
	}
	benchmarks, err := store.LoadBenchmarks(ctx)
	if err != nil {
		return fmt.Errorf("failed to load kpi benchmarks: %w", err)
	}

	engine := estimator.NewEngine(table,
		estimator.WithLatency(cfg.SimulatedLatency),
		estimator.WithLogger(logging.Component(logger, "estimator")),
	)

	srv := &server{
		log:        logging.Component(logger, "http"),
		est:        engine,
		catalog:    store,
		table:      table,
		benchmarks: benchmarks,
		batchLimit: cfg.BatchConcurrency,
		limiter:    newIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		now:        time.Now,
		dev:        cfg.IsDev(),
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Str("env", cfg.Env).Msg("listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
