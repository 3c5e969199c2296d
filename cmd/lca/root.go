package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Simplici0/metal-lca/internal/catalog"
	"github.com/Simplici0/metal-lca/internal/db"
	"github.com/Simplici0/metal-lca/internal/estimator"
	"github.com/Simplici0/metal-lca/internal/kpi"
	"github.com/Simplici0/metal-lca/internal/lca"
	"github.com/Simplici0/metal-lca/internal/logging"
	"github.com/Simplici0/metal-lca/internal/migrations"
	"github.com/Simplici0/metal-lca/internal/report"
	"github.com/Simplici0/metal-lca/internal/seed"
)

// app carries the state shared by every subcommand.
type app struct {
	dbPath   string
	logLevel string
	log      zerolog.Logger
	now      func() time.Time
}

func newRootCmd() *cobra.Command {
	a := &app{now: time.Now, log: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "lca",
		Short: "Estimate the life cycle impact of aluminum and copper",
		Long: `lca estimates CO2, energy, water and waste indicators for a metal under a
linear or circular economy scenario, and exports the assessment as a report.`,
		Example: `  # Validate a set of inputs
  lca validate --metal copper --quantity 250

  # Compute the circular scenario from a YAML file
  lca compute --file inputs.yaml --scenario circular

  # Export a PDF report into ./reports
  lca report --file inputs.yaml --format pdf --out reports`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.log = logging.New(a.logLevel, logging.FormatConsole, cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&a.dbPath, "db", db.MemoryPath, "SQLite catalog with baselines and emission factors, created and seeded if missing")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level: debug|info|warn|error")
	cmd.AddCommand(newValidateCmd(), newComputeCmd(a), newReportCmd(a), newFlowCmd(a))

	return cmd
}

// loadCatalog opens the catalog, brings its schema and reference rows up to
// date, and returns the table and benchmarks it holds.
func (a *app) loadCatalog(ctx context.Context) (lca.Table, kpi.Benchmarks, error) {
	database, err := db.Open(ctx, a.dbPath)
	if err != nil {
		return lca.Table{}, nil, err
	}
	defer database.Close()

	if err := migrations.Up(ctx, database); err != nil {
		return lca.Table{}, nil, fmt.Errorf("migrate catalog: %w", err)
	}
	stats, err := seed.Run(ctx, database, seed.DefaultConfig())
	if err != nil {
		return lca.Table{}, nil, fmt.Errorf("seed catalog: %w", err)
	}
	a.log.Debug().Str("db", a.dbPath).Int("inserts", stats.Inserts).Msg("catalog ready")

	store := catalog.NewStore(database)
	table, err := store.LoadTable(ctx)
	if err != nil {
		return lca.Table{}, nil, err
	}
	benchmarks, err := store.LoadBenchmarks(ctx)
	if err != nil {
		return lca.Table{}, nil, err
	}
	return table, benchmarks, nil
}

// assess estimates in under sc against the catalog.
func (a *app) assess(ctx context.Context, in lca.Inputs, sc lca.Scenario) (report.Assessment, error) {
	// Reject bad inputs before touching the catalog.
	if err := lca.Validate(in, sc); err != nil {
		return report.Assessment{}, err
	}

	table, benchmarks, err := a.loadCatalog(ctx)
	if err != nil {
		return report.Assessment{}, err
	}

	engine := estimator.NewEngine(table, estimator.WithLogger(logging.Component(a.log, "estimator")))
	res, err := estimator.Start(ctx, engine, in, sc).Wait(ctx)
	if err != nil {
		return report.Assessment{}, err
	}
	return report.NewAssessment(table, benchmarks, in, sc, res), nil
}
