package seed

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/Simplici0/metal-lca/internal/kpi"
	"github.com/Simplici0/metal-lca/internal/lca"
)

// Config contains the reference data written by the startup seed.
type Config struct {
	Table      lca.Table
	Benchmarks kpi.Benchmarks
}

// DefaultConfig seeds the built-in table and benchmarks.
func DefaultConfig() Config {
	return Config{Table: lca.DefaultTable(), Benchmarks: kpi.DefaultBenchmarks()}
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
}

// Run executes the startup seed in an idempotent way. Rows that already
// exist are left untouched.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	for _, m := range lca.Metals {
		res, ok := cfg.Table.Baselines[m]
		if !ok {
			continue
		}
		if err := ensureBaseline(ctx, tx, m, res, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
		for _, src := range lca.MaterialSources {
			factor, ok := cfg.Table.EmissionFactors[m][src]
			if !ok {
				continue
			}
			if err := ensureEmissionFactor(ctx, tx, m, src, factor, &stats); err != nil {
				_ = tx.Rollback()
				return Stats{}, err
			}
		}
	}

	metrics := make([]string, 0, len(cfg.Benchmarks))
	for metric := range cfg.Benchmarks {
		metrics = append(metrics, metric)
	}
	sort.Strings(metrics)
	for _, metric := range metrics {
		if err := ensureBenchmark(ctx, tx, metric, cfg.Benchmarks[metric], &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureBaseline(ctx context.Context, tx *sql.Tx, m lca.Metal, r lca.Results, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM metal_baselines WHERE metal = ? LIMIT 1)`, m).Scan(&exists); err != nil {
		return fmt.Errorf("check %s baseline existence: %w", m, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO metal_baselines (
			metal,
			co2_footprint,
			energy_use,
			recycled_content,
			water_use,
			waste_generated,
			circularity_score
		)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, m, r.CO2Footprint, r.EnergyUse, r.RecycledContent, r.WaterUse, r.WasteGenerated, r.CircularityScore); err != nil {
		return fmt.Errorf("insert %s baseline: %w", m, err)
	}
	stats.Inserts++
	return nil
}

func ensureEmissionFactor(ctx context.Context, tx *sql.Tx, m lca.Metal, src lca.MaterialSource, factor float64, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1
			FROM emission_factors
			WHERE metal = ? AND material_source = ?
			LIMIT 1
		)
	`, m, src).Scan(&exists); err != nil {
		return fmt.Errorf("check %s/%s emission factor existence: %w", m, src, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO emission_factors (metal, material_source, kg_co2_per_kg)
		VALUES (?, ?, ?)
	`, m, src, factor); err != nil {
		return fmt.Errorf("insert %s/%s emission factor: %w", m, src, err)
	}
	stats.Inserts++
	return nil
}

func ensureBenchmark(ctx context.Context, tx *sql.Tx, metric string, value float64, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM kpi_benchmarks WHERE metric = ? LIMIT 1)`, metric).Scan(&exists); err != nil {
		return fmt.Errorf("check %s benchmark existence: %w", metric, err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO kpi_benchmarks (metric, benchmark) VALUES (?, ?)`, metric, value); err != nil {
		return fmt.Errorf("insert %s benchmark: %w", metric, err)
	}
	stats.Inserts++
	return nil
}
