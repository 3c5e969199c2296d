// Package catalog reads the LCA reference data kept in SQLite.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/Simplici0/metal-lca/internal/kpi"
	"github.com/Simplici0/metal-lca/internal/lca"
)

// Baseline is a stored reference result for one metal.
type Baseline struct {
	Metal   lca.Metal   `json:"metal"`
	Results lca.Results `json:"results"`
}

// EmissionFactor is a stored kg CO2/kg factor.
type EmissionFactor struct {
	Metal          lca.Metal          `json:"metal"`
	MaterialSource lca.MaterialSource `json:"materialSource"`
	KgCO2PerKg     float64            `json:"kgCo2PerKg"`
}

// Store reads the reference catalog.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListBaselines(ctx context.Context) ([]Baseline, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT metal, co2_footprint, energy_use, recycled_content, water_use, waste_generated, circularity_score
		FROM metal_baselines
		ORDER BY metal
	`)
	if err != nil {
		return nil, fmt.Errorf("query metal baselines: %w", err)
	}
	defer rows.Close()

	baselines := make([]Baseline, 0)
	for rows.Next() {
		var b Baseline
		r := &b.Results
		if err := rows.Scan(&b.Metal, &r.CO2Footprint, &r.EnergyUse, &r.RecycledContent, &r.WaterUse, &r.WasteGenerated, &r.CircularityScore); err != nil {
			return nil, fmt.Errorf("scan metal baseline: %w", err)
		}
		baselines = append(baselines, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metal baselines: %w", err)
	}

	return baselines, nil
}

func (s *Store) ListEmissionFactors(ctx context.Context) ([]EmissionFactor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT metal, material_source, kg_co2_per_kg
		FROM emission_factors
		ORDER BY metal, material_source
	`)
	if err != nil {
		return nil, fmt.Errorf("query emission factors: %w", err)
	}
	defer rows.Close()

	factors := make([]EmissionFactor, 0)
	for rows.Next() {
		var f EmissionFactor
		if err := rows.Scan(&f.Metal, &f.MaterialSource, &f.KgCO2PerKg); err != nil {
			return nil, fmt.Errorf("scan emission factor: %w", err)
		}
		factors = append(factors, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate emission factors: %w", err)
	}

	return factors, nil
}

// LoadBenchmarks returns the stored KPI targets.
func (s *Store) LoadBenchmarks(ctx context.Context) (kpi.Benchmarks, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT metric, benchmark FROM kpi_benchmarks`)
	if err != nil {
		return nil, fmt.Errorf("query kpi benchmarks: %w", err)
	}
	defer rows.Close()

	b := make(kpi.Benchmarks)
	for rows.Next() {
		var metric string
		var value float64
		if err := rows.Scan(&metric, &value); err != nil {
			return nil, fmt.Errorf("scan kpi benchmark: %w", err)
		}
		b[metric] = value
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kpi benchmarks: %w", err)
	}

	return b, nil
}

// LoadTable builds an lca.Table from the catalog. Every supported metal must
// have a baseline and a factor for each material source, and every stored
// value must be finite and non-negative.
func (s *Store) LoadTable(ctx context.Context) (lca.Table, error) {
	baselines, err := s.ListBaselines(ctx)
	if err != nil {
		return lca.Table{}, err
	}
	factors, err := s.ListEmissionFactors(ctx)
	if err != nil {
		return lca.Table{}, err
	}

	t := lca.Table{
		Baselines:       make(map[lca.Metal]lca.Results, len(baselines)),
		EmissionFactors: make(map[lca.Metal]map[lca.MaterialSource]float64),
	}
	for _, b := range baselines {
		t.Baselines[b.Metal] = b.Results
	}
	for _, f := range factors {
		if t.EmissionFactors[f.Metal] == nil {
			t.EmissionFactors[f.Metal] = make(map[lca.MaterialSource]float64)
		}
		t.EmissionFactors[f.Metal][f.MaterialSource] = f.KgCO2PerKg
	}

	if err := checkTable(t); err != nil {
		return lca.Table{}, err
	}
	return t, nil
}

// checkTable requires a baseline and both emission factors for every metal,
// all of them finite and non-negative.
func checkTable(t lca.Table) error {
	for _, m := range lca.Metals {
		b, ok := t.Baselines[m]
		if !ok {
			return fmt.Errorf("catalog has no baseline for %s", m)
		}
		fields := []struct {
			name  string
			value float64
		}{
			{"co2_footprint", b.CO2Footprint},
			{"energy_use", b.EnergyUse},
			{"recycled_content", b.RecycledContent},
			{"water_use", b.WaterUse},
			{"waste_generated", b.WasteGenerated},
			{"circularity_score", b.CircularityScore},
		}
		for _, f := range fields {
			if !usable(f.value) {
				return fmt.Errorf("catalog baseline for %s has invalid %s %v", m, f.name, f.value)
			}
		}

		for _, src := range lca.MaterialSources {
			factor, ok := t.EmissionFactors[m][src]
			if !ok {
				return fmt.Errorf("catalog has no %s emission factor for %s", src, m)
			}
			if !usable(factor) {
				return fmt.Errorf("catalog %s emission factor for %s is invalid: %v", src, m, factor)
			}
		}
	}
	return nil
}

func usable(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
