// Package lca estimates the environmental impact of producing a quantity of
// metal under a linear or circular economy scenario.
//
// The numbers are a rule-based approximation over a fixed baseline table, not a
// scientific life-cycle model.
package lca

import "math"

const (
	recycledCO2Factor     = 0.7
	recycledEnergyFactor  = 0.65
	recycledContentSignal = 95.0

	renewableCO2Factor    = 0.3
	renewableEnergyFactor = 0.9

	circularContentStep = 20.0
	circularContentCap  = 95.0
	circularCO2Factor   = 0.8
)

// Table is the reference data an assessment starts from.
type Table struct {
	// Baselines is the reference result per metal for primary source on
	// grid-mix energy.
	Baselines map[Metal]Results
	// EmissionFactors is kg CO2 per kg of metal, keyed by metal and source.
	EmissionFactors map[Metal]map[MaterialSource]float64
}

// DefaultTable returns the built-in reference table.
func DefaultTable() Table {
	baseline := Results{
		CO2Footprint:     12.5,
		EnergyUse:        185.3,
		RecycledContent:  35,
		WaterUse:         850,
		WasteGenerated:   45.2,
		CircularityScore: 65,
	}
	return Table{
		Baselines: map[Metal]Results{
			Aluminum: baseline,
			Copper:   baseline,
		},
		EmissionFactors: map[Metal]map[MaterialSource]float64{
			Aluminum: {Primary: 11.5, Recycled: 0.7},
			Copper:   {Primary: 4.2, Recycled: 0.6},
		},
	}
}

// Compute runs an assessment against DefaultTable.
func Compute(in Inputs, sc Scenario) (Results, error) {
	return DefaultTable().Compute(in, sc)
}

// Compute validates in and sc, then applies the adjustment rules to the
// baseline of in.Metal: material source, energy source, then scenario.
// Water use, waste and circularity score pass through from the baseline.
func (t Table) Compute(in Inputs, sc Scenario) (Results, error) {
	if err := Validate(in, sc); err != nil {
		return Results{}, err
	}

	res := t.Baselines[in.Metal]

	if in.MaterialSource == Recycled {
		res.CO2Footprint *= recycledCO2Factor
		res.EnergyUse *= recycledEnergyFactor
		res.RecycledContent = recycledContentSignal
	}

	if in.EnergySource == Renewables {
		res.CO2Footprint *= renewableCO2Factor
		res.EnergyUse *= renewableEnergyFactor
	}

	if sc == Circular {
		res.RecycledContent = math.Min(circularContentCap, res.RecycledContent+circularContentStep)
		res.CO2Footprint *= circularCO2Factor
	}

	res.RecycledContent = clampPercent(res.RecycledContent)
	res.CircularityScore = clampPercent(res.CircularityScore)

	return res, nil
}

// EmissionFactor returns the factor that applies to in, and whether it was
// supplied by the user rather than taken from the table.
func (t Table) EmissionFactor(in Inputs) (float64, bool) {
	if in.CustomEmissionFactor != nil {
		return *in.CustomEmissionFactor, true
	}
	return t.EmissionFactors[in.Metal][in.MaterialSource], false
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
