// Package kpi turns assessment results into benchmarked indicator cards.
package kpi

import "github.com/Simplici0/metal-lca/internal/lca"

// Status is the benchmark verdict shown next to an indicator.
type Status string

const (
	StatusNone      Status = ""
	StatusExcellent Status = "Excellent"
	StatusGood      Status = "Good"
	StatusFair      Status = "Fair"
	StatusPoor      Status = "Poor"
)

// Classify compares value with benchmark. A benchmark <= 0 means the metric
// has no target and yields StatusNone.
func Classify(value, benchmark float64) Status {
	if benchmark <= 0 {
		return StatusNone
	}
	ratio := value / benchmark
	switch {
	case ratio < 0.7:
		return StatusExcellent
	case ratio < 1.0:
		return StatusGood
	case ratio < 1.3:
		return StatusFair
	default:
		return StatusPoor
	}
}

// Metric keys, shared with the catalog's kpi_benchmarks table.
const (
	MetricCO2Footprint     = "co2Footprint"
	MetricEnergyUse        = "energyUse"
	MetricRecycledContent  = "recycledContent"
	MetricWaterUse         = "waterUse"
	MetricWasteGenerated   = "wasteGenerated"
	MetricCircularityScore = "circularityScore"
)

// Benchmarks maps a metric key to its target value.
type Benchmarks map[string]float64

// DefaultBenchmarks returns the reference targets for the four absolute
// metrics. Percentages carry no target.
func DefaultBenchmarks() Benchmarks {
	return Benchmarks{
		MetricCO2Footprint:   15.0,
		MetricEnergyUse:      200.0,
		MetricWaterUse:       1000.0,
		MetricWasteGenerated: 30.0,
	}
}

// Card is one indicator on the board.
type Card struct {
	Metric       string  `json:"metric"`
	Title        string  `json:"title"`
	Unit         string  `json:"unit"`
	Value        float64 `json:"value"`
	Benchmark    float64 `json:"benchmark,omitempty"`
	Status       Status  `json:"status,omitempty"`
	IsPercentage bool    `json:"isPercentage"`
}

// Board returns the six indicator cards in display order.
func Board(res lca.Results, b Benchmarks) []Card {
	cards := []Card{
		{Metric: MetricCO2Footprint, Title: "CO2 Footprint", Unit: "kg CO2 eq", Value: res.CO2Footprint},
		{Metric: MetricEnergyUse, Title: "Energy Use", Unit: "MJ", Value: res.EnergyUse},
		{Metric: MetricRecycledContent, Title: "Recycled Content", Unit: "%", Value: res.RecycledContent, IsPercentage: true},
		{Metric: MetricWaterUse, Title: "Water Use", Unit: "liters", Value: res.WaterUse},
		{Metric: MetricWasteGenerated, Title: "Waste Generated", Unit: "kg", Value: res.WasteGenerated},
		{Metric: MetricCircularityScore, Title: "Circularity Score", Unit: "/100", Value: res.CircularityScore, IsPercentage: true},
	}
	for i := range cards {
		bm := b[cards[i].Metric]
		if bm <= 0 {
			continue
		}
		cards[i].Benchmark = bm
		cards[i].Status = Classify(cards[i].Value, bm)
	}
	return cards
}
