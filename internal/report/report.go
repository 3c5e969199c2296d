// Package report assembles and renders the assessment report.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Simplici0/metal-lca/internal/kpi"
	"github.com/Simplici0/metal-lca/internal/lca"
)

const (
	Title = "LCA Report Preview"
	scope = "This assessment demonstrates the environmental impact across the entire lifecycle, " +
		"from raw material extraction to end-of-life treatment."
)

// Format is a supported export format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
	FormatText Format = "txt"
)

func (f Format) Valid() bool {
	return f == FormatPDF || f == FormatXLSX || f == FormatText
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Filename returns the PDF name for a report generated at t.
func Filename(metal lca.Metal, sc lca.Scenario, t time.Time) string {
	return FilenameWithExt(metal, sc, t, FormatPDF)
}

// FilenameWithExt is Filename for an arbitrary export format.
func FilenameWithExt(metal lca.Metal, sc lca.Scenario, t time.Time, f Format) string {
	return fmt.Sprintf("LCA_Report_%s_%s_%d.%s", metal, sc, t.UnixMilli(), f)
}

// Assessment is everything a report is built from.
type Assessment struct {
	Inputs         lca.Inputs
	Scenario       lca.Scenario
	Results        lca.Results
	EmissionFactor float64
	CustomFactor   bool
	Benchmarks     kpi.Benchmarks
}

// NewAssessment pairs res with the emission factor and benchmarks that apply
// to in.
func NewAssessment(t lca.Table, b kpi.Benchmarks, in lca.Inputs, sc lca.Scenario, res lca.Results) Assessment {
	factor, custom := t.EmissionFactor(in)
	return Assessment{
		Inputs:         in,
		Scenario:       sc,
		Results:        res,
		EmissionFactor: factor,
		CustomFactor:   custom,
		Benchmarks:     b,
	}
}

// Line is a labelled value in a report section.
type Line struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Report is the rendered-agnostic report document.
type Report struct {
	Title           string       `json:"title"`
	Filename        string       `json:"filename"`
	GeneratedAt     time.Time    `json:"generatedAt"`
	Inputs          lca.Inputs   `json:"inputs"`
	Scenario        lca.Scenario `json:"scenario"`
	Results         lca.Results  `json:"results"`
	Grade           lca.Grade    `json:"grade"`
	Summary         string       `json:"summary"`
	Scope           string       `json:"scope"`
	KeyFindings     []Line       `json:"keyFindings"`
	Circularity     []Line       `json:"circularity"`
	Parameters      []Line       `json:"parameters"`
	KPIs            []kpi.Card   `json:"kpis"`
	Recommendations []string     `json:"recommendations"`
}

// Build assembles the report for a at time now.
func Build(a Assessment, now time.Time) Report {
	in, res := a.Inputs, a.Results

	return Report{
		Title:       Title,
		Filename:    Filename(in.Metal, a.Scenario, now),
		GeneratedAt: now,
		Inputs:      in,
		Scenario:    a.Scenario,
		Results:     res,
		Grade:       lca.GradeFor(res.CircularityScore),
		Summary: fmt.Sprintf(
			"Life Cycle Assessment for %skg of %s using %s economy approach with %s material source and %s energy.",
			num(in.Quantity), in.Metal, a.Scenario, in.MaterialSource, in.EnergySource,
		),
		Scope: scope,
		KeyFindings: []Line{
			{Label: "CO2 Footprint", Value: fmt.Sprintf("%.1f kg CO2 eq", res.CO2Footprint)},
			{Label: "Energy Use", Value: fmt.Sprintf("%.1f MJ", res.EnergyUse)},
			{Label: "Water Consumption", Value: fmt.Sprintf("%.0f liters", res.WaterUse)},
			{Label: "Waste Generated", Value: fmt.Sprintf("%.1f kg", res.WasteGenerated)},
		},
		Circularity: []Line{
			{Label: "Recycled Content", Value: num(res.RecycledContent) + "%"},
			{Label: "Circularity Score", Value: num(res.CircularityScore) + "/100"},
		},
		Parameters:      parameters(a),
		KPIs:            kpi.Board(res, a.Benchmarks),
		Recommendations: recommendations(in),
	}
}

func parameters(a Assessment) []Line {
	in := a.Inputs
	source := "table"
	if a.CustomFactor {
		source = "custom"
	}
	return []Line{
		{Label: "Metal", Value: string(in.Metal)},
		{Label: "Material Source", Value: string(in.MaterialSource)},
		{Label: "Energy Source", Value: string(in.EnergySource)},
		{Label: "Transport", Value: fmt.Sprintf("%s, %s km", in.TransportMode, num(in.TransportDistance))},
		{Label: "End of Life", Value: string(in.EndOfLife)},
		{Label: "Quantity", Value: num(in.Quantity) + " kg"},
		{Label: "Emission Factor", Value: fmt.Sprintf("%s kg CO2/kg (%s)", num(a.EmissionFactor), source)},
		{Label: "Scenario", Value: string(a.Scenario)},
	}
}

func recommendations(in lca.Inputs) []string {
	var out []string
	if in.MaterialSource == lca.Primary {
		out = append(out, "Consider increasing recycled content to reduce environmental impact by up to 30%")
	}
	if in.EnergySource != lca.Renewables {
		out = append(out, "Transition to renewable energy sources to significantly reduce CO2 emissions")
	}
	if in.EndOfLife == lca.Landfill {
		out = append(out, "Implement end-of-life recycling to support circular economy principles")
	}
	return append(out,
		"Optimize transport routes and consider rail/ship transport for longer distances",
		"Monitor and report progress on sustainability metrics quarterly",
	)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
