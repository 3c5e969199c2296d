package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Simplici0/metal-lca/internal/flow"
	"github.com/Simplici0/metal-lca/internal/kpi"
	"github.com/Simplici0/metal-lca/internal/lca"
	"github.com/Simplici0/metal-lca/internal/report"
)

const labelWidth = 22

// styles are bound to the output writer, so colors are dropped when it is not
// a terminal.
type styles struct {
	heading lipgloss.Style
	label   lipgloss.Style
	subtle  lipgloss.Style
	bad     lipgloss.Style
	status  map[kpi.Status]lipgloss.Style
	grade   map[lca.Grade]lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	green := r.NewStyle().Foreground(lipgloss.Color("10"))
	cyan := r.NewStyle().Foreground(lipgloss.Color("14"))
	yellow := r.NewStyle().Foreground(lipgloss.Color("11"))
	red := r.NewStyle().Foreground(lipgloss.Color("9"))

	return styles{
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label:   r.NewStyle().Width(labelWidth),
		subtle:  r.NewStyle().Faint(true),
		bad:     red,
		status: map[kpi.Status]lipgloss.Style{
			kpi.StatusExcellent: green,
			kpi.StatusGood:      cyan,
			kpi.StatusFair:      yellow,
			kpi.StatusPoor:      red,
		},
		grade: map[lca.Grade]lipgloss.Style{
			lca.GradeA: green.Bold(true),
			lca.GradeB: cyan.Bold(true),
			lca.GradeC: yellow.Bold(true),
			lca.GradeD: red.Bold(true),
		},
	}
}

func renderAssessment(w io.Writer, a report.Assessment) {
	st := newStyles(w)
	in, res := a.Inputs, a.Results
	grade := lca.GradeFor(res.CircularityScore)

	fmt.Fprintln(w, st.heading.Render(fmt.Sprintf("%s economy, %s kg %s", title(string(a.Scenario)), trim(in.Quantity), in.Metal)))
	fmt.Fprintf(w, "%s%s\n", st.label.Render("Sustainability grade"), st.grade[grade].Render(string(grade)))

	source := "table"
	if a.CustomFactor {
		source = "custom"
	}
	fmt.Fprintf(w, "%s%s kg CO2/kg %s\n\n", st.label.Render("Emission factor"), trim(a.EmissionFactor), st.subtle.Render("("+source+")"))

	for _, c := range kpi.Board(res, a.Benchmarks) {
		line := st.label.Render(c.Title) + fmt.Sprintf("%s %s", trim(c.Value), c.Unit)
		if c.Status != kpi.StatusNone {
			line += "  " + st.status[c.Status].Render(string(c.Status)) +
				" " + st.subtle.Render(fmt.Sprintf("(benchmark %s)", trim(c.Benchmark)))
		}
		fmt.Fprintln(w, line)
	}
}

func renderValidation(w io.Writer, verr *lca.ValidationError) {
	st := newStyles(w)
	fmt.Fprintln(w, st.heading.Render("Invalid inputs"))
	for _, field := range verr.FieldNames() {
		fmt.Fprintf(w, "%s%s\n", st.label.Render(field), st.bad.Render(verr.Fields[field]))
	}
}

func renderFlow(w io.Writer, p flow.Profile, d flow.Diagram) {
	st := newStyles(w)
	fmt.Fprintln(w, st.heading.Render(p.Title))
	fmt.Fprintln(w, p.Description)
	fmt.Fprintln(w, st.subtle.Render(strings.Join(p.Tags, " · ")))
	fmt.Fprintln(w)

	labels := make(map[string]string, len(d.Nodes))
	for _, n := range d.Nodes {
		labels[n.ID] = n.Label
	}
	fmt.Fprintln(w, st.heading.Render(d.Title))
	for _, l := range d.Links {
		fmt.Fprintf(w, "%s -> %s%s\n", st.label.Render(labels[l.Source]), st.label.Render(labels[l.Target]), trim(l.Value))
	}
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// trim formats v without trailing zeros.
func trim(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
