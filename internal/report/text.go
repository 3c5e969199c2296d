package report

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/Simplici0/metal-lca/internal/kpi"
)

// WriteText renders r as plain text.
func WriteText(w io.Writer, r Report) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, r.Title)
	fmt.Fprintf(bw, "Generated: %s\n", r.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(bw, "File: %s\n\n", r.Filename)

	fmt.Fprintln(bw, "Executive Summary")
	fmt.Fprintln(bw, r.Summary)
	fmt.Fprintf(bw, "Sustainability Grade: %s\n", r.Grade)
	fmt.Fprintln(bw, r.Scope)

	writeLines(bw, "Key Findings", r.KeyFindings)
	writeLines(bw, "Circularity Metrics", r.Circularity)

	fmt.Fprintln(bw, "\nIndicators")
	for _, c := range r.KPIs {
		fmt.Fprintf(bw, "- %s\n", cardText(c))
	}

	writeLines(bw, "Parameters", r.Parameters)

	fmt.Fprintln(bw, "\nRecommendations")
	for _, rec := range r.Recommendations {
		fmt.Fprintf(bw, "- %s\n", rec)
	}

	return bw.Flush()
}

func writeLines(w io.Writer, heading string, lines []Line) {
	fmt.Fprintf(w, "\n%s\n", heading)
	for _, l := range lines {
		fmt.Fprintf(w, "- %s: %s\n", l.Label, l.Value)
	}
}

func cardText(c kpi.Card) string {
	s := fmt.Sprintf("%s: %.1f %s", c.Title, c.Value, c.Unit)
	if c.Status != kpi.StatusNone {
		s += fmt.Sprintf(" (target %.1f, %s)", c.Benchmark, c.Status)
	}
	return s
}
