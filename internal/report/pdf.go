package report

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"

	"github.com/Simplici0/metal-lca/internal/kpi"
)

// WritePDF renders r as an A4 PDF document.
func WritePDF(w io.Writer, r Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.Title, false)
	pdf.SetCreator("metal-lca", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, r.Title)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, fmt.Sprintf("Generated: %s", r.GeneratedAt.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	heading(pdf, "Executive Summary")
	pdf.MultiCell(0, 6, r.Summary, "", "L", false)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Sustainability Grade: %s", r.Grade))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 5, r.Scope, "", "L", false)
	pdf.Ln(4)

	table(pdf, "Key Findings", r.KeyFindings)
	table(pdf, "Circularity Metrics", r.Circularity)

	heading(pdf, "Indicators")
	for _, c := range r.KPIs {
		status := "-"
		if c.Status != kpi.StatusNone {
			status = fmt.Sprintf("%s (target %.1f)", c.Status, c.Benchmark)
		}
		pdf.CellFormat(60, 6, c.Title, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 6, fmt.Sprintf("%.1f %s", c.Value, c.Unit), "1", 0, "R", false, 0, "")
		pdf.CellFormat(0, 6, status, "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	table(pdf, "Parameters", r.Parameters)

	heading(pdf, "Recommendations")
	for _, rec := range r.Recommendations {
		pdf.MultiCell(0, 6, "- "+rec, "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf report: %w", err)
	}
	return nil
}

func heading(pdf *gofpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(46, 125, 50)
	pdf.Cell(0, 8, text)
	pdf.Ln(9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 11)
}

func table(pdf *gofpdf.Fpdf, title string, lines []Line) {
	heading(pdf, title)
	for _, l := range lines {
		pdf.CellFormat(60, 6, l.Label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, l.Value, "1", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}
