package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	kpiSheet     = "Indicators"
)

// WriteXLSX renders r as a workbook with a summary sheet and an indicator sheet.
func WriteXLSX(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(kpiSheet); err != nil {
		return fmt.Errorf("create indicator sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	rows := [][]any{
		{r.Title},
		{"Generated", r.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Summary", r.Summary},
		{"Sustainability Grade", string(r.Grade)},
		{},
	}
	var headers []int
	appendSection := func(name string, lines []Line) {
		headers = append(headers, len(rows)+1)
		rows = append(rows, []any{name})
		for _, l := range lines {
			rows = append(rows, []any{l.Label, l.Value})
		}
		rows = append(rows, []any{})
	}
	appendSection("Key Findings", r.KeyFindings)
	appendSection("Circularity Metrics", r.Circularity)
	appendSection("Parameters", r.Parameters)

	headers = append(headers, len(rows)+1)
	rows = append(rows, []any{"Recommendations"})
	for _, rec := range r.Recommendations {
		rows = append(rows, []any{rec})
	}

	if err := writeRows(f, summarySheet, rows); err != nil {
		return err
	}
	for _, row := range append([]int{1}, headers...) {
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetCellStyle(summarySheet, cell, cell, bold); err != nil {
			return fmt.Errorf("style %s: %w", cell, err)
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 28); err != nil {
		return fmt.Errorf("set summary width: %w", err)
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 60); err != nil {
		return fmt.Errorf("set summary width: %w", err)
	}

	kpiRows := [][]any{{"Metric", "Value", "Unit", "Benchmark", "Status"}}
	for _, c := range r.KPIs {
		var benchmark any
		if c.Benchmark > 0 {
			benchmark = c.Benchmark
		}
		kpiRows = append(kpiRows, []any{c.Title, c.Value, c.Unit, benchmark, string(c.Status)})
	}
	if err := writeRows(f, kpiSheet, kpiRows); err != nil {
		return err
	}
	if err := f.SetCellStyle(kpiSheet, "A1", "E1", bold); err != nil {
		return fmt.Errorf("style indicator header: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx report: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
