// Package importer reads assessment inputs in bulk from spreadsheets.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/metal-lca/internal/lca"
)

// Columns is the expected header of an import sheet. customEmissionFactor
// may be left blank.
var Columns = []string{
	lca.FieldMetal,
	lca.FieldMaterialSource,
	lca.FieldEnergySource,
	lca.FieldTransportMode,
	lca.FieldTransportDistance,
	lca.FieldEndOfLife,
	lca.FieldQuantity,
	lca.FieldCustomEmissionFactor,
}

const requiredColumns = 7

// ErrEmptySheet is returned when the workbook has no data rows.
var ErrEmptySheet = errors.New("sheet has no data rows")

// Row is one parsed data row. Line is the 1-based row number in the sheet.
type Row struct {
	Line   int
	Inputs lca.Inputs
	Err    error
}

// ReadInputs parses the first sheet of an XLSX workbook. The header row is
// skipped, blank rows are ignored, and malformed rows are returned with Err set.
func ReadInputs(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}

	var out []Row
	for i := 1; i < len(rows); i++ {
		if blank(rows[i]) {
			continue
		}
		in, err := parseRow(rows[i])
		out = append(out, Row{Line: i + 1, Inputs: in, Err: err})
	}
	if len(out) == 0 {
		return nil, ErrEmptySheet
	}
	return out, nil
}

func parseRow(row []string) (lca.Inputs, error) {
	if len(row) < requiredColumns {
		return lca.Inputs{}, fmt.Errorf("expected at least %d columns, got %d", requiredColumns, len(row))
	}
	cell := func(i int) string { return strings.TrimSpace(row[i]) }

	in := lca.Inputs{
		Metal:          lca.Metal(strings.ToLower(cell(0))),
		MaterialSource: lca.MaterialSource(strings.ToLower(cell(1))),
		EnergySource:   lca.EnergySource(strings.ToLower(cell(2))),
		TransportMode:  lca.TransportMode(strings.ToLower(cell(3))),
		EndOfLife:      lca.EndOfLife(strings.ToLower(cell(5))),
	}

	var err error
	if in.TransportDistance, err = toFloat(cell(4), lca.FieldTransportDistance); err != nil {
		return lca.Inputs{}, err
	}
	if in.Quantity, err = toFloat(cell(6), lca.FieldQuantity); err != nil {
		return lca.Inputs{}, err
	}
	if len(row) > requiredColumns && cell(requiredColumns) != "" {
		factor, err := toFloat(cell(requiredColumns), lca.FieldCustomEmissionFactor)
		if err != nil {
			return lca.Inputs{}, err
		}
		in.CustomEmissionFactor = &factor
	}
	return in, nil
}

func toFloat(raw, field string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be numeric, got %q", field, raw)
	}
	return v, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
