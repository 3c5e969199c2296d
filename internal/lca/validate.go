package lca

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Field names used as ValidationError keys. They match the JSON names of Inputs.
const (
	FieldMetal                = "metal"
	FieldMaterialSource       = "materialSource"
	FieldEnergySource         = "energySource"
	FieldTransportMode        = "transportMode"
	FieldTransportDistance    = "transportDistance"
	FieldEndOfLife            = "endOfLife"
	FieldQuantity             = "quantity"
	FieldCustomEmissionFactor = "customEmissionFactor"
	FieldScenario             = "scenario"
)

const (
	msgQuantity       = "Quantity must be greater than 0"
	msgDistance       = "Distance must be greater than 0"
	msgEmissionFactor = "Emission factor cannot be negative"
)

// ValidationError reports every invalid field of an Inputs/Scenario pair.
type ValidationError struct {
	Fields map[string]string `json:"errors"`
}

func (e *ValidationError) Error() string {
	keys := e.FieldNames()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid lca inputs: " + strings.Join(parts, "; ")
}

// FieldNames returns the invalid field names in sorted order.
func (e *ValidationError) FieldNames() []string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether field was rejected.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}

// Validate checks in and sc and returns a *ValidationError listing all
// violations, or nil when both are usable by Compute.
func Validate(in Inputs, sc Scenario) error {
	fields := make(map[string]string)

	if !in.Metal.Valid() {
		fields[FieldMetal] = unsupported(FieldMetal, string(in.Metal))
	}
	if !in.MaterialSource.Valid() {
		fields[FieldMaterialSource] = unsupported(FieldMaterialSource, string(in.MaterialSource))
	}
	if !in.EnergySource.Valid() {
		fields[FieldEnergySource] = unsupported(FieldEnergySource, string(in.EnergySource))
	}
	if !in.TransportMode.Valid() {
		fields[FieldTransportMode] = unsupported(FieldTransportMode, string(in.TransportMode))
	}
	if !in.EndOfLife.Valid() {
		fields[FieldEndOfLife] = unsupported(FieldEndOfLife, string(in.EndOfLife))
	}
	if !sc.Valid() {
		fields[FieldScenario] = unsupported(FieldScenario, string(sc))
	}

	if !finite(in.Quantity) || in.Quantity <= 0 {
		fields[FieldQuantity] = msgQuantity
	}
	if !finite(in.TransportDistance) || in.TransportDistance <= 0 {
		fields[FieldTransportDistance] = msgDistance
	}
	if f := in.CustomEmissionFactor; f != nil && (!finite(*f) || *f < 0) {
		fields[FieldCustomEmissionFactor] = msgEmissionFactor
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}

func unsupported(field, value string) string {
	return fmt.Sprintf("Unsupported %s %q", field, value)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
