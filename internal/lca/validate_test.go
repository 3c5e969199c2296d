package lca

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_AcceptsDefaults(t *testing.T) {
	assert.NoError(t, Validate(DefaultInputs(), Linear))
	assert.NoError(t, Validate(DefaultInputs(), Circular))
}

func TestValidate_NegativeEmissionFactorOnly(t *testing.T) {
	in := DefaultInputs()
	factor := -1.0
	in.CustomEmissionFactor = &factor

	err := Validate(in, Linear)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	assert.Equal(t, []string{FieldCustomEmissionFactor}, verr.FieldNames())
	assert.Equal(t, "Emission factor cannot be negative", verr.Fields[FieldCustomEmissionFactor])
	assert.False(t, verr.Has(FieldTransportDistance))
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	factor := -0.1
	in := Inputs{
		Metal:                "iron",
		MaterialSource:       Primary,
		EnergySource:         "nuclear",
		TransportMode:        Rail,
		TransportDistance:    0,
		EndOfLife:            Landfill,
		Quantity:             math.NaN(),
		CustomEmissionFactor: &factor,
	}

	err := Validate(in, "spiral")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	assert.Equal(t, []string{
		FieldCustomEmissionFactor,
		FieldEnergySource,
		FieldMetal,
		FieldQuantity,
		FieldScenario,
		FieldTransportDistance,
	}, verr.FieldNames())
	assert.Equal(t, `Unsupported metal "iron"`, verr.Fields[FieldMetal])
	assert.Equal(t, "Distance must be greater than 0", verr.Fields[FieldTransportDistance])
	assert.Contains(t, err.Error(), "quantity: Quantity must be greater than 0")
}

func TestValidate_ZeroEmissionFactorAllowed(t *testing.T) {
	in := DefaultInputs()
	zero := 0.0
	in.CustomEmissionFactor = &zero
	assert.NoError(t, Validate(in, Linear))
}

func TestValidate_IsIdempotent(t *testing.T) {
	in := DefaultInputs()
	in.Quantity = 0
	in.TransportDistance = -3

	first := Validate(in, Linear)
	second := Validate(in, Linear)
	assert.Equal(t, first, second)
}
