package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Simplici0/metal-lca/internal/lca"
)

func TestForScenario_LinksReferenceKnownNodes(t *testing.T) {
	for _, sc := range []lca.Scenario{lca.Linear, lca.Circular} {
		d := ForScenario(sc)
		ids := make(map[string]bool, len(d.Nodes))
		for _, n := range d.Nodes {
			ids[n.ID] = true
		}
		for _, l := range d.Links {
			assert.True(t, ids[l.Source], "%s: unknown source %q", sc, l.Source)
			assert.True(t, ids[l.Target], "%s: unknown target %q", sc, l.Target)
			assert.Positive(t, l.Value)
		}
	}
}

func TestForScenario_CircularHasRecyclingLoop(t *testing.T) {
	d := ForScenario(lca.Circular)
	assert.Equal(t, "Circular Economy Flow", d.Title)
	assert.Contains(t, d.Links, Link{Source: "recycling", Target: "recycled-input", Value: 65, Color: "#2ECC71"})

	linear := ForScenario(lca.Linear)
	assert.Equal(t, "Linear Economy Flow", linear.Title)
	for _, n := range linear.Nodes {
		assert.NotEqual(t, "recycling", n.ID)
	}
}

func TestForScenario_ReturnsCopies(t *testing.T) {
	d := ForScenario(lca.Linear)
	d.Nodes[0].Label = "mutated"
	d.Links[0].Value = -1

	fresh := ForScenario(lca.Linear)
	assert.Equal(t, "Raw Materials", fresh.Nodes[0].Label)
	assert.Equal(t, 100.0, fresh.Links[0].Value)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Circular Economy Model", Describe(lca.Circular).Title)
	assert.Equal(t, "Linear Economy Model", Describe(lca.Linear).Title)
	assert.Len(t, Describe(lca.Linear).Tags, 3)
}
