// Package flow describes the material and energy flows drawn for each
// economy scenario.
package flow

import "github.com/Simplici0/metal-lca/internal/lca"

// Node is a stage of the life cycle.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Link is a flow between two nodes. Value is relative, 100 = raw material in.
type Link struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
	Color  string  `json:"color"`
}

// Diagram is a Sankey-style flow graph.
type Diagram struct {
	Title string `json:"title"`
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

var linearDiagram = Diagram{
	Title: "Linear Economy Flow",
	Nodes: []Node{
		{ID: "raw-materials", Label: "Raw Materials", Color: "#8B4513"},
		{ID: "extraction", Label: "Mining/Extraction", Color: "#CD853F"},
		{ID: "production", Label: "Metal Production", Color: "#4A90E2"},
		{ID: "transport", Label: "Transportation", Color: "#F39C12"},
		{ID: "use-phase", Label: "Use Phase", Color: "#2ECC71"},
		{ID: "landfill", Label: "Landfill", Color: "#95A5A6"},
		{ID: "emissions", Label: "CO2 Emissions", Color: "#E74C3C"},
	},
	Links: []Link{
		{Source: "raw-materials", Target: "extraction", Value: 100, Color: "#CD853F"},
		{Source: "extraction", Target: "production", Value: 85, Color: "#4A90E2"},
		{Source: "production", Target: "transport", Value: 80, Color: "#F39C12"},
		{Source: "transport", Target: "use-phase", Value: 75, Color: "#2ECC71"},
		{Source: "use-phase", Target: "landfill", Value: 70, Color: "#95A5A6"},
		{Source: "extraction", Target: "emissions", Value: 35, Color: "#E74C3C"},
		{Source: "production", Target: "emissions", Value: 45, Color: "#E74C3C"},
		{Source: "transport", Target: "emissions", Value: 15, Color: "#E74C3C"},
	},
}

var circularDiagram = Diagram{
	Title: "Circular Economy Flow",
	Nodes: []Node{
		{ID: "raw-materials", Label: "Raw Materials", Color: "#8B4513"},
		{ID: "recycled-input", Label: "Recycled Input", Color: "#2ECC71"},
		{ID: "production", Label: "Metal Production", Color: "#4A90E2"},
		{ID: "transport", Label: "Transportation", Color: "#F39C12"},
		{ID: "use-phase", Label: "Use Phase", Color: "#2ECC71"},
		{ID: "recycling", Label: "Recycling", Color: "#27AE60"},
		{ID: "landfill", Label: "Landfill", Color: "#95A5A6"},
		{ID: "emissions", Label: "CO2 Emissions", Color: "#E74C3C"},
	},
	Links: []Link{
		{Source: "raw-materials", Target: "production", Value: 40, Color: "#CD853F"},
		{Source: "recycled-input", Target: "production", Value: 60, Color: "#2ECC71"},
		{Source: "production", Target: "transport", Value: 95, Color: "#F39C12"},
		{Source: "transport", Target: "use-phase", Value: 90, Color: "#2ECC71"},
		{Source: "use-phase", Target: "recycling", Value: 75, Color: "#27AE60"},
		{Source: "recycling", Target: "recycled-input", Value: 65, Color: "#2ECC71"},
		{Source: "use-phase", Target: "landfill", Value: 15, Color: "#95A5A6"},
		{Source: "production", Target: "emissions", Value: 25, Color: "#E74C3C"},
		{Source: "transport", Target: "emissions", Value: 8, Color: "#E74C3C"},
		{Source: "recycling", Target: "emissions", Value: 5, Color: "#E74C3C"},
	},
}

// ForScenario returns a copy of the diagram for sc. Anything other than
// lca.Circular gets the linear diagram.
func ForScenario(sc lca.Scenario) Diagram {
	src := linearDiagram
	if sc == lca.Circular {
		src = circularDiagram
	}
	return Diagram{
		Title: src.Title,
		Nodes: append([]Node(nil), src.Nodes...),
		Links: append([]Link(nil), src.Links...),
	}
}

// Profile is the short explanation shown next to the scenario toggle.
type Profile struct {
	Scenario    lca.Scenario `json:"scenario"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Tags        []string     `json:"tags"`
}

// Describe returns the profile of sc.
func Describe(sc lca.Scenario) Profile {
	if sc == lca.Circular {
		return Profile{
			Scenario:    lca.Circular,
			Title:       "Circular Economy Model",
			Description: "Sustainable approach maximizing recycling, reuse, and resource efficiency.",
			Tags:        []string{"Low CO2", "Resource Efficient", "Minimal Waste"},
		}
	}
	return Profile{
		Scenario:    lca.Linear,
		Title:       "Linear Economy Model",
		Description: "Traditional approach with minimal recycling and high resource consumption.",
		Tags:        []string{"High CO2", "Resource Intensive", "More Waste"},
	}
}
