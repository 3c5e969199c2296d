package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Simplici0/metal-lca/internal/lca"
)

// inputFile is the YAML document accepted by --file. Missing keys keep their
// defaults; unknown keys are rejected.
//
//	scenario: circular
//	inputs:
//	  metal: copper
//	  quantity: 250
type inputFile struct {
	Scenario lca.Scenario `yaml:"scenario"`
	Inputs   lca.Inputs   `yaml:"inputs"`
}

type inputFlags struct {
	file           string
	scenario       string
	metal          string
	materialSource string
	energySource   string
	transportMode  string
	distance       float64
	endOfLife      string
	quantity       float64
	emissionFactor float64
}

func addInputFlags(cmd *cobra.Command) *inputFlags {
	f := &inputFlags{}
	d := lca.DefaultInputs()

	fs := cmd.Flags()
	fs.StringVarP(&f.file, "file", "f", "", "YAML file with scenario and inputs; flags override it")
	fs.StringVarP(&f.scenario, "scenario", "s", string(lca.Linear), "economy scenario: linear|circular")
	fs.StringVar(&f.metal, "metal", string(d.Metal), "metal: aluminum|copper")
	fs.StringVar(&f.materialSource, "material-source", string(d.MaterialSource), "material source: primary|recycled")
	fs.StringVar(&f.energySource, "energy-source", string(d.EnergySource), "energy source: coal|grid-mix|renewables")
	fs.StringVar(&f.transportMode, "transport-mode", string(d.TransportMode), "transport mode: truck|rail|ship")
	fs.Float64Var(&f.distance, "distance", d.TransportDistance, "transport distance in km")
	fs.StringVar(&f.endOfLife, "end-of-life", string(d.EndOfLife), "end of life: landfill|recycling")
	fs.Float64Var(&f.quantity, "quantity", d.Quantity, "quantity in kg")
	fs.Float64Var(&f.emissionFactor, "emission-factor", 0, "custom emission factor in kg CO2/kg")

	return f
}

// resolve merges defaults, the --file document and explicitly set flags, in
// that order.
func (f *inputFlags) resolve(cmd *cobra.Command) (lca.Inputs, lca.Scenario, error) {
	doc := inputFile{Scenario: lca.Linear, Inputs: lca.DefaultInputs()}

	if f.file != "" {
		raw, err := os.ReadFile(f.file)
		if err != nil {
			return lca.Inputs{}, "", fmt.Errorf("read input file: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return lca.Inputs{}, "", fmt.Errorf("parse input file %s: %w", f.file, err)
		}
	}

	changed := cmd.Flags().Changed
	in := &doc.Inputs
	if changed("scenario") {
		doc.Scenario = lca.Scenario(f.scenario)
	}
	if changed("metal") {
		in.Metal = lca.Metal(f.metal)
	}
	if changed("material-source") {
		in.MaterialSource = lca.MaterialSource(f.materialSource)
	}
	if changed("energy-source") {
		in.EnergySource = lca.EnergySource(f.energySource)
	}
	if changed("transport-mode") {
		in.TransportMode = lca.TransportMode(f.transportMode)
	}
	if changed("distance") {
		in.TransportDistance = f.distance
	}
	if changed("end-of-life") {
		in.EndOfLife = lca.EndOfLife(f.endOfLife)
	}
	if changed("quantity") {
		in.Quantity = f.quantity
	}
	if changed("emission-factor") {
		factor := f.emissionFactor
		in.CustomEmissionFactor = &factor
	}

	return doc.Inputs, doc.Scenario, nil
}
