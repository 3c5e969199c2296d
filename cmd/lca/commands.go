package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Simplici0/metal-lca/internal/flow"
	"github.com/Simplici0/metal-lca/internal/kpi"
	"github.com/Simplici0/metal-lca/internal/lca"
	"github.com/Simplici0/metal-lca/internal/report"
)

const (
	outputText = "text"
	outputJSON = "json"
)

type computeOutput struct {
	Scenario       lca.Scenario `json:"scenario"`
	Inputs         lca.Inputs   `json:"inputs"`
	Results        lca.Results  `json:"results"`
	Grade          lca.Grade    `json:"grade"`
	EmissionFactor float64      `json:"emissionFactor"`
	CustomFactor   bool         `json:"customFactor"`
	KPIs           []kpi.Card   `json:"kpis"`
}

func newValidateCmd() *cobra.Command {
	var in *inputFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check inputs without computing an assessment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inputs, sc, err := in.resolve(cmd)
			if err != nil {
				return err
			}
			if err := lca.Validate(inputs, sc); err != nil {
				return reportInvalid(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "inputs are valid")
			return nil
		},
	}
	in = addInputFlags(cmd)
	return cmd
}

func newComputeCmd(a *app) *cobra.Command {
	var in *inputFlags
	var output string
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute environmental indicators for a metal and scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output != outputText && output != outputJSON {
				return fmt.Errorf("invalid --output %q (expected text|json)", output)
			}
			inputs, sc, err := in.resolve(cmd)
			if err != nil {
				return err
			}

			assessment, err := a.assess(cmd.Context(), inputs, sc)
			if err != nil {
				return reportInvalid(cmd, err)
			}

			if output == outputJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(computeOutput{
					Scenario:       assessment.Scenario,
					Inputs:         assessment.Inputs,
					Results:        assessment.Results,
					Grade:          lca.GradeFor(assessment.Results.CircularityScore),
					EmissionFactor: assessment.EmissionFactor,
					CustomFactor:   assessment.CustomFactor,
					KPIs:           kpi.Board(assessment.Results, assessment.Benchmarks),
				})
			}
			renderAssessment(cmd.OutOrStdout(), assessment)
			return nil
		},
	}
	in = addInputFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text|json")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var in *inputFlags
	var format, outDir string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export the assessment report as PDF, XLSX or text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := report.Format(format)
			if !f.Valid() {
				return fmt.Errorf("invalid --format %q (expected pdf|xlsx|txt)", format)
			}
			inputs, sc, err := in.resolve(cmd)
			if err != nil {
				return err
			}

			assessment, err := a.assess(cmd.Context(), inputs, sc)
			if err != nil {
				return reportInvalid(cmd, err)
			}

			rep := report.Build(assessment, a.now())
			path := filepath.Join(outDir, report.FilenameWithExt(inputs.Metal, sc, rep.GeneratedAt, f))
			if err := writeReport(path, f, rep); err != nil {
				return err
			}

			a.log.Info().Str("path", path).Str("format", format).Msg("report written")
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	in = addInputFlags(cmd)
	cmd.Flags().StringVar(&format, "format", string(report.FormatPDF), "report format: pdf|xlsx|txt")
	cmd.Flags().StringVar(&outDir, "out", ".", "directory to write the report into")
	return cmd
}

func newFlowCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:       "flow [linear|circular]",
		Short:     "Show the material and energy flows of a scenario",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(lca.Linear), string(lca.Circular)},
		RunE: func(cmd *cobra.Command, args []string) error {
			sc := lca.Linear
			if len(args) == 1 {
				sc = lca.Scenario(args[0])
			}
			if !sc.Valid() {
				return fmt.Errorf("unknown scenario %q", sc)
			}

			profile, diagram := flow.Describe(sc), flow.ForScenario(sc)
			a.log.Debug().Str("scenario", string(sc)).Int("links", len(diagram.Links)).Msg("flow rendered")

			switch output {
			case outputJSON:
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Profile flow.Profile `json:"profile"`
					Diagram flow.Diagram `json:"diagram"`
				}{profile, diagram})
			case outputText:
				renderFlow(cmd.OutOrStdout(), profile, diagram)
				return nil
			default:
				return fmt.Errorf("invalid --output %q (expected text|json)", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text|json")
	return cmd
}

// reportInvalid prints field errors before handing err back to cobra.
func reportInvalid(cmd *cobra.Command, err error) error {
	var verr *lca.ValidationError
	if errors.As(err, &verr) {
		renderValidation(cmd.OutOrStdout(), verr)
	}
	return err
}

func writeReport(path string, f report.Format, rep report.Report) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close report file: %w", cerr)
		}
	}()

	switch f {
	case report.FormatPDF:
		return report.WritePDF(file, rep)
	case report.FormatXLSX:
		return report.WriteXLSX(file, rep)
	default:
		return report.WriteText(file, rep)
	}
}
