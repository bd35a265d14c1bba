package main

import (
	"context"
	"encoding/json"
	"fmt"

	"subarray/internal/analysis"
	"subarray/internal/render"
	"subarray/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

var (
	algorithmFlag string
	targetFlag    float64
	outputFlag    string
)

// analyzeCmd runs one algorithm over the given values
var analyzeCmd = &cobra.Command{
	Use:   "analyze [values...]",
	Short: "Run one algorithm over a sequence",
	Long: `Runs a single analyzer over the values given as arguments.

Examples:
  subarray analyze -- -2 3 -1 4 -5
  subarray analyze -a prefixsum -t 5 1,2,2,3`,
	RunE: runAnalyze,
}

// compareCmd runs every algorithm over the same values
var compareCmd = &cobra.Command{
	Use:   "compare [values...]",
	Short: "Run every algorithm over a sequence and compare the results",
	RunE:  runCompare,
}

// resultDoc is the json/yaml shape of an analysis.
type resultDoc struct {
	Algorithm  string  `json:"algorithm" yaml:"algorithm"`
	StartIndex int     `json:"start_index" yaml:"start_index"`
	EndIndex   int     `json:"end_index" yaml:"end_index"`
	Total      float64 `json:"total" yaml:"total"`
	Found      bool    `json:"found" yaml:"found"`
	RunID      string  `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

// resolveTarget prefers an explicit --target over the configured one.
func resolveTarget(cmd *cobra.Command) float64 {
	if f := cmd.Flags().Lookup("target"); f != nil && f.Changed {
		return targetFlag
	}
	return cfg.Analysis.Target
}

// validateOutput rejects unknown --output values before any work is done.
func validateOutput(format string) error {
	switch format {
	case "", outputText, outputJSON, outputYAML:
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (valid: %s, %s, %s)", format, outputText, outputJSON, outputYAML)
	}
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := validateOutput(outputFlag); err != nil {
		return err
	}
	values, err := parseValues(args)
	if err != nil {
		return err
	}

	name := algorithmFlag
	if name == "" {
		name = cfg.Analysis.Algorithm
	}
	target := resolveTarget(cmd)

	a, err := analysis.New(name, target)
	if err != nil {
		return err
	}

	r := a.Analyze(values)
	logger.Debug("analysis complete",
		zap.String("algorithm", a.Name()),
		zap.Int("values", len(values)),
		zap.Int("start", r.StartIndex()),
		zap.Int("end", r.EndIndex()),
		zap.Float64("total", r.Total()),
	)

	runID, err := recordRun(cmd.Context(), a.Name(), target, values, r)
	if err != nil {
		return err
	}

	doc := resultDoc{
		Algorithm:  a.Name(),
		StartIndex: r.StartIndex(),
		EndIndex:   r.EndIndex(),
		Total:      r.Total(),
		Found:      r.Found(),
		RunID:      runID,
	}
	return writeResult(cmd, doc, r)
}

func writeResult(cmd *cobra.Command, doc resultDoc, r analysis.Result) error {
	out := cmd.OutOrStdout()
	switch outputFlag {
	case outputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case outputYAML:
		enc := yaml.NewEncoder(out)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	default:
		fmt.Fprintln(out, render.Result(render.DefaultStyles(), doc.Algorithm, r))
		return nil
	}
}

// recordRun stores the analysis when history is configured and returns its ID.
func recordRun(ctx context.Context, algorithm string, target float64, values []float64, r analysis.Result) (string, error) {
	if !cfg.HistoryEnabled() {
		return "", nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	hs, err := store.NewHistoryStore(cfg.History.DatabasePath, logger)
	if err != nil {
		return "", fmt.Errorf("failed to open history: %w", err)
	}
	defer hs.Close()

	return hs.Record(ctx, algorithm, target, values, r)
}

func runCompare(cmd *cobra.Command, args []string) error {
	values, err := parseValues(args)
	if err != nil {
		return err
	}
	target := resolveTarget(cmd)

	table := render.NewTable(fmt.Sprintf("%d values, target %s", len(values), render.FormatFloat(target)),
		append([]render.Column{render.Text("Algorithm")}, render.ResultColumns()...)...)

	for _, name := range analysis.Algorithms() {
		a, err := analysis.New(name, target)
		if err != nil {
			return err
		}
		r := a.Analyze(values)
		logger.Debug("analysis complete", zap.String("algorithm", a.Name()), zap.Bool("found", r.Found()))
		table.AddResult([]string{a.Name()}, r)
	}

	fmt.Fprint(cmd.OutOrStdout(), table.View(render.DefaultStyles()))
	return nil
}

func listAlgorithms(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for _, name := range analysis.Algorithms() {
		a, err := analysis.New(name, 0)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%-10s %s\n", name, a.Name())
	}
	return nil
}
