package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"subarray/internal/analysis"
	"subarray/internal/render"
	"subarray/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var historyLimit int

// errHistoryDisabled is returned when no database path is configured.
var errHistoryDisabled = errors.New("history is disabled (set history.database_path or SUBARRAY_HISTORY_DB)")

const timeLayout = "2006-01-02 15:04:05"

// historyCmd lists recorded analyses
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently recorded analyses",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

// historyShowCmd prints one run and replays it
var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show a recorded analysis and re-run it",
	Long: `Prints the stored input and result of a run, then runs the same
algorithm over the stored input again. Fails when the replayed result
differs from the stored one.`,
	Args: cobra.ExactArgs(1),
	RunE: runHistoryShow,
}

// openHistory opens the configured history store.
func openHistory(cmd *cobra.Command) (context.Context, *store.HistoryStore, error) {
	if !cfg.HistoryEnabled() {
		return nil, nil, errHistoryDisabled
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	hs, err := store.NewHistoryStore(cfg.History.DatabasePath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history: %w", err)
	}
	return ctx, hs, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx, hs, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer hs.Close()

	runs, err := hs.Recent(ctx, historyLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no recorded analyses")
		return nil
	}

	columns := []render.Column{
		render.Text("ID"),
		render.Text("When"),
		render.Text("Algorithm"),
		render.Number("Target"),
		render.Text("Input"),
	}
	table := render.NewTable("Recent analyses", append(columns, render.ResultColumns()...)...)
	for _, run := range runs {
		table.AddResult([]string{
			run.ID,
			run.CreatedAt.Format(timeLayout),
			run.Algorithm,
			render.FormatFloat(run.Target),
			formatValues(run.Values, 8),
		}, run.Result)
	}
	fmt.Fprint(out, table.View(render.DefaultStyles()))
	return nil
}

// formatValues prints at most limit values.
func formatValues(values []float64, limit int) string {
	parts := make([]string, 0, min(len(values), limit)+1)
	for i, v := range values {
		if i == limit {
			parts = append(parts, fmt.Sprintf("... +%d", len(values)-limit))
			break
		}
		parts = append(parts, render.FormatFloat(v))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	ctx, hs, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer hs.Close()

	run, err := hs.Get(ctx, args[0])
	if err != nil {
		return err
	}

	a, err := analysis.New(run.Algorithm, run.Target)
	if err != nil {
		return fmt.Errorf("cannot replay run %s: %w", run.ID, err)
	}
	replayed := a.Analyze(run.Values)
	logger.Debug("run replayed", zap.String("id", run.ID), zap.String("algorithm", a.Name()))

	styles := render.DefaultStyles()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run:       %s\n", run.ID)
	fmt.Fprintf(out, "Recorded:  %s\n", run.CreatedAt.Format(timeLayout))
	fmt.Fprintf(out, "Target:    %s\n", render.FormatFloat(run.Target))
	fmt.Fprintf(out, "Input:     %s\n", formatValues(run.Values, len(run.Values)))
	fmt.Fprintf(out, "Stored:    %s\n", render.Result(styles, run.Algorithm, run.Result))
	fmt.Fprintf(out, "Replayed:  %s\n", render.Result(styles, a.Name(), replayed))

	if replayed != run.Result {
		return fmt.Errorf("replay of run %s differs: stored %v, replayed %v", run.ID, run.Result, replayed)
	}
	fmt.Fprintln(out, styles.Success.Render("replay matches"))
	return nil
}
