package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"subarray/internal/battery"
	"subarray/internal/render"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// batteryCmd runs a YAML case suite
var batteryCmd = &cobra.Command{
	Use:   "battery [file]",
	Short: "Run a YAML battery of analysis cases",
	Long: `Loads a battery file and runs every case, printing one row per case.
Exits with an error when any case fails.

Battery format:
  version: 1
  tolerance: 1e-9        # optional
  cases:
    - id: kadane-mixed
      algorithm: kadane
      values: [-2, 3, -1, 4, -5]
      expect: {start: 1, end: 3, total: 6}`,
	Args: cobra.ExactArgs(1),
	RunE: runBattery,
}

func runBattery(cmd *cobra.Command, args []string) error {
	b, err := battery.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load battery: %w", err)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := &battery.Runner{
		Parallelism: cfg.Battery.Parallelism,
		Tolerance:   cfg.Battery.Tolerance,
		Logger:      logger,
	}
	logger.Info("running battery", zap.String("file", args[0]), zap.Int("cases", len(b.Cases)))

	outcomes, err := runner.Run(ctx, b)
	if err != nil {
		return fmt.Errorf("battery interrupted: %w", err)
	}

	styles := render.DefaultStyles()
	columns := append([]render.Column{render.Text("Case"), render.Text("Algorithm")}, render.ResultColumns()...)
	table := render.NewTable(args[0], append(columns, render.Text("Status"))...)
	for _, o := range outcomes {
		status := styles.Success.Render("PASS")
		if !o.Passed {
			status = styles.Error.Render("FAIL: " + o.Err.Error())
		}
		table.AddResult([]string{o.CaseID, o.Algorithm}, o.Result, status)
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, table.View(styles))

	s := battery.Summarize(outcomes)
	fmt.Fprintf(out, "%d passed, %d failed\n", s.Passed, s.Failed)
	if !s.OK() {
		return fmt.Errorf("%d of %d cases failed", s.Failed, len(outcomes))
	}
	return nil
}
