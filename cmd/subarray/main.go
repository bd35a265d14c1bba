package main

import (
	"fmt"
	"os"

	"subarray/internal/config"
	"subarray/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	configPath string

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "subarray",
	Short: "Find maximum-sum and target-sum subarrays",
	Long: `subarray analyzes a sequence of numbers and reports a contiguous range.

Algorithms:
  kadane     contiguous range with the maximum sum
  prefixsum  longest contiguous range summing to --target

Both report the inclusive start and end index and a total. When no range
qualifies the result is (-1, -1, 0).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", configPath, err)
		}
		cfg = loaded

		logger, err = logging.New(cfg.Logging, verbose)
		if err != nil {
			return err
		}
		logger.Debug("config loaded", zap.String("path", configPath), zap.String("algorithm", cfg.Analysis.Algorithm))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// algorithmsCmd lists the registered analyzers
var algorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List available algorithms",
	Args:  cobra.NoArgs,
	RunE:  listAlgorithms,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the YAML config file")

	analyzeCmd.Flags().StringVarP(&algorithmFlag, "algorithm", "a", "", "Algorithm to run (default from config)")
	analyzeCmd.Flags().Float64VarP(&targetFlag, "target", "t", 0, "Target sum for prefixsum (default from config)")
	analyzeCmd.Flags().StringVarP(&outputFlag, "output", "o", outputText, "Output format: text, json, yaml")

	compareCmd.Flags().Float64VarP(&targetFlag, "target", "t", 0, "Target sum for prefixsum (default from config)")

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to list")

	historyCmd.AddCommand(historyShowCmd)

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(batteryCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(algorithmsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
