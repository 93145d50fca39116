// internal/commands/analyze.go
package shieldeval

import (
	"github.com/spf13/cobra"

	"github.com/shieldops/shieldeval/internal/evaluate"
)

var analyzeThreshold float64

// analyzeCmd evaluates the shield endpoint against every dataset in the data
// directory and writes the report artifacts.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Evaluate the shield endpoint against all datasets in the data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cmd.Flags().Changed("threshold") {
			cfg.Threshold = &analyzeThreshold
		}
		return evaluate.RunAnalyze(cfg)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().Float64Var(&analyzeThreshold, "threshold", 0, "re-label predictions as 1 when score > threshold")
}
