// internal/commands/report.go
package shieldeval

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shieldops/shieldeval/internal/evaluate"
	"github.com/shieldops/shieldeval/internal/logging"
	"github.com/shieldops/shieldeval/internal/metrics"
	"github.com/shieldops/shieldeval/internal/report"
)

var reportThreshold float64

// reportCmd rebuilds metrics and report artifacts from a previously written
// predictions CSV, without re-hitting the shield endpoint. A threshold can be
// applied here to re-label already-fetched scores.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Rebuild reports from a saved predictions CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		input, _ := cmd.Flags().GetString("input")
		if input == "" {
			input = filepath.Join(cfg.ResultsDirPath(), "predictions.csv")
		}

		predictions, err := report.LoadPredictions(input)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("threshold") {
			predictions = evaluate.Relabel(predictions, reportThreshold)
		} else if cfg.Threshold != nil {
			predictions = evaluate.Relabel(predictions, *cfg.Threshold)
		}

		outcome := evaluate.Outcome{
			Predictions: predictions,
			Global:      metrics.Compute(predictions),
			PerLanguage: metrics.ComputeByLanguage(predictions),
		}
		evaluate.PrintSummary(outcome)

		dir, err := report.Save(cfg.ResultsDirPath(), outcome.Predictions, outcome.Global, outcome.PerLanguage)
		if err != nil {
			return err
		}
		logging.LogEvent("reports written to %s", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringP("input", "i", "", "predictions CSV to rebuild from (defaults to resultsDir/predictions.csv)")
	reportCmd.Flags().Float64Var(&reportThreshold, "threshold", 0, "re-label predictions as 1 when score > threshold")
}
