// internal/evaluate/command.go
package evaluate

import (
	"context"
	"fmt"
	"sort"

	"github.com/fatih/color"

	"github.com/shieldops/shieldeval/internal/appconfig"
	"github.com/shieldops/shieldeval/internal/augment"
	"github.com/shieldops/shieldeval/internal/dataset"
	"github.com/shieldops/shieldeval/internal/langsvc"
	"github.com/shieldops/shieldeval/internal/logging"
	"github.com/shieldops/shieldeval/internal/metrics"
	"github.com/shieldops/shieldeval/internal/report"
	"github.com/shieldops/shieldeval/internal/shield"
	"github.com/shieldops/shieldeval/internal/tui"
	"github.com/shieldops/shieldeval/internal/util"
)

// RunAnalyze is the CLI entry point for the analyze command: load every
// dataset, optionally augment, evaluate against the shield endpoint, print a
// summary, and write the report artifacts.
func RunAnalyze(cfg *appconfig.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	records, err := dataset.LoadDir(cfg.DataDirPath())
	if err != nil {
		return err
	}
	logging.LogEvent("loaded %d records from %s", len(records), cfg.DataDirPath())

	ctx := context.Background()

	if cfg.DetectLanguage || cfg.Translate {
		svc := langsvc.NewHTTPClient(cfg)
		engine := augment.NewEngine(svc, svc)
		records, err = engine.Expand(ctx, records, augment.Options{
			DetectLanguage: cfg.DetectLanguage,
			Translate:      cfg.Translate,
		})
		if err != nil {
			return err
		}
	}

	evaluator := New(shield.New(cfg))
	opts := Options{
		Concurrency: cfg.ConcurrencyLimit(),
		Threshold:   cfg.Threshold,
	}

	var outcome Outcome
	if cfg.NoProgress {
		outcome, err = evaluator.Run(ctx, records, opts)
	} else {
		err = tui.RunWithProgress(len(records), func(onResult func(completed, total int)) error {
			opts.OnResult = onResult
			var runErr error
			outcome, runErr = evaluator.Run(ctx, records, opts)
			return runErr
		})
	}
	if err != nil {
		return err
	}

	PrintSummary(outcome)
	if cfg.Debug {
		logMisclassified(outcome.Predictions)
	}

	dir, err := report.Save(cfg.ResultsDirPath(), outcome.Predictions, outcome.Global, outcome.PerLanguage)
	if err != nil {
		return err
	}
	logging.LogEvent("reports written to %s", dir)
	return nil
}

// maxMisclassifiedLogged caps the debug dump of wrong predictions.
const maxMisclassifiedLogged = 5

func logMisclassified(predictions []dataset.Prediction) {
	logged := 0
	for _, p := range predictions {
		if p.TrueLabel == p.PredictedLabel {
			continue
		}
		preview := util.TruncateRunes(util.OneLine(p.Text), 80)
		logging.LogEvent("misclassified (%d predicted as %d, score %.3f): %s",
			p.TrueLabel, p.PredictedLabel, p.Score, preview)
		logged++
		if logged >= maxMisclassifiedLogged {
			break
		}
	}
}

// PrintSummary writes the evaluation results table to stdout.
func PrintSummary(outcome Outcome) {
	title := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgCyan)
	value := color.New(color.FgGreen, color.Bold)

	title.Println("\nEvaluation Results")
	printEvaluation(label, value, outcome.Global)

	if len(outcome.PerLanguage) > 1 {
		languages := make([]string, 0, len(outcome.PerLanguage))
		for language := range outcome.PerLanguage {
			languages = append(languages, language)
		}
		sort.Strings(languages)

		for _, language := range languages {
			name := language
			if name == "" {
				name = "(undetected)"
			}
			title.Printf("\nLanguage: %s\n", name)
			printEvaluation(label, value, outcome.PerLanguage[language])
		}
	}
	fmt.Println()
}

func printEvaluation(label, value *color.Color, e metrics.Evaluation) {
	row := func(name, formatted string) {
		label.Printf("  %-20s", name)
		value.Printf("%10s\n", formatted)
	}
	row("Total samples", fmt.Sprintf("%d", e.Total))
	row("Accuracy", fmt.Sprintf("%.4f", e.Accuracy))
	row("Precision", fmt.Sprintf("%.4f", e.Precision))
	row("Recall", fmt.Sprintf("%.4f", e.Recall))
	row("F1 Score", fmt.Sprintf("%.4f", e.F1))
	row("True Positives", fmt.Sprintf("%d", e.TP))
	row("False Positives", fmt.Sprintf("%d", e.FP))
	row("False Negatives", fmt.Sprintf("%d", e.FN))
	row("True Negatives", fmt.Sprintf("%d", e.TN))
}
