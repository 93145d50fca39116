// internal/report/report.go
// Package report persists evaluation output: per-record predictions CSV,
// rounded metrics JSON, and a confusion-matrix HTML page.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shieldops/shieldeval/internal/dataset"
	"github.com/shieldops/shieldeval/internal/metrics"
	"github.com/shieldops/shieldeval/internal/util"
)

const (
	predictionsFile     = "predictions.csv"
	metricsFile         = "metrics.json"
	confusionMatrixFile = "confusion_matrix.html"
)

// Save writes all report artifacts into dir and returns the directory path.
func Save(dir string, predictions []dataset.Prediction, global metrics.Evaluation, perLanguage map[string]metrics.Evaluation) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating results directory: %w", err)
	}
	if err := SavePredictions(filepath.Join(dir, predictionsFile), predictions); err != nil {
		return "", err
	}
	if err := SaveMetrics(filepath.Join(dir, metricsFile), global, perLanguage); err != nil {
		return "", err
	}
	if err := SaveConfusionMatrix(filepath.Join(dir, confusionMatrixFile), global); err != nil {
		return "", err
	}
	return dir, nil
}

// SavePredictions writes one CSV row per prediction.
func SavePredictions(path string, predictions []dataset.Prediction) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating %q: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"text", "true_label", "predicted_label", "score", "language"}); err != nil {
		return fmt.Errorf("error writing predictions header: %w", err)
	}
	for _, p := range predictions {
		row := []string{
			p.Text,
			strconv.Itoa(p.TrueLabel),
			strconv.Itoa(p.PredictedLabel),
			strconv.FormatFloat(p.Score, 'f', -1, 64),
			p.Language,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("error writing predictions row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("error flushing %q: %w", path, err)
	}
	return nil
}

// LoadPredictions reads a predictions CSV previously written by
// SavePredictions, so reports can be rebuilt without re-running evaluation.
func LoadPredictions(path string) ([]dataset.Prediction, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %q: %w", path, err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%q is empty", path)
	}

	predictions := make([]dataset.Prediction, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 5 {
			return nil, fmt.Errorf("%q row %d has %d columns, want 5", path, i+2, len(row))
		}
		trueLabel, err := dataset.ParseLabel(row[1])
		if err != nil {
			return nil, fmt.Errorf("%q row %d: %w", path, i+2, err)
		}
		predictedLabel, err := dataset.ParseLabel(row[2])
		if err != nil {
			return nil, fmt.Errorf("%q row %d: %w", path, i+2, err)
		}
		score, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("%q row %d: invalid score %q", path, i+2, row[3])
		}
		predictions = append(predictions, dataset.Prediction{
			Text:           row[0],
			TrueLabel:      trueLabel,
			PredictedLabel: predictedLabel,
			Score:          score,
			Language:       row[4],
		})
	}
	return predictions, nil
}

// metricsDocument is the JSON layout of metrics.json.
type metricsDocument struct {
	Global      metrics.Evaluation            `json:"global"`
	PerLanguage map[string]metrics.Evaluation `json:"per_language"`
}

// SaveMetrics writes global and per-language metrics with ratios rounded to
// four decimal places.
func SaveMetrics(path string, global metrics.Evaluation, perLanguage map[string]metrics.Evaluation) error {
	rounded := metricsDocument{
		Global:      roundEvaluation(global),
		PerLanguage: make(map[string]metrics.Evaluation, len(perLanguage)),
	}
	for language, evaluation := range perLanguage {
		rounded.PerLanguage[language] = roundEvaluation(evaluation)
	}

	data, err := json.MarshalIndent(rounded, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding metrics: %w", err)
	}
	if err := util.WriteFile(path, append(data, '\n')); err != nil {
		return fmt.Errorf("error writing %q: %w", path, err)
	}
	return nil
}

func roundEvaluation(e metrics.Evaluation) metrics.Evaluation {
	e.Accuracy = round4(e.Accuracy)
	e.Precision = round4(e.Precision)
	e.Recall = round4(e.Recall)
	e.F1 = round4(e.F1)
	return e
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
