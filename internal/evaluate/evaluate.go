// internal/evaluate/evaluate.go
// Package evaluate dispatches dataset records to the shield classifier under
// bounded concurrency and aggregates the predictions into metrics.
package evaluate

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/shieldops/shieldeval/internal/dataset"
	"github.com/shieldops/shieldeval/internal/metrics"
	"github.com/shieldops/shieldeval/internal/shield"
)

// Classifier is the outbound classification call the evaluator fans out over.
// *shield.Client satisfies it.
type Classifier interface {
	Classify(ctx context.Context, text string) (shield.Verdict, error)
}

// Options tune a single evaluation run.
type Options struct {
	// Concurrency is the maximum number of classification requests in
	// flight at once. Values below 1 are rejected.
	Concurrency int
	// Threshold optionally re-labels every prediction after dispatch:
	// predicted label 1 when score > threshold, else 0.
	Threshold *float64
	// OnResult, when set, is called once per completed classification,
	// from the dispatching goroutines.
	OnResult func(completed, total int)
}

// Outcome bundles a run's ordered predictions with its aggregated metrics.
type Outcome struct {
	Predictions []dataset.Prediction
	Global      metrics.Evaluation
	PerLanguage map[string]metrics.Evaluation
}

// Evaluator runs records through a Classifier.
type Evaluator struct {
	classifier Classifier
}

// New constructs an Evaluator.
func New(classifier Classifier) *Evaluator {
	return &Evaluator{classifier: classifier}
}

// Run classifies every record with at most opts.Concurrency requests in
// flight. The prediction list preserves input order regardless of completion
// order. Any classification failure cancels the remaining dispatches and
// fails the whole run; no partial results are returned.
func (e *Evaluator) Run(ctx context.Context, records []dataset.Record, opts Options) (Outcome, error) {
	if opts.Concurrency < 1 {
		return Outcome{}, fmt.Errorf("concurrency must be at least 1, got %d", opts.Concurrency)
	}

	predictions := make([]dataset.Prediction, len(records))
	var completed atomic.Int64

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(opts.Concurrency)

	for i, record := range records {
		i, record := i, record
		group.Go(func() error {
			verdict, err := e.classifier.Classify(groupCtx, record.Text)
			if err != nil {
				return err
			}
			predictions[i] = dataset.Prediction{
				Text:           record.Text,
				TrueLabel:      record.Label,
				PredictedLabel: verdict.PredictedClass,
				Score:          verdict.Score,
				Language:       record.Language,
			}
			if opts.OnResult != nil {
				opts.OnResult(int(completed.Add(1)), len(records))
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return Outcome{}, err
	}

	if opts.Threshold != nil {
		predictions = Relabel(predictions, *opts.Threshold)
	}

	return Outcome{
		Predictions: predictions,
		Global:      metrics.Compute(predictions),
		PerLanguage: metrics.ComputeByLanguage(predictions),
	}, nil
}

// Relabel derives a new prediction list where each predicted label is 1 when
// the score strictly exceeds threshold, else 0. It does not re-invoke the
// classifier.
func Relabel(predictions []dataset.Prediction, threshold float64) []dataset.Prediction {
	relabeled := make([]dataset.Prediction, len(predictions))
	for i, p := range predictions {
		label := 0
		if p.Score > threshold {
			label = 1
		}
		relabeled[i] = p.WithPredictedLabel(label)
	}
	return relabeled
}
