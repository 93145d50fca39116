// internal/metrics/metrics.go
// Package metrics computes confusion-matrix metrics over prediction results.
package metrics

import (
	"github.com/shieldops/shieldeval/internal/dataset"
)

// Evaluation holds the confusion-matrix tallies and the derived ratios for
// one set of predictions. Total always equals TP+FP+FN+TN.
type Evaluation struct {
	Total     int     `json:"total"`
	TP        int     `json:"tp"`
	FP        int     `json:"fp"`
	FN        int     `json:"fn"`
	TN        int     `json:"tn"`
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// Compute derives an Evaluation from a list of predictions. All four ratios
// fall back to 0.0 when their denominator is zero.
func Compute(results []dataset.Prediction) Evaluation {
	var tp, fp, fn, tn int
	for _, r := range results {
		switch {
		case r.TrueLabel == 1 && r.PredictedLabel == 1:
			tp++
		case r.TrueLabel == 0 && r.PredictedLabel == 1:
			fp++
		case r.TrueLabel == 1 && r.PredictedLabel == 0:
			fn++
		default:
			tn++
		}
	}

	total := len(results)
	accuracy := ratio(float64(tp+tn), float64(total))
	precision := ratio(float64(tp), float64(tp+fp))
	recall := ratio(float64(tp), float64(tp+fn))
	f1 := ratio(2*precision*recall, precision+recall)

	return Evaluation{
		Total:     total,
		TP:        tp,
		FP:        fp,
		FN:        fn,
		TN:        tn,
		Accuracy:  accuracy,
		Precision: precision,
		Recall:    recall,
		F1:        f1,
	}
}

// ComputeByLanguage partitions results by exact language string and computes
// an Evaluation per partition. Records with an empty language form their own
// group under the "" key.
func ComputeByLanguage(results []dataset.Prediction) map[string]Evaluation {
	groups := make(map[string][]dataset.Prediction)
	for _, r := range results {
		groups[r.Language] = append(groups[r.Language], r)
	}

	perLanguage := make(map[string]Evaluation, len(groups))
	for language, group := range groups {
		perLanguage[language] = Compute(group)
	}
	return perLanguage
}

func ratio(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0.0
	}
	return numerator / denominator
}
