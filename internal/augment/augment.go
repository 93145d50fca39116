// internal/augment/augment.go
// Package augment expands datasets with detected languages and translated
// record variants.
package augment

import (
	"context"
	"fmt"

	"github.com/shieldops/shieldeval/internal/dataset"
	"github.com/shieldops/shieldeval/internal/langsvc"
	"github.com/shieldops/shieldeval/internal/logging"
)

// SupportedLanguages is the fixed set of languages translation fans out
// across, in canonical order.
var SupportedLanguages = []string{"en", "fr", "de"}

// Options selects which augmentation steps run.
type Options struct {
	DetectLanguage bool
	Translate      bool
}

// AugmentationError reports a detection or translation failure. Any failure
// aborts the whole augmentation call; there is no partial-success mode.
type AugmentationError struct {
	Index int
	Err   error
}

func (e *AugmentationError) Error() string {
	return fmt.Sprintf("augmentation failed at record %d: %v", e.Index, e.Err)
}

func (e *AugmentationError) Unwrap() error { return e.Err }

// Engine expands records using the configured language services.
type Engine struct {
	detector   langsvc.Detector
	translator langsvc.Translator
}

// NewEngine constructs an Engine. The detector is required only when
// detection may run; the translator only when translation may run.
func NewEngine(detector langsvc.Detector, translator langsvc.Translator) *Engine {
	return &Engine{detector: detector, translator: translator}
}

// Expand processes records in input order. Each output record carries the
// detected or pre-set language; when translation is enabled and the language
// is in SupportedLanguages, translated variants for the other supported
// languages follow the original immediately, in canonical order.
func (e *Engine) Expand(ctx context.Context, records []dataset.Record, opts Options) ([]dataset.Record, error) {
	if !opts.DetectLanguage && !opts.Translate {
		out := make([]dataset.Record, len(records))
		copy(out, records)
		return out, nil
	}

	out := make([]dataset.Record, 0, len(records))
	for i, record := range records {
		language := record.Language
		if language == "" {
			detected, err := e.detector.DetectLanguage(ctx, record.Text)
			if err != nil {
				return nil, &AugmentationError{Index: i, Err: err}
			}
			language = detected
		}

		original := record
		original.Language = language
		out = append(out, original)

		if !opts.Translate || !isSupported(language) {
			continue
		}

		for _, target := range SupportedLanguages {
			if target == language {
				continue
			}
			translated, err := e.translator.Translate(ctx, record.Text, language, target)
			if err != nil {
				return nil, &AugmentationError{Index: i, Err: err}
			}
			out = append(out, dataset.Record{
				Text:     translated,
				Label:    record.Label,
				Language: target,
			})
		}
	}

	logging.LogEvent("augmented %d records into %d", len(records), len(out))
	return out, nil
}

func isSupported(language string) bool {
	for _, supported := range SupportedLanguages {
		if language == supported {
			return true
		}
	}
	return false
}
