// internal/augment/command.go
package augment

import (
	"context"
	"fmt"

	"github.com/shieldops/shieldeval/internal/appconfig"
	"github.com/shieldops/shieldeval/internal/dataset"
	"github.com/shieldops/shieldeval/internal/langsvc"
	"github.com/shieldops/shieldeval/internal/logging"
)

// RunAugment is the CLI entry point for dataset augment: read one dataset
// file, run the fan-out, and write the expanded dataset. Augmenting up front
// lets an expensive translation pass be reused across evaluation runs.
func RunAugment(cfg *appconfig.Config, inputPath, outputPath string) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if !cfg.DetectLanguage && !cfg.Translate {
		return fmt.Errorf("augmentation requires detectLanguage or translate to be enabled")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	records, err := dataset.LoadFile(inputPath)
	if err != nil {
		return err
	}

	svc := langsvc.NewHTTPClient(cfg)
	engine := NewEngine(svc, svc)
	expanded, err := engine.Expand(context.Background(), records, Options{
		DetectLanguage: cfg.DetectLanguage,
		Translate:      cfg.Translate,
	})
	if err != nil {
		return err
	}

	if err := dataset.SaveFile(outputPath, expanded); err != nil {
		return err
	}
	logging.LogEvent("wrote %d augmented records to %s", len(expanded), outputPath)
	return nil
}
