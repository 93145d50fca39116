// internal/commands/dataset_augment.go
package shieldeval

import (
	"github.com/spf13/cobra"

	"github.com/shieldops/shieldeval/internal/augment"
)

// datasetAugmentCmd runs the augmentation fan-out standalone and writes the
// expanded dataset back to CSV.
var datasetAugmentCmd = &cobra.Command{
	Use:   "augment",
	Short: "Detect languages and fan out translated variants into a new CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		input, _ := cmd.Flags().GetString("input")
		output, _ := cmd.Flags().GetString("output")
		return augment.RunAugment(GetConfig(), input, output)
	},
}

func init() {
	datasetCmd.AddCommand(datasetAugmentCmd)

	datasetAugmentCmd.Flags().StringP("input", "i", "", "input dataset CSV")
	datasetAugmentCmd.Flags().StringP("output", "o", "", "output CSV for the augmented dataset")
	_ = datasetAugmentCmd.MarkFlagRequired("input")
	_ = datasetAugmentCmd.MarkFlagRequired("output")
}
