// internal/commands/dataset.go
package shieldeval

import "github.com/spf13/cobra"

// datasetCmd groups dataset-related CLI commands.
var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "Group commands for preparing datasets",
}

func init() {
	rootCmd.AddCommand(datasetCmd)
}
