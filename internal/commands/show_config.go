// internal/commands/show_config.go
package shieldeval

import (
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
)

// showCmd groups inspection commands.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for inspecting the application state",
}

// showConfigCmd dumps the effective configuration with the credential redacted.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := *GetConfig()
		if cfg.APIKey != "" {
			cfg.APIKey = "********"
		}
		_, err := pp.Println(cfg)
		return err
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.AddCommand(showConfigCmd)
}
