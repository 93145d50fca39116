// internal/commands/root.go
package shieldeval

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shieldops/shieldeval/internal/appconfig"
	"github.com/shieldops/shieldeval/internal/logging"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shieldeval",
	Short: "shieldeval — evaluate a jailbreak/XPIA detection endpoint against labeled datasets",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		for _, name := range []string{"debug", "detectLanguage", "translate", "noProgress"} {
			if !cmd.Flags().Changed(name) {
				val := viper.GetBool(name)
				_ = cmd.Flags().Set(name, strconv.FormatBool(val))
			}
		}
		for _, name := range []string{"baseURL", "apiKey", "endpointPath", "model", "detectURL", "translateURL", "dataDir", "resultsDir", "logFile"} {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}
		for _, name := range []string{"concurrency", "timeout"} {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, strconv.Itoa(viper.GetInt(name)))
			}
		}

		var cfg appconfig.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			return fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.ConfigPath = cfgFile
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", appconfig.DefaultConfigPath, "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "log request and response payloads")
	rootCmd.PersistentFlags().String("baseURL", "", "shield endpoint base URL")
	rootCmd.PersistentFlags().String("apiKey", "", "bearer credential for the shield endpoint")
	rootCmd.PersistentFlags().String("endpointPath", "", "sub-path appended to the base URL")
	rootCmd.PersistentFlags().String("model", "", "model identifier sent with each request")
	rootCmd.PersistentFlags().Int("concurrency", 0, "maximum classification requests in flight (0 = default)")
	rootCmd.PersistentFlags().Int("timeout", 0, "per-request timeout in seconds (0 = default)")
	rootCmd.PersistentFlags().Bool("detectLanguage", false, "detect each record's language before evaluation")
	rootCmd.PersistentFlags().Bool("translate", false, "fan records out into translated variants")
	rootCmd.PersistentFlags().String("detectURL", "", "language detection service URL")
	rootCmd.PersistentFlags().String("translateURL", "", "translation service URL")
	rootCmd.PersistentFlags().String("dataDir", "", "directory of CSV datasets")
	rootCmd.PersistentFlags().String("resultsDir", "", "directory for report artifacts")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")
	rootCmd.PersistentFlags().Bool("noProgress", false, "disable the progress display")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("baseURL", rootCmd.PersistentFlags().Lookup("baseURL"))
	_ = viper.BindPFlag("apiKey", rootCmd.PersistentFlags().Lookup("apiKey"))
	_ = viper.BindPFlag("endpointPath", rootCmd.PersistentFlags().Lookup("endpointPath"))
	_ = viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("concurrency", rootCmd.PersistentFlags().Lookup("concurrency"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("detectLanguage", rootCmd.PersistentFlags().Lookup("detectLanguage"))
	_ = viper.BindPFlag("translate", rootCmd.PersistentFlags().Lookup("translate"))
	_ = viper.BindPFlag("detectURL", rootCmd.PersistentFlags().Lookup("detectURL"))
	_ = viper.BindPFlag("translateURL", rootCmd.PersistentFlags().Lookup("translateURL"))
	_ = viper.BindPFlag("dataDir", rootCmd.PersistentFlags().Lookup("dataDir"))
	_ = viper.BindPFlag("resultsDir", rootCmd.PersistentFlags().Lookup("resultsDir"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
	_ = viper.BindPFlag("noProgress", rootCmd.PersistentFlags().Lookup("noProgress"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	viper.SetEnvPrefix("SHIELD")
	viper.AutomaticEnv()

	defaults := appconfig.Default()
	viper.SetDefault("baseURL", defaults.BaseURL)
	viper.SetDefault("apiKey", defaults.APIKey)
	viper.SetDefault("concurrency", defaults.Concurrency)
	viper.SetDefault("timeout", defaults.TimeoutSeconds)
}

// ensureConfigLoaded reads the config and sets safe defaults.
func ensureConfigLoaded() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to load config: %w", err)
	}
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
