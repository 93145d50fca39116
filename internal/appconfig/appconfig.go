// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout bounds every outbound classification call.
	defaultRequestTimeout = 30 * time.Second
	// defaultConcurrency is the number of in-flight classification requests when unset.
	defaultConcurrency = 5
	// defaultBaseURL points at a local mock shield endpoint.
	defaultBaseURL = "http://localhost"
	// defaultAPIKey is the bearer credential used against the mock endpoint.
	defaultAPIKey = "mock"
)

// Config represents the top-level application configuration.
type Config struct {
	BaseURL        string   `json:"baseURL" mapstructure:"baseURL"`
	APIKey         string   `json:"apiKey,omitempty" mapstructure:"apiKey"`
	EndpointPath   string   `json:"endpointPath,omitempty" mapstructure:"endpointPath"`
	Model          string   `json:"model,omitempty" mapstructure:"model"`
	Concurrency    int      `json:"concurrency,omitempty" mapstructure:"concurrency"`
	TimeoutSeconds int      `json:"timeout,omitempty" mapstructure:"timeout"`
	Threshold      *float64 `json:"threshold,omitempty" mapstructure:"threshold"`
	DetectLanguage bool     `json:"detectLanguage" mapstructure:"detectLanguage"`
	Translate      bool     `json:"translate" mapstructure:"translate"`
	DetectURL      string   `json:"detectURL,omitempty" mapstructure:"detectURL"`
	TranslateURL   string   `json:"translateURL,omitempty" mapstructure:"translateURL"`
	DataDir        string   `json:"dataDir,omitempty" mapstructure:"dataDir"`
	ResultsDir     string   `json:"resultsDir,omitempty" mapstructure:"resultsDir"`
	LogFile        string   `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug          bool     `json:"debug" mapstructure:"debug"`
	NoProgress     bool     `json:"noProgress" mapstructure:"noProgress"`
	ConfigPath     string   `json:"-" mapstructure:"-"`
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ConcurrencyLimit returns the number of classification requests allowed in flight at once.
func (c Config) ConcurrencyLimit() int {
	if c.Concurrency <= 0 {
		return defaultConcurrency
	}
	return c.Concurrency
}

// Endpoint returns the full classification URL (base URL plus sub-path).
func (c Config) Endpoint() string {
	base := strings.TrimRight(c.BaseURL, "/")
	path := strings.TrimSpace(c.EndpointPath)
	if path == "" {
		return base
	}
	return base + "/" + strings.TrimLeft(path, "/")
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "shieldeval.log"
}

// DataDirPath returns the dataset directory, applying a default if not set.
func (c Config) DataDirPath() string {
	if dir := strings.TrimSpace(c.DataDir); dir != "" {
		return dir
	}
	return "data"
}

// ResultsDirPath returns the report output directory, applying a default if not set.
func (c Config) ResultsDirPath() string {
	if dir := strings.TrimSpace(c.ResultsDir); dir != "" {
		return dir
	}
	return "results"
}

// Validate checks the configuration before any dispatch begins. Invalid
// credentials, URLs, or ranges are fatal.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("invalid configuration: baseURL must be set")
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid configuration: baseURL %q is not an absolute URL", c.BaseURL)
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("invalid configuration: apiKey must be set")
	}
	if c.Threshold != nil && (*c.Threshold < 0 || *c.Threshold > 1) {
		return fmt.Errorf("invalid configuration: threshold %v must be in [0,1]", *c.Threshold)
	}
	if c.Translate && strings.TrimSpace(c.TranslateURL) == "" {
		return errors.New("invalid configuration: translate requires translateURL")
	}
	if (c.Translate || c.DetectLanguage) && strings.TrimSpace(c.DetectURL) == "" {
		return errors.New("invalid configuration: language detection requires detectURL")
	}
	return nil
}

// Load reads the application configuration from the specified path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	config.ConfigPath = path
	return config, nil
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	config := Default()
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Default returns a configuration suitable for local operation against a
// mock shield endpoint.
func Default() Config {
	return Config{
		BaseURL:        defaultBaseURL,
		APIKey:         defaultAPIKey,
		Concurrency:    defaultConcurrency,
		TimeoutSeconds: int(defaultRequestTimeout.Seconds()),
	}
}
