package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/probegate/probegate/internal/models"
	"github.com/spf13/viper"
)

// Config holds all configuration for probegate. It is built once at the
// CLI boundary from flags merged over environment variables and an
// optional config file, then passed by value into the core packages.
// The core never reads ambient process state directly.
type Config struct {
	// API key for the scanning service (PROBEGATE_API_KEY)
	APIKey string `mapstructure:"api_key"`

	// Project identifier; repo_id may substitute
	ProjectID string `mapstructure:"project_id"`

	// Numeric repository identifier from the CI platform; 0 means absent
	RepoID int `mapstructure:"repo_id"`

	// Branch to scan (defaults to the CI platform's branch)
	Branch string `mapstructure:"branch"`

	// Scan depth: priority or full (empty lets the service decide)
	ScanLevel string `mapstructure:"scan_level"`

	// Target environment: dev, staging, or production (default)
	Environment string `mapstructure:"environment"`

	// Wait for scan completion before exiting
	Wait bool `mapstructure:"wait"`

	// Delay between status polls
	PollInterval time.Duration `mapstructure:"poll_interval"`

	// Minimum severity that blocks the build
	FailOn string `mapstructure:"fail_on"`

	// Output format (text, json)
	Format string `mapstructure:"format"`

	// Verbose output
	Verbose bool `mapstructure:"verbose"`

	// Debug mode
	Debug bool `mapstructure:"debug"`
}

// ConfigurationError is a missing or unusable configuration value. The
// CLI maps it to a non-zero exit before any network call happens.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// DefaultPollInterval is used when poll_interval is unset.
const DefaultPollInterval = 5 * time.Second

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Wait:         true,
		PollInterval: DefaultPollInterval,
		FailOn:       string(models.DefaultSeverityThreshold),
		Format:       "text",
	}
}

// Load loads configuration with the following precedence (lowest to highest):
// 1. Default values
// 2. Config file (~/.probegate.yaml or ./probegate.yaml)
// 3. Environment variables (PROBEGATE_*)
// 4. CLI flags (handled by caller)
func Load() (*Config, error) {
	return LoadFromFile("")
}

// LoadFromFile loads configuration from a specific file path
// If path is empty, it searches for config in standard locations
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("api_key", "")
	v.SetDefault("project_id", "")
	v.SetDefault("repo_id", 0)
	v.SetDefault("branch", "")
	v.SetDefault("scan_level", "")
	v.SetDefault("environment", "")
	v.SetDefault("wait", defaults.Wait)
	v.SetDefault("poll_interval", defaults.PollInterval)
	v.SetDefault("fail_on", defaults.FailOn)
	v.SetDefault("format", defaults.Format)
	v.SetDefault("verbose", false)
	v.SetDefault("debug", false)

	v.SetConfigName("probegate")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Search for config in standard locations
		v.AddConfigPath(".")

		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}

		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			v.AddConfigPath(filepath.Join(xdgConfig, "probegate"))
		}
	}

	// Enable environment variable support
	v.SetEnvPrefix("PROBEGATE")
	v.AutomaticEnv()

	// Try to read config file (ignore error if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format: %s (must be text or json)", c.Format)
	}

	if c.ScanLevel != "" && !models.ScanLevel(c.ScanLevel).IsValid() {
		return fmt.Errorf("invalid scan_level: %s (must be %s or %s)",
			c.ScanLevel, models.ScanLevelPriority, models.ScanLevelFull)
	}

	if c.PollInterval < 0 {
		return fmt.Errorf("poll_interval cannot be negative")
	}

	if c.RepoID < 0 {
		return fmt.Errorf("repo_id cannot be negative")
	}

	return nil
}

// RequireAPIKey returns the API key or a ConfigurationError when it is
// unset. The key is required for every command that touches the API.
func (c *Config) RequireAPIKey() (string, error) {
	if c.APIKey == "" {
		return "", &ConfigurationError{
			Message: "API key is not set (use --api-key or PROBEGATE_API_KEY)",
		}
	}
	return c.APIKey, nil
}

// HasIdentifier reports whether a scan target can be identified, either
// by project id or by numeric repo id.
func (c *Config) HasIdentifier() bool {
	return c.ProjectID != "" || c.RepoID > 0
}

// SeverityThreshold parses fail_on into a severity level. Unrecognized
// values emit a one-line warning listing the valid levels and degrade
// to the strictest default; malformed configuration never loosens the
// gate silently.
func (c *Config) SeverityThreshold(warn io.Writer) models.Severity {
	if c.FailOn == "" {
		return models.DefaultSeverityThreshold
	}
	sev, err := models.ParseSeverity(c.FailOn)
	if err != nil {
		fmt.Fprintf(warn, "Warning: %v, defaulting to %s\n", err, models.DefaultSeverityThreshold)
		return models.DefaultSeverityThreshold
	}
	return sev
}

// EffectivePollInterval returns the poll interval, falling back to the
// default when unset.
func (c *Config) EffectivePollInterval() time.Duration {
	if c.PollInterval <= 0 {
		return DefaultPollInterval
	}
	return c.PollInterval
}

// GenerateSampleConfig generates a sample configuration file content
func GenerateSampleConfig() string {
	return `# probegate configuration
# Save this file as ~/.probegate.yaml or ./probegate.yaml

# API key for the scanning service
# Can also be set via PROBEGATE_API_KEY env var
# api_key: pg_live_your_key_here

# Project identifier (repo_id from the CI platform may substitute)
# project_id: my-project

# Scan depth: priority or full (empty lets the service decide)
# scan_level: priority

# Target environment: dev, staging, or production (default)
# environment: production

# Wait for scan completion before exiting
wait: true

# Delay between status polls
poll_interval: 5s

# Minimum severity that fails the build
fail_on: critical

# Output format: text or json
format: text
`
}
