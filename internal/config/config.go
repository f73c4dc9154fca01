// Package config holds run configuration. A Config is built once per run
// and passed explicitly to every component that needs it; there is no
// process-wide state.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds docsift configuration.
// Loaded from ./config.yaml or ~/.docsift/config.yaml, overridable via
// DOCSIFT_* environment variables.
type Config struct {
	// APIKey for the extraction endpoint (supports ${ENV_VAR} syntax).
	APIKey string `mapstructure:"api_key" yaml:"api_key"`
	// APIBase overrides the default endpoint URL (supports ${ENV_VAR} syntax).
	APIBase string `mapstructure:"api_base" yaml:"api_base"`
	// Model is the extraction model name.
	Model string `mapstructure:"model" yaml:"model"`
	// MaxWorkers bounds concurrent extraction calls.
	MaxWorkers int `mapstructure:"max_workers" yaml:"max_workers"`
	// TimeoutSeconds is the HTTP timeout per extraction call.
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	// Separator joins nested keys during flattening.
	Separator string `mapstructure:"separator" yaml:"separator"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIKey:         "${OPENAI_API_KEY}",
		APIBase:        "${OPENAI_API_BASE}",
		Model:          "gpt-4o-mini",
		MaxWorkers:     4,
		TimeoutSeconds: 300,
		Separator:      ".",
		LogLevel:       "info",
	}
}

// Load builds a Config from defaults, an optional config file, and
// DOCSIFT_* environment variables. cfgFile forces a specific file;
// otherwise ./config.yaml and homePath/config.yaml are tried in order.
// A missing config file is not an error.
func Load(cfgFile, homePath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("api_key", defaults.APIKey)
	v.SetDefault("api_base", defaults.APIBase)
	v.SetDefault("model", defaults.Model)
	v.SetDefault("max_workers", defaults.MaxWorkers)
	v.SetDefault("timeout_seconds", defaults.TimeoutSeconds)
	v.SetDefault("separator", defaults.Separator)
	v.SetDefault("log_level", defaults.LogLevel)

	// Environment variables with DOCSIFT_ prefix
	v.SetEnvPrefix("DOCSIFT")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if homePath != "" {
			v.AddConfigPath(homePath)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	pattern := regexp.MustCompile(`\$\{([^}]+)\}`)
	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// ResolvedAPIKey returns the API key with ${ENV_VAR} references expanded.
func (c *Config) ResolvedAPIKey() string {
	return ResolveEnvVars(c.APIKey)
}

// ResolvedAPIBase returns the endpoint override with ${ENV_VAR} references
// expanded.
func (c *Config) ResolvedAPIBase() string {
	return ResolveEnvVars(c.APIBase)
}

// Timeout returns the per-call HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# docsift configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set these in your shell: export OPENAI_API_KEY=xxx

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
