// Package config loads client configuration from environment variables and
// an optional TOML config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix is the prefix for environment variables
	EnvPrefix = "NOTION"

	// ConfigFileName is the name of the config file
	ConfigFileName = "config"
	// ConfigFileType is the type of the config file
	ConfigFileType = "toml"

	// DefaultBaseURL is the API root every request path is resolved against
	DefaultBaseURL = "https://api.notion.com/v1"
	// DefaultVersion is the API version header sent with every request
	DefaultVersion = "2025-09-03"
	// MaxPageSize is the largest page size the API accepts
	MaxPageSize = 100
)

// Config holds the client configuration
type Config struct {
	Token    string `mapstructure:"token"`
	BaseURL  string `mapstructure:"base_url"`
	Version  string `mapstructure:"version"`
	PageSize int    `mapstructure:"page_size"`
	LogLevel string `mapstructure:"log_level"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	// Every key needs a default so AutomaticEnv can surface it through
	// Unmarshal.
	v.SetDefault("token", "")
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("version", DefaultVersion)
	v.SetDefault("page_size", 0)
	v.SetDefault("log_level", "info")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, environment and defaults only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// NOTION_TOKEN wins over any file-provided token
	if token := os.Getenv("NOTION_TOKEN"); token != "" {
		cfg.Token = token
	}

	return &cfg, nil
}

// Default returns a config with defaults applied and the given token
func Default(token string) *Config {
	return &Config{
		Token:    token,
		BaseURL:  DefaultBaseURL,
		Version:  DefaultVersion,
		LogLevel: "info",
	}
}

// GetConfigDir returns the configuration directory path
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "better-notion"), nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Token == "" {
		return fmt.Errorf("token is required. Set NOTION_TOKEN or configure token in %s", "~/.config/better-notion/config.toml")
	}
	if c.PageSize < 0 || c.PageSize > MaxPageSize {
		return fmt.Errorf("page_size must be between 0 and %d, got %d", MaxPageSize, c.PageSize)
	}
	return nil
}
