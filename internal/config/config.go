package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Learn   LearnConfig   `mapstructure:"learn"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type LearnConfig struct {
	Symbols      int    `mapstructure:"symbols"`
	MinFrequency int    `mapstructure:"min_frequency"`
	Mode         string `mapstructure:"mode"`
	Delimiter    string `mapstructure:"delimiter"`
	Normalize    bool   `mapstructure:"normalize"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
	Console bool   `mapstructure:"console"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	subwordDir := filepath.Join(home, ".subword")

	return &Config{
		Learn: LearnConfig{
			Symbols:      10000,
			MinFrequency: 2,
			Mode:         "char",
			Delimiter:    "==",
			Normalize:    false,
		},
		Logging: LoggingConfig{
			Level:   "info",
			File:    filepath.Join(subwordDir, "subword.log"),
			Console: true,
		},
	}
}

// Load loads configuration from file, environment, and defaults
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Set defaults
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	// Config file setup
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}

		v.AddConfigPath(filepath.Join(home, ".subword"))
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	// Environment variables
	v.SetEnvPrefix("SUBWORD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is okay, use defaults
	}

	// Unmarshal into struct
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Expand paths
	cfg.ExpandPaths()

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Learn.Symbols < 1 {
		return errors.New("learn.symbols must be at least 1")
	}

	if c.Learn.MinFrequency < 1 {
		return errors.New("learn.min_frequency must be at least 1")
	}

	validModes := []string{"char", "morph-as-char", "morph-aware"}
	if !contains(validModes, c.Learn.Mode) {
		return fmt.Errorf("learn.mode must be one of: %v", validModes)
	}

	if c.Learn.Delimiter == "" {
		return errors.New("learn.delimiter must not be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	return nil
}

// ExpandPaths expands ~ and environment variables in paths
func (c *Config) ExpandPaths() {
	c.Logging.File = expandPath(c.Logging.File)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("learn.symbols", cfg.Learn.Symbols)
	v.SetDefault("learn.min_frequency", cfg.Learn.MinFrequency)
	v.SetDefault("learn.mode", cfg.Learn.Mode)
	v.SetDefault("learn.delimiter", cfg.Learn.Delimiter)
	v.SetDefault("learn.normalize", cfg.Learn.Normalize)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.console", cfg.Logging.Console)
}
