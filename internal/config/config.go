// Package config loads optional user preferences from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all portclean configuration.
type Config struct {
	PromptDefault string `yaml:"prompt_default"` // "yes" or "no": outcome of a blank prompt answer
	ColorEnabled  bool   `yaml:"color_enabled"`
	ProtectedPIDs []int  `yaml:"protected_pids"` // extra PIDs the killer must refuse
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		PromptDefault: "yes",
		ColorEnabled:  true,
		ProtectedPIDs: []int{},
	}
}

// Load loads config from the given path. If path is empty, it uses the
// default location (~/.config/portclean/config.yaml). If the file does
// not exist, it returns defaults without creating the file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
		if path == "" {
			return Default(), nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	return LoadFrom(path)
}

// LoadFrom loads and parses config from the given path. Missing fields
// keep their default values.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.PromptDefault != "yes" && cfg.PromptDefault != "no" {
		return nil, fmt.Errorf("invalid prompt_default %q: must be \"yes\" or \"no\"", cfg.PromptDefault)
	}

	return cfg, nil
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "portclean", "config.yaml")
}
