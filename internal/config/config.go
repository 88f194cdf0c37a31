// Package config handles loading and saving user configuration for manju.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file inside the config directory.
const FileName = "config.yaml"

// Config holds all user configuration.
type Config struct {
	IgnoreErrors bool       `yaml:"ignore_errors"` // Pass unmappable words through instead of failing
	Log          LogConfig  `yaml:"log"`
	Anki         AnkiConfig `yaml:"anki"`
	Font         string     `yaml:"font,omitempty"` // Mongolian-script font used for glyph art
}

// LogConfig controls CLI logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // pretty or json
}

// AnkiConfig holds defaults for deck augmentation.
type AnkiConfig struct {
	SourceField string `yaml:"source_field,omitempty"` // Field holding romanized Manchu (auto-detect if empty)
	TargetField string `yaml:"target_field"`           // Field that receives Manchu script
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "pretty",
		},
		Anki: AnkiConfig{
			TargetField: "Manchu",
		},
	}
}

// Load reads a config file. Missing keys keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// LoadDir loads config.yaml from dir, falling back to defaults
// when the file does not exist.
func LoadDir(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "manju"), nil
}

// EnsureDir creates dir if it doesn't exist.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
