// Package config loads the agentschema CLI configuration file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the default configuration file, looked up in the working
// directory.
const FileName = ".agentschema.yaml"

// Pretty output modes.
const (
	PrettyAuto   = "auto"
	PrettyAlways = "always"
	PrettyNever  = "never"
)

// Config holds CLI settings from .agentschema.yaml.
type Config struct {
	Backend     string      `yaml:"backend"`
	LogLevel    string      `yaml:"log_level"`
	Pretty      string      `yaml:"pretty"`
	SchemaOut   string      `yaml:"schema_out"`
	Placeholder Placeholder `yaml:"placeholder"`
}

// Placeholder overrides the ids written by reverse conversions when the
// input carries none.
type Placeholder struct {
	ThreadID string `yaml:"thread_id"`
	TurnID   string `yaml:"turn_id"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{LogLevel: "info", Pretty: PrettyAuto}
}

// Load reads the configuration at path. A missing file yields Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.Pretty == "" {
		config.Pretty = PrettyAuto
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &config, nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	switch c.Pretty {
	case PrettyAuto, PrettyAlways, PrettyNever:
	default:
		return fmt.Errorf("pretty must be one of auto, always, never; got %q", c.Pretty)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// PrettyOutput resolves the pretty mode; auto follows whether stdout is a
// terminal.
func (c *Config) PrettyOutput(terminal bool) bool {
	switch c.Pretty {
	case PrettyAlways:
		return true
	case PrettyNever:
		return false
	default:
		return terminal
	}
}
