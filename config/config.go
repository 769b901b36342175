// Package config loads the settings shared by every bytesize subcommand.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/OhanaFS/bytesize"
	"github.com/OhanaFS/bytesize/report"
)

// Config holds settings loaded from a YAML file and environment variables.
// Command line flags override them.
type Config struct {
	Base     bytesize.Base     `yaml:"base"`
	Output   report.FormatType `yaml:"output"`
	LogLevel string            `yaml:"log_level"`
	Workers  int               `yaml:"workers"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		Base:     bytesize.Decimal,
		Output:   report.Table,
		LogLevel: "info",
		Workers:  runtime.NumCPU(),
	}
}

// Load reads the configuration. Values are applied in order: defaults, the
// YAML file at path (or $BYTESIZE_CONFIG when path is empty; a missing file is
// ignored), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("BYTESIZE_CONFIG")
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("cannot read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("BYTESIZE_BASE"); v != "" {
		if err := cfg.Base.Set(v); err != nil {
			return nil, fmt.Errorf("invalid BYTESIZE_BASE: %w", err)
		}
	}
	if v := os.Getenv("BYTESIZE_OUTPUT"); v != "" {
		if err := cfg.Output.Set(v); err != nil {
			return nil, fmt.Errorf("invalid BYTESIZE_OUTPUT: %w", err)
		}
	}
	if v := os.Getenv("BYTESIZE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("BYTESIZE_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BYTESIZE_WORKERS %q: %w", v, err)
		}
		cfg.Workers = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if _, err := report.ParseFormatType(string(c.Output)); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// Level returns the zerolog level named by LogLevel.
func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
