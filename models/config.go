// Package models defines data structures for configuration and reporting.
package models

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultInputDir  = "/public/photos"
	DefaultOutputDir = "/public/photos/thumbs"
	DefaultMaxWidth  = 600
	DefaultQuality   = 72
	DefaultWorkers   = 4
	DefaultTimeout   = 60 * time.Second
)

// Config holds runtime configuration for thumbnail generation.
// Values come from an optional YAML file, overridden by CLI flags and env vars.
type Config struct {
	InputDir   string        `yaml:"input_dir"`
	OutputDir  string        `yaml:"output_dir"`
	MaxWidth   int           `yaml:"max_width"`
	Quality    int           `yaml:"quality"`
	Workers    int           `yaml:"workers"`
	Timeout    time.Duration `yaml:"timeout"`
	DBPath     string        `yaml:"db_path,omitempty"`
	ReportPath string        `yaml:"report_path,omitempty"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		InputDir:  DefaultInputDir,
		OutputDir: DefaultOutputDir,
		MaxWidth:  DefaultMaxWidth,
		Quality:   DefaultQuality,
		Workers:   DefaultWorkers,
		Timeout:   DefaultTimeout,
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
// An empty path returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.InputDir == "":
		return errors.New("input directory must not be empty")
	case c.OutputDir == "":
		return errors.New("output directory must not be empty")
	case c.MaxWidth < 1:
		return fmt.Errorf("max width must be positive, got %d", c.MaxWidth)
	case c.Quality < 1 || c.Quality > 100:
		return fmt.Errorf("quality must be between 1 and 100, got %d", c.Quality)
	case c.Timeout <= 0:
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	case sameDir(c.InputDir, c.OutputDir):
		// photoN.webp maps to itself, so writing would replace the source
		return fmt.Errorf("output directory must differ from input directory %s", c.InputDir)
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return nil
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// Fingerprint identifies the generation settings that affect thumbnail bytes.
func (c *Config) Fingerprint() string {
	return fmt.Sprintf("w%d-q%d", c.MaxWidth, c.Quality)
}
