// Package config loads the optional uctbench YAML configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/weiihann/uctbench/sweep"
)

// Config holds the sweep and dispatch settings. Flags override any
// value loaded from file.
type Config struct {
	// Dispatcher is the program invoked per target, with the target
	// name as its first argument.
	Dispatcher string `yaml:"dispatcher"`

	// Targets replaces the dispatcher command line for individual
	// targets, keyed by target name.
	Targets map[string][]string `yaml:"targets"`

	MinExp int `yaml:"min_exp"`
	MaxExp int `yaml:"max_exp"`

	// RunDir receives the per-target log files.
	RunDir string `yaml:"run_dir"`

	// Logbook is the shared sweep status log.
	Logbook string `yaml:"logbook"`

	TimeoutMinutes int `yaml:"timeout_minutes"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Dispatcher:     "./run.sh",
		MinExp:         sweep.DefaultMinExp,
		MaxExp:         sweep.DefaultMaxExp,
		RunDir:         ".",
		Logbook:        "sweep.out",
		TimeoutMinutes: 30,
	}
}

// Load reads the config file at path, filling unset fields from
// Default. An empty path returns Default unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks range and path settings.
func (c Config) Validate() error {
	if c.Dispatcher == "" && len(c.Targets) == 0 {
		return fmt.Errorf("dispatcher or per-target commands required")
	}

	if c.MinExp < 0 || c.MaxExp > 62 || c.MinExp > c.MaxExp {
		return fmt.Errorf("invalid exponent range [%d, %d]", c.MinExp, c.MaxExp)
	}

	if c.TimeoutMinutes < 0 {
		return fmt.Errorf("negative timeout: %d", c.TimeoutMinutes)
	}

	return nil
}

// Timeout returns the per-run timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutMinutes) * time.Minute
}
