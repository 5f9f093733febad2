// Package config loads run-wide defaults from a YAML file, grounded on the
// teacher's packages/core/config/{config.go,defaults.go} — same
// search-path-then-file shape, switched from JSON to yaml.v3 per the
// supplemented --env-file surface.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds run-wide settings read from a YAML file. The run command
// uses Concurrency (when --concurrency is 0) and seeds the environment
// scope from Environment. Timeout, Retries, Verbose and NoColor are parsed
// but not applied: Tests keep their own header defaults and the console
// follows only its flags.
type Config struct {
	Concurrency  int               `yaml:"concurrency,omitempty"`
	Timeout      int               `yaml:"timeout,omitempty"`
	Retries      int               `yaml:"retries,omitempty"`
	Verbose      bool              `yaml:"verbose,omitempty"`
	NoColor      bool              `yaml:"noColor,omitempty"`
	Environment  map[string]string `yaml:"environment,omitempty"`
}

// Filenames is the set of names searched for when no explicit path is given.
var Filenames = []string{".greq.yaml", ".greq.yml", "greq.config.yaml"}

// Default returns a Config with the spec's documented header defaults.
func Default() *Config {
	return &Config{
		Concurrency: 0, // 0 selects runtime.NumCPU() in the scheduler
		Timeout:     30000,
		Retries:     0,
		Verbose:     false,
		NoColor:     false,
	}
}

// Load reads path, or — when path is empty — searches dir for one of
// Filenames. Returns Default() unmodified when nothing is found.
func Load(path, dir string) (*Config, error) {
	if path != "" {
		return loadFile(path)
	}
	for _, name := range Filenames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return loadFile(candidate)
		}
	}
	return Default(), nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile reads a --env-file: a flat YAML mapping of NAME to value,
// applied to the EnvironmentScope before any Test substitutes, per §10.4's
// supplemented env-file surface.
func LoadEnvFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	vars := make(map[string]string)
	if err := yaml.Unmarshal(data, &vars); err != nil {
		return nil, err
	}
	return vars, nil
}
