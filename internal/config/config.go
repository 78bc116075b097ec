// Package config loads the optional beanlens configuration file. A missing
// file is not an error; defaults apply.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound indicates no config file was found in the standard search locations.
var ErrConfigNotFound = errors.New("configuration file not found")

// Repository is a named artifact repository entry.
type Repository struct {
	Name string `yaml:"name" validate:"required"`
	URL  string `yaml:"url" validate:"required,url"`
}

// Config is the unified configuration structure.
type Config struct {
	// ExtraStereotypes are annotation FQNs consulted after the fixed
	// Component, Service, Repository priority. The fixed order itself is not
	// configurable.
	ExtraStereotypes []string `yaml:"extraStereotypes,omitempty" validate:"dive,required"`

	// Repositories are consulted after Maven Central, in order.
	Repositories []Repository `yaml:"repositories,omitempty" validate:"dive"`

	// CacheDir overrides the default artifact cache location.
	CacheDir string `yaml:"cacheDir,omitempty"`

	// CatalogVersion is the catalog version loaded when none is given on the
	// command line.
	CatalogVersion string `yaml:"catalogVersion,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration file: %w", err)
	}
	return nil
}

// Load loads the configuration from explicitPath when given, otherwise from
// the standard search locations. Absence of a config file yields Default().
func Load(explicitPath string) (*Config, error) {
	configPath := explicitPath
	if configPath == "" {
		found, err := findConfigFile()
		if errors.Is(err, ErrConfigNotFound) {
			return Default(), nil
		}
		if err != nil {
			return nil, err
		}
		configPath = found
	} else if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("specified config file does not exist: %s", configPath)
		}
		return nil, fmt.Errorf("cannot access config file %s: %w", configPath, err)
	}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", configPath, err)
	}
	defer file.Close()

	cfg, err := parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	// Reject unknown fields so typos surface instead of silently applying
	// defaults.
	dec.KnownFields(true)
	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &cfg, nil
}

// findConfigFile searches for configuration files in the expected locations
func findConfigFile() (string, error) {
	configNames := []string{"beanlens.yaml", "beanlens.yml"}

	// Check current directory first
	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
	}

	// Check user config directory
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		configDir := filepath.Join(userConfigDir, "beanlens")
		for _, name := range configNames {
			candidate := filepath.Join(configDir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
	}

	return "", ErrConfigNotFound
}
