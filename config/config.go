package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/observable/observability"
)

// CollectionConfig controls how observable collections report changes.
//
// Configuration fields:
//   - ReportClearAsRemove: emit one Remove event listing every item instead
//     of an item-less Clear event (default false)
//   - Observer: diagnostic observer name resolved via the observability
//     registry (default "noop")
type CollectionConfig struct {
	ReportClearAsRemove bool   `json:"report_clear_as_remove" yaml:"report_clear_as_remove"`
	Observer            string `json:"observer" yaml:"observer"`
}

// DefaultCollectionConfig returns collection configuration with clear
// reported as a single Clear event and diagnostics disabled.
func DefaultCollectionConfig() CollectionConfig {
	return CollectionConfig{
		ReportClearAsRemove: false,
		Observer:            "noop",
	}
}

func (c *CollectionConfig) Merge(source *CollectionConfig) {
	if source.ReportClearAsRemove {
		c.ReportClearAsRemove = source.ReportClearAsRemove
	}

	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// BindingConfig controls the replication engine.
//
// Configuration fields:
//   - FailOnReplicationError: return replay failures from the mutation that
//     triggered them instead of only reporting them (default false)
//   - Observer: diagnostic observer name (default "slog" so replay failures
//     are logged)
type BindingConfig struct {
	FailOnReplicationError bool   `json:"fail_on_replication_error" yaml:"fail_on_replication_error"`
	Observer               string `json:"observer" yaml:"observer"`
}

// DefaultBindingConfig returns binding configuration that logs replay
// failures through slog without surfacing them to the mutating caller.
func DefaultBindingConfig() BindingConfig {
	return BindingConfig{
		FailOnReplicationError: false,
		Observer:               "slog",
	}
}

func (c *BindingConfig) Merge(source *BindingConfig) {
	if source.FailOnReplicationError {
		c.FailOnReplicationError = source.FailOnReplicationError
	}

	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// Config is the root configuration document.
type Config struct {
	Collection CollectionConfig `json:"collection" yaml:"collection"`
	Binding    BindingConfig    `json:"binding" yaml:"binding"`
}

// DefaultConfig returns a Config with defaults for every section.
func DefaultConfig() Config {
	return Config{
		Collection: DefaultCollectionConfig(),
		Binding:    DefaultBindingConfig(),
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	c.Collection.Merge(&source.Collection)
	c.Binding.Merge(&source.Binding)
}

// Validate checks that every observer name is registered.
func (c *Config) Validate() error {
	for section, name := range map[string]string{
		"collection": c.Collection.Observer,
		"binding":    c.Binding.Observer,
	} {
		if _, err := observability.GetObserver(name); err != nil {
			return fmt.Errorf("%s: %w", section, err)
		}
	}
	return nil
}

// Load reads a YAML (.yaml, .yml) or JSON (.json) config file, merges it
// with defaults and validates the result.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var format string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		format = "yaml"
	case ".json":
		format = "json"
	default:
		return nil, fmt.Errorf("unsupported config format: %s", filepath.Ext(filename))
	}

	return Parse(data, format)
}

// Parse decodes config data in the given format ("yaml" or "json"), merges
// it with defaults and validates the result.
func Parse(data []byte, format string) (*Config, error) {
	var loaded Config
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case "json":
		if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}

	cfg := DefaultConfig()
	cfg.Merge(&loaded)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
