package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Project-Sylos/Tabula/internal/types"
	"gopkg.in/yaml.v3"
)

const (
	defaultMinRows             = 1_000
	defaultProgressInterval    = 25_000
	defaultBytesPerRowEstimate = 200
	defaultMegaThreshold       = 1_000_000
	defaultOutputDir           = "."
	defaultHost                = "localhost"
	defaultPort                = 8087
)

// DefaultConfig returns the configuration used by the CLI
// The catalog is disabled and max_rows is unlimited; the API server sets both through its config file
func DefaultConfig() types.Config {
	return types.Config{
		Generator: types.GeneratorConfig{
			MinRows:             defaultMinRows,
			ProgressInterval:    defaultProgressInterval,
			BytesPerRowEstimate: defaultBytesPerRowEstimate,
			MegaThreshold:       defaultMegaThreshold,
		},
		Output: types.OutputConfig{
			Dir: defaultOutputDir,
		},
		API: types.APIConfig{
			Host: defaultHost,
			Port: defaultPort,
		},
	}
}

// LoadFromFile loads configuration from a JSON or YAML file
func LoadFromFile(configPath string) (*types.Config, error) {
	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start from defaults so partial files only override what they name
	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = defaultOutputDir
	}
	if cfg.API.Host == "" {
		cfg.API.Host = defaultHost
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = defaultPort
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// Ensure paths are absolute
	if cfg.Output.Dir, err = filepath.Abs(cfg.Output.Dir); err != nil {
		return nil, fmt.Errorf("failed to resolve output dir: %w", err)
	}
	if cfg.Catalog.DBPath != "" && !filepath.IsAbs(cfg.Catalog.DBPath) {
		absPath, err := filepath.Abs(cfg.Catalog.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve DB path: %w", err)
		}
		cfg.Catalog.DBPath = absPath
	}

	return &cfg, nil
}

// Validate checks that the configuration parameters are valid
func Validate(cfg *types.Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	gen := cfg.Generator
	if gen.MinRows < 1 {
		return fmt.Errorf("min_rows must be at least 1, got %d", gen.MinRows)
	}

	if gen.MaxRows != 0 && gen.MaxRows < gen.MinRows {
		return fmt.Errorf("max_rows (%d) must be >= min_rows (%d)", gen.MaxRows, gen.MinRows)
	}

	if gen.ProgressInterval < 1 {
		return fmt.Errorf("progress_interval must be positive, got %d", gen.ProgressInterval)
	}

	if gen.BytesPerRowEstimate < 0 {
		return fmt.Errorf("bytes_per_row_estimate must be non-negative, got %d", gen.BytesPerRowEstimate)
	}

	if gen.MegaThreshold < 1 {
		return fmt.Errorf("mega_threshold must be positive, got %d", gen.MegaThreshold)
	}

	if cfg.API.Port < 1 || cfg.API.Port > 65535 {
		return fmt.Errorf("API port must be between 1 and 65535, got %d", cfg.API.Port)
	}

	return nil
}

// SaveToFile saves configuration to a JSON or YAML file, chosen by extension
func SaveToFile(cfg *types.Config, configPath string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
