// Package config provides configuration loading and management for
// voxelmetrics. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"voxelmetrics/pkg/stereology"
	"voxelmetrics/pkg/voxel"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Input volume parameters
	Volume struct {
		// SizeX, SizeY, SizeZ are the grid dimensions in voxels
		SizeX int `yaml:"sizeX"`
		SizeY int `yaml:"sizeY"`
		SizeZ int `yaml:"sizeZ"`

		// Format is the raw element type: uint8, uint16 or int32
		Format string `yaml:"format"`

		// SpacingX, SpacingY, SpacingZ are the voxel spacings in physical units
		SpacingX float64 `yaml:"spacingX"`
		SpacingY float64 `yaml:"spacingY"`
		SpacingZ float64 `yaml:"spacingZ"`
	} `yaml:"volume"`

	// Estimation parameters
	Estimation struct {
		// Directions is the number of Crofton sampling directions (3 or 13)
		Directions int `yaml:"directions"`

		// Connectivity2D is the in-section connectivity for mean breadth (4 or 8)
		Connectivity2D int `yaml:"connectivity2d"`

		// Connectivity is the 3D connectivity for the Euler number (6 or 26)
		Connectivity int `yaml:"connectivity"`

		// Measures lists the measures to compute; empty means all
		Measures []string `yaml:"measures"`

		// NumWorkers bounds the parallelism of the counting pass;
		// zero uses all available cores
		NumWorkers int `yaml:"numWorkers"`
	} `yaml:"estimation"`

	// Output parameters
	Output struct {
		// Summary adds population statistics below the region table
		Summary bool `yaml:"summary"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Volume.Format = "uint8"
	cfg.Volume.SpacingX = 1.0
	cfg.Volume.SpacingY = 1.0
	cfg.Volume.SpacingZ = 1.0

	cfg.Estimation.Directions = 13
	cfg.Estimation.Connectivity2D = 8
	cfg.Estimation.Connectivity = 26
	cfg.Estimation.NumWorkers = runtime.NumCPU()

	cfg.Output.Summary = true
	cfg.Output.Verbose = true

	return cfg
}

// Calibration returns the voxel spacings as a calibration value.
func (c *Config) Calibration() voxel.Calibration {
	return voxel.Calibration{
		DX: c.Volume.SpacingX,
		DY: c.Volume.SpacingY,
		DZ: c.Volume.SpacingZ,
	}
}

// EstimatorOptions maps the estimation section onto estimator options.
// An empty measure list requests every measure.
func (c *Config) EstimatorOptions() (stereology.Options, error) {
	opts := stereology.Options{
		Directions:     c.Estimation.Directions,
		Connectivity2D: c.Estimation.Connectivity2D,
		Connectivity:   c.Estimation.Connectivity,
		NumWorkers:     c.Estimation.NumWorkers,
	}
	if len(c.Estimation.Measures) == 0 {
		opts.Measures = stereology.AllMeasures()
		return opts, nil
	}
	for _, name := range c.Estimation.Measures {
		switch name {
		case "volume":
			opts.Measures.Volume = true
		case "surface":
			opts.Measures.SurfaceArea = true
		case "breadth":
			opts.Measures.MeanBreadth = true
		case "euler":
			opts.Measures.EulerNumber = true
		default:
			return opts, fmt.Errorf("unknown measure %q (expected volume, surface, breadth or euler)", name)
		}
	}
	return opts, nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
