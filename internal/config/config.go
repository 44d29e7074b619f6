package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lasmithusa/engineered-magnetics/internal/magnet"
)

const (
	DefaultRemanence  = 1.21  // Tesla, N38 NdFeB
	DefaultRadius     = 7.62  // mm (0.3 in)
	DefaultThickness  = 2.794 // mm (0.11 in)
	DefaultDistMin    = 0.0
	DefaultDistMax    = 25.0
	DefaultResolution = 100
	DefaultShape      = "cyl"
)

type Config struct {
	Remanence  float64     `yaml:"remanence"`
	Radius     float64     `yaml:"radius_mm"`
	Thickness  float64     `yaml:"thickness_mm"`
	Shape      string      `yaml:"shape"`
	DistRange  RangeConfig `yaml:"dist_range"`
	Resolution int         `yaml:"resolution"`
}

// RangeConfig is the closed design envelope for the midpoint distance.
type RangeConfig struct {
	Min float64 `yaml:"min_mm"`
	Max float64 `yaml:"max_mm"`
}

func DefaultConfig() *Config {
	return &Config{
		Remanence:  DefaultRemanence,
		Radius:     DefaultRadius,
		Thickness:  DefaultThickness,
		Shape:      DefaultShape,
		DistRange:  RangeConfig{Min: DefaultDistMin, Max: DefaultDistMax},
		Resolution: DefaultResolution,
	}
}

// Load reads a YAML config, filling unset fields from defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the full surface before any run: geometry, shape
// name, envelope and resolution.
func (c *Config) Validate() error {
	geom, err := c.Geometry()
	if err != nil {
		return err
	}
	if err := geom.Validate(); err != nil {
		return err
	}
	if c.DistRange.Min > c.DistRange.Max {
		return fmt.Errorf("config: dist_range min %.4g > max %.4g", c.DistRange.Min, c.DistRange.Max)
	}
	if c.DistRange.Min < 0 {
		return fmt.Errorf("config: dist_range min %.4g must be >= 0", c.DistRange.Min)
	}
	if c.Resolution < 2 {
		return fmt.Errorf("config: resolution %d must be >= 2", c.Resolution)
	}
	return nil
}

// Geometry builds the immutable magnet geometry from the config.
func (c *Config) Geometry() (magnet.Geometry, error) {
	shape, err := magnet.ParseShape(c.Shape)
	if err != nil {
		return magnet.Geometry{}, err
	}
	return magnet.Geometry{
		Remanence: c.Remanence,
		Radius:    c.Radius,
		Thickness: c.Thickness,
		Shape:     shape,
	}, nil
}
