package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.01
	DefaultInterval = 100 // telemetry broadcast interval, milliseconds
)

type Config struct {
	Engine    string  `yaml:"engine"`
	Dt        float64 `yaml:"dt"`
	Scene     string  `yaml:"scene"`
	Preset    string  `yaml:"preset"`
	Telemetry string  `yaml:"telemetry"` // listen address, empty disables
	Interval  int     `yaml:"interval"`  // telemetry interval in ms
	Watch     bool    `yaml:"watch"`     // hot-reload the scene file on change
}

func DefaultConfig() *Config {
	return &Config{
		Engine:   "chipmunk",
		Dt:       DefaultDt,
		Preset:   "pendulum",
		Interval: DefaultInterval,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Scene != "" && c.Preset != "" {
		return fmt.Errorf("scene and preset are mutually exclusive")
	}
	return nil
}
