// Package config loads the YAML configuration consumed by the junctiond
// command: the scheduler tick interval, default signal timing, and the
// intersections to declare at startup.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/anggasct/junction"
)

// Duration wraps time.Duration so YAML values like "30s" or "500ms" parse
// with time.ParseDuration.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Timing is the YAML form of a timing configuration
type Timing struct {
	Green  Duration `yaml:"green"`
	Yellow Duration `yaml:"yellow"`
	Red    Duration `yaml:"red"`
}

// ToTimingConfig converts to the core timing configuration
func (t Timing) ToTimingConfig() junction.TimingConfig {
	return junction.TimingConfig{
		Green:  t.Green.Std(),
		Yellow: t.Yellow.Std(),
		Red:    t.Red.Std(),
	}
}

// IntersectionConfig declares one intersection to create at startup
type IntersectionConfig struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Autostart bool    `yaml:"autostart"`
	Timing    *Timing `yaml:"timing,omitempty"`
}

// Config is the junctiond configuration
type Config struct {
	TickInterval  Duration             `yaml:"tick_interval"`
	Defaults      Timing               `yaml:"defaults"`
	Intersections []IntersectionConfig `yaml:"intersections"`
}

// Default returns the configuration used when no file is supplied
func Default() *Config {
	return &Config{
		TickInterval: Duration(junction.DefaultTickInterval),
		Defaults: Timing{
			Green:  Duration(junction.DefaultGreenDuration),
			Yellow: Duration(junction.DefaultYellowDuration),
			Red:    Duration(junction.DefaultRedDuration),
		},
	}
}

// Load reads and validates a configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates configuration bytes. Fields left unset fall
// back to the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all durations are strictly positive and that every
// declared intersection has an id.
func (c *Config) Validate() error {
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %v", c.TickInterval.Std())
	}
	if err := c.Defaults.ToTimingConfig().Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	seen := make(map[string]bool)
	for n, i := range c.Intersections {
		if i.ID == "" {
			return fmt.Errorf("intersections[%d]: id is required", n)
		}
		if seen[i.ID] {
			return fmt.Errorf("intersections[%d]: duplicate id %q", n, i.ID)
		}
		seen[i.ID] = true
		if i.Timing != nil {
			if err := i.Timing.ToTimingConfig().Validate(); err != nil {
				return fmt.Errorf("intersections[%d]: %w", n, err)
			}
		}
	}
	return nil
}
