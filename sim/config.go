package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/commons-sim/commons-sim/sim/psychology"
)

const (
	// DefaultMaxUsageDuration is the cooperative hold limit in steps.
	DefaultMaxUsageDuration = 5
	// DefaultScarcityPoolSize is the scarcity denominator when none is configured.
	DefaultScarcityPoolSize = 10
)

// Range is a closed [Min, Max] sampling interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// WeightRanges bounds the four consumer weights; each is sampled independently.
type WeightRanges struct {
	Trust        Range `yaml:"trust"`
	Satisfaction Range `yaml:"satisfaction"`
	Autonomy     Range `yaml:"autonomy"`
	Scarcity     Range `yaml:"scarcity"`
}

// Config holds every recognized simulation parameter, loadable from YAML.
// Population, resource and grid parameters affect only initialization.
type Config struct {
	PopulationSize int `yaml:"population_size"` // consumers (must be > 0)
	ResourceCount  int `yaml:"resource_count"`  // resources (must be > 0)
	GridWidth      int `yaml:"grid_width"`      // must be >= 1
	GridHeight     int `yaml:"grid_height"`     // must be >= 1

	MaxUsageDuration int `yaml:"max_usage_duration"` // 0 = DefaultMaxUsageDuration
	// ScarcityPoolSize is the resource total consumers assume when computing
	// scarcity. It is NOT derived from ResourceCount; 0 = DefaultScarcityPoolSize.
	ScarcityPoolSize int `yaml:"scarcity_pool_size"`

	BaseTrust        float64 `yaml:"base_trust"`
	AIMediated       bool    `yaml:"ai_mediated"` // applies AIPenalty to initial trust
	AIPenalty        float64 `yaml:"ai_penalty"`
	BaseSatisfaction float64 `yaml:"base_satisfaction"`
	BaseAutonomy     float64 `yaml:"base_autonomy"`

	Weights WeightRanges `yaml:"weights"`
}

// DefaultConfig returns the reference scenario: 5 consumers, 3 resources, 10x10 grid.
func DefaultConfig() Config {
	return Config{
		PopulationSize:   5,
		ResourceCount:    3,
		GridWidth:        10,
		GridHeight:       10,
		MaxUsageDuration: DefaultMaxUsageDuration,
		BaseTrust:        psychology.DefaultBaseTrust,
		AIPenalty:        psychology.DefaultAIPenalty,
		BaseSatisfaction: 0.5,
		BaseAutonomy:     0.5,
		Weights: WeightRanges{
			Trust:        Range{Min: 0.3, Max: 0.6},
			Satisfaction: Range{Min: 0.2, Max: 0.5},
			Autonomy:     Range{Min: 0.1, Max: 0.4},
			Scarcity:     Range{Min: 0.3, Max: 0.7},
		},
	}
}

// EffectiveMaxUsageDuration returns MaxUsageDuration, or the default when unset.
func (c Config) EffectiveMaxUsageDuration() int {
	if c.MaxUsageDuration <= 0 {
		return DefaultMaxUsageDuration
	}
	return c.MaxUsageDuration
}

// EffectiveScarcityPoolSize returns ScarcityPoolSize, or the default when unset.
func (c Config) EffectiveScarcityPoolSize() int {
	if c.ScarcityPoolSize <= 0 {
		return DefaultScarcityPoolSize
	}
	return c.ScarcityPoolSize
}

// Validate checks counts, grid bounds, baselines and weight ranges.
// Every returned error wraps ErrConfiguration.
func (c Config) Validate() error {
	if c.PopulationSize <= 0 {
		return fmt.Errorf("%w: population_size must be positive, got %d", ErrConfiguration, c.PopulationSize)
	}
	if c.ResourceCount <= 0 {
		return fmt.Errorf("%w: resource_count must be positive, got %d", ErrConfiguration, c.ResourceCount)
	}
	if c.GridWidth < 1 || c.GridHeight < 1 {
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrConfiguration, c.GridWidth, c.GridHeight)
	}
	if c.MaxUsageDuration < 0 {
		return fmt.Errorf("%w: max_usage_duration must be non-negative, got %d", ErrConfiguration, c.MaxUsageDuration)
	}
	if c.ScarcityPoolSize < 0 {
		return fmt.Errorf("%w: scarcity_pool_size must be non-negative, got %d", ErrConfiguration, c.ScarcityPoolSize)
	}
	if c.BaseTrust < 0 || c.BaseTrust > psychology.MaxTrust {
		return fmt.Errorf("%w: base_trust must be in [0,100], got %f", ErrConfiguration, c.BaseTrust)
	}
	if c.AIPenalty < 0 {
		return fmt.Errorf("%w: ai_penalty must be non-negative, got %f", ErrConfiguration, c.AIPenalty)
	}
	if c.BaseSatisfaction < 0 || c.BaseSatisfaction > 1 {
		return fmt.Errorf("%w: base_satisfaction must be in [0,1], got %f", ErrConfiguration, c.BaseSatisfaction)
	}
	if c.BaseAutonomy < 0 || c.BaseAutonomy > 1 {
		return fmt.Errorf("%w: base_autonomy must be in [0,1], got %f", ErrConfiguration, c.BaseAutonomy)
	}
	ranges := []struct {
		name string
		r    Range
	}{
		{"trust", c.Weights.Trust},
		{"satisfaction", c.Weights.Satisfaction},
		{"autonomy", c.Weights.Autonomy},
		{"scarcity", c.Weights.Scarcity},
	}
	for _, nr := range ranges {
		if nr.r.Min < 0 || nr.r.Max < nr.r.Min {
			return fmt.Errorf("%w: weights.%s range [%f,%f] must satisfy 0 <= min <= max",
				ErrConfiguration, nr.name, nr.r.Min, nr.r.Max)
		}
	}
	return nil
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
// Keys absent from the file keep their default values.
// Unknown keys are rejected so that typos surface as errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading simulation config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing simulation config: %w", err)
	}
	return cfg, nil
}
