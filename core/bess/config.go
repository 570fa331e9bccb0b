package bess

import (
	"fmt"
	"time"

	"github.com/kilianp07/aquacharge/core/model"
)

// Config holds simulation parameters loaded from configuration.
type Config struct {
	// FloorFraction is the share of capacity below which discharge stops.
	// Nil means the 20% default; an explicit 0 disables the floor.
	FloorFraction *float64 `json:"floor_fraction" yaml:"floor_fraction"`
	// StepMinutes is the default simulation step length.
	StepMinutes int `json:"step_minutes" yaml:"step_minutes"`
}

// SetDefaults applies the 20% floor and a five minute step.
func (c *Config) SetDefaults() {
	if c.FloorFraction == nil {
		f := model.DefaultFloorFraction
		c.FloorFraction = &f
	}
	if c.StepMinutes == 0 {
		c.StepMinutes = 5
	}
}

// Validate checks the configured values.
func (c Config) Validate() error {
	if f := c.Floor(); f < 0 || f >= 1 {
		return fmt.Errorf("floor_fraction must be in [0,1), got %v", f)
	}
	if c.StepMinutes <= 0 {
		return fmt.Errorf("step_minutes must be positive")
	}
	return nil
}

// Floor returns the configured floor fraction or the default when unset.
func (c Config) Floor() float64 {
	if c.FloorFraction == nil {
		return model.DefaultFloorFraction
	}
	return *c.FloorFraction
}

// Step returns the configured step length.
func (c Config) Step() time.Duration {
	return time.Duration(c.StepMinutes) * time.Minute
}

// DeltaHours returns the configured step length in hours.
func (c Config) DeltaHours() float64 {
	return c.Step().Hours()
}
