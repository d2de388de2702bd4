package junction

import (
	"fmt"
	"time"
)

// Default dwell durations applied to a newly created intersection.
const (
	DefaultGreenDuration  = 30 * time.Second
	DefaultYellowDuration = 5 * time.Second
	DefaultRedDuration    = 35 * time.Second
)

// TimingConfig holds the dwell durations for an intersection. Green and
// Yellow gate the scheduler's phase lengths. Red is informational: red is
// always asserted as the complement of the opposing axis's active phase, so
// the scheduler never dwells in an all-red phase. The field documents the
// implied length of the other axis's green plus yellow and is kept for
// API compatibility.
type TimingConfig struct {
	Green  time.Duration
	Yellow time.Duration
	Red    time.Duration
}

// DefaultTimingConfig returns the standard 30s/5s/35s configuration
func DefaultTimingConfig() TimingConfig {
	return TimingConfig{
		Green:  DefaultGreenDuration,
		Yellow: DefaultYellowDuration,
		Red:    DefaultRedDuration,
	}
}

// Validate returns an invalid-configuration error unless all three
// durations are strictly positive.
func (c TimingConfig) Validate() error {
	if c.Green <= 0 {
		return NewInvalidConfigurationError(fmt.Sprintf("green duration must be positive, got %v", c.Green))
	}
	if c.Yellow <= 0 {
		return NewInvalidConfigurationError(fmt.Sprintf("yellow duration must be positive, got %v", c.Yellow))
	}
	if c.Red <= 0 {
		return NewInvalidConfigurationError(fmt.Sprintf("red duration must be positive, got %v", c.Red))
	}
	return nil
}
