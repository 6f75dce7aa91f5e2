package timer

import (
	"fmt"
	"math"
	"time"
)

// Config holds the durations of the two alternating phases.
type Config struct {
	Play  time.Duration
	Pause time.Duration
}

// FromSeconds builds a Config from fractional seconds.
// Non-finite input and values beyond the range of time.Duration yield zero
// durations, which Validate rejects.
func FromSeconds(play, pause float64) Config {
	return Config{
		Play:  seconds(play),
		Pause: seconds(pause),
	}
}

func seconds(s float64) time.Duration {
	ns := s * float64(time.Second)
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
	if math.IsNaN(ns) || math.Abs(ns) >= float64(math.MaxInt64) {
		return 0
	}
	return time.Duration(ns)
}

// Validate reports ErrInvalidConfig unless both durations are positive.
func (c Config) Validate() error {
	if c.Play <= 0 || c.Pause <= 0 {
		return fmt.Errorf("%w: play %s and pause %s must be positive", ErrInvalidConfig, c.Play, c.Pause)
	}
	return nil
}

func (c Config) PlaySeconds() float64 {
	return c.Play.Seconds()
}

func (c Config) PauseSeconds() float64 {
	return c.Pause.Seconds()
}

func (c Config) String() string {
	return fmt.Sprintf("play %s / pause %s", c.Play, c.Pause)
}
