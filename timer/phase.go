package timer

import (
	"time"

	"github.com/samber/mo"
)

// Phase is the position of the timer in the pause/resume cycle.
type Phase int

const (
	Idle Phase = iota
	// Playing is entered the instant playback is (re)started by the cycle.
	Playing
	CountingDownToPause
	// Paused is entered the instant the pause action is issued.
	Paused
	CountingDownToResume
	// Held is a manual pause that suspends the cycle until Release.
	Held
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case CountingDownToPause:
		return "counting down to pause"
	case Paused:
		return "paused"
	case CountingDownToResume:
		return "counting down to resume"
	case Held:
		return "held"
	default:
		return "unknown"
	}
}

// Counting reports whether the phase carries a countdown.
func (p Phase) Counting() bool {
	return p == CountingDownToPause || p == CountingDownToResume
}

// Snapshot is a read-only view of the timer.
type Snapshot struct {
	Phase     Phase
	Remaining time.Duration
	Total     time.Duration
	Config    Config
	Armed     bool
}

// Countdown returns the remaining seconds of the current countdown, None outside countdowns.
func (s Snapshot) Countdown() mo.Option[float64] {
	if !s.Phase.Counting() {
		return mo.None[float64]()
	}
	return mo.Some(s.Remaining.Seconds())
}

// Progress is the elapsed fraction of the current countdown in [0, 1].
func (s Snapshot) Progress() float64 {
	if !s.Phase.Counting() || s.Total <= 0 {
		return 0
	}
	return 1 - float64(s.Remaining)/float64(s.Total)
}
