// Package player drives an external media player. The primary backend is mpv via its JSON-IPC interface.
package player

import "errors"

// ErrUnavailable is returned when the player process is not running or does not answer IPC.
var ErrUnavailable = errors.New("player unavailable")

// State is the playback state reported by the player.
type State int

const (
	StateUnknown State = iota
	StatePlaying
	StatePaused
	// StateStopped means the file ended or the player went idle.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Player encapsulates the capabilities of a playback backend.
type Player interface {
	// Play starts playback of the given URL.
	// If a player instance is already running, the file is loaded into it.
	Play(url string, title string) error

	// Pause suspends playback. Returns ErrUnavailable when the player is gone.
	Pause() error

	// Resume continues playback. Returns ErrUnavailable when the player is gone.
	Resume() error

	// OnStateChange registers fn for deduplicated state notifications.
	// Callbacks are never invoked from inside Pause or Resume.
	OnStateChange(fn func(State)) (unsubscribe func())

	// GetTimePos retrieves the current playback position in seconds.
	GetTimePos() (float64, error)

	// GetDuration retrieves the length of the active media in seconds.
	GetDuration() (float64, error)

	IsRunning() bool

	// Wait returns a channel that is closed when the playback session terminates.
	Wait() <-chan struct{}

	Close() error

	// Socket retrieves the IPC endpoint.
	Socket() string

	// StartIPCTicker polls playback position once a second and passes it to callback.
	StartIPCTicker(callback func(timePos int, duration int))

	StopIPCTicker()
}
