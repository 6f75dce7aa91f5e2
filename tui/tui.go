package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tubecycle/tubecycle/timer"
)

// Options configures a TUI run.
type Options struct {
	// Timing is the cycle config for videos that are not pinned.
	Timing timer.Config
	// Pinned opens the pinned list instead of the search prompt.
	Pinned bool
}

// Run blocks until the user quits.
func Run(options *Options) error {
	bubble := newBubble(options)

	if options.Pinned {
		if _, err := bubble.loadPinned(); err != nil {
			return err
		}
		bubble.setState(pinnedState)
	} else {
		bubble.setState(searchState)
	}

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	bubble.endSession()
	return err
}
