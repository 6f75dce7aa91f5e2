// Package tui provides the interactive terminal interface.
package tui

type state int

const (
	loadingState state = iota
	errorState
	searchState
	resultsState
	pinnedState
	playState
)
