package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/tubecycle/tubecycle/color"
	"github.com/tubecycle/tubecycle/style"
)

// statefulKeymap holds every binding; help() picks the ones relevant to the current state.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	confirm, back,
	acceptSearchSuggestion, showPinned,
	nextPage, prevPage,
	pin, openURL,
	remove, clearAll,
	hold, autoCycle,
	playLonger, playShorter,
	pauseLonger, pauseShorter,
	up, down, left, right,
	top, bottom,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp(style.Fg(color.Orange)("enter"), style.Fg(color.Orange)("play")),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		acceptSearchSuggestion: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "accept suggestion"),
		),
		showPinned: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "pinned videos"),
		),
		nextPage: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next page"),
		),
		prevPage: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "previous page"),
		),
		pin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pin"),
		),
		openURL: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in browser"),
		),
		remove: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "unpin"),
		),
		clearAll: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "unpin all"),
		),
		hold: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "hold/release"),
		),
		autoCycle: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "auto cycle on/off"),
		),
		playLonger: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "play +1s"),
		),
		playShorter: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "play -1s"),
		),
		pauseLonger: key.NewBinding(
			key.WithKeys("}"),
			key.WithHelp("}", "pause +1s"),
		),
		pauseShorter: key.NewBinding(
			key.WithKeys("{"),
			key.WithHelp("{", "pause -1s"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "left"),
		),
		right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "right"),
		),
		top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case loadingState:
		return to2(h(k.forceQuit, k.back))
	case searchState:
		search := withDescription(k.confirm, "search")
		return to2(h(search, k.acceptSearchSuggestion, k.showPinned, k.forceQuit))
	case resultsState:
		pin := withDescription(k.pin, "pin/unpin")
		return h(k.confirm, k.nextPage, k.prevPage, k.back), h(k.confirm, k.nextPage, k.prevPage, pin, k.openURL, k.back)
	case pinnedState:
		return h(k.confirm, k.remove, k.back), h(k.confirm, k.remove, k.clearAll, k.openURL, k.back)
	case playState:
		pin := withDescription(k.pin, "pin/unpin")
		return h(k.hold, k.autoCycle, k.back),
			h(k.hold, k.autoCycle, k.playShorter, k.playLonger, k.pauseShorter, k.pauseLonger, pin, k.openURL, k.back)
	case errorState:
		return to2(h(k.back, k.quit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:             k.up,
		CursorDown:           k.down,
		NextPage:             k.right,
		PrevPage:             k.left,
		GoToStart:            k.top,
		GoToEnd:              k.bottom,
		ClearFilter:          k.back,
		CancelWhileFiltering: k.back,
		AcceptWhileFiltering: k.confirm,
		ShowFullHelp:         k.showHelp,
		CloseFullHelp:        k.showHelp,
		Quit:                 k.quit,
		ForceQuit:            k.forceQuit,
	}
}

func withDescription(k key.Binding, description string) key.Binding {
	return key.NewBinding(
		key.WithKeys(k.Keys()...),
		key.WithHelp(k.Help().Key, description),
	)
}
