package tui

import (
	"fmt"
	"strings"

	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/tubecycle/tubecycle/internal/ui"
	"github.com/tubecycle/tubecycle/log"
	"github.com/tubecycle/tubecycle/open"
	"github.com/tubecycle/tubecycle/pin"
	"github.com/tubecycle/tubecycle/query"
	"github.com/tubecycle/tubecycle/youtube"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if uiCmd := b.notifier.Update(msg); uiCmd != nil {
		cmd = uiCmd
	}

	switch msg := msg.(type) {
	case error:
		b.stopLoading()
		b.raiseError(msg)
		return b, cmd
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case snapshotMsg:
		if !b.current(msg.id) {
			return b, cmd
		}
		b.session.snapshot = msg.snapshot
		return b, tea.Batch(cmd, b.waitForSnapshot(b.session))
	case positionMsg:
		if !b.current(msg.id) {
			return b, cmd
		}
		b.session.pos, b.session.duration = msg.pos, msg.duration
		return b, tea.Batch(cmd, b.waitForPosition(b.session))
	case sessionStartedMsg:
		// the user left the loading screen before the player came up
		if b.state != loadingState {
			msg.session.close()
			return b, cmd
		}
	case mpvExitMsg:
		if !b.current(msg.id) {
			return b, cmd
		}
		b.endSession()
		if b.state == playState {
			b.previousState()
		}
		return b, tea.Batch(cmd, ui.Notify("Player exited"))
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}

		// keys other than back are ignored while a command is in flight
		if b.busy && b.state != loadingState && b.state != errorState {
			return b, cmd
		}

		if bubblesKey.Matches(msg, b.keymap.back) {
			onListBack := func(l *list.Model) tea.Cmd {
				l.ResetSelected()
				return tea.Batch(cmd, l.NewStatusMessage(""))
			}

			switch b.state {
			case searchState:
				b.inputC.SetValue("")
				b.searchSuggestion = mo.None[string]()
			case resultsState:
				cmd = onListBack(&b.resultsC)
			case pinnedState:
				cmd = onListBack(&b.pinnedC)
			case playState:
				b.endSession()
			}

			b.previousState()
			b.stopLoading()
			return b, cmd
		}
	}

	var stateCmd tea.Cmd
	switch b.state {
	case loadingState:
		_, stateCmd = b.updateLoading(msg)
	case searchState:
		_, stateCmd = b.updateSearch(msg)
	case resultsState:
		_, stateCmd = b.updateResults(msg)
	case pinnedState:
		_, stateCmd = b.updatePinned(msg)
	case playState:
		_, stateCmd = b.updatePlay(msg)
	case errorState:
		_, stateCmd = b.updateError(msg)
	}

	return b, tea.Batch(cmd, stateCmd)
}

// current reports whether a session message belongs to the running session.
func (b *statefulBubble) current(id int) bool {
	return b.session != nil && b.session.id == id
}

func (b *statefulBubble) updateLoading(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case searchResultMsg:
		b.page = msg.page
		cmd = b.resultsC.SetItems(videoItems(msg.page.Videos))
		b.resultsC.ResetSelected()
		b.resultsC.Title = fmt.Sprintf("Results for %q", msg.page.Query)
		b.stopLoading()

		// paging replaces the results view instead of stacking another one
		if b.statesHistory.Peek() == resultsState {
			b.previousState()
		} else {
			b.newState(resultsState)
		}
		return b, cmd
	case *youtube.Video:
		b.progressStatus = "Starting player..."
		return b, b.play(msg, b.timingFor(msg))
	case sessionStartedMsg:
		b.endSession()
		b.session = msg.session
		b.session.snapshot = msg.session.cycle.Snapshot()
		b.stopLoading()
		b.newState(playState)
		return b, tea.Batch(
			b.waitForSnapshot(b.session),
			b.waitForPosition(b.session),
			b.waitForMpvExit(b.session),
		)
	}

	b.spinnerC, cmd = b.spinnerC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm) && strings.TrimSpace(b.inputC.Value()) != "":
			return b, b.submitSearch(strings.TrimSpace(b.inputC.Value()))
		case bubblesKey.Matches(msg, b.keymap.acceptSearchSuggestion) && b.searchSuggestion.IsPresent():
			b.inputC.SetValue(b.searchSuggestion.MustGet())
			b.searchSuggestion = mo.None[string]()
			b.inputC.SetCursor(len(b.inputC.Value()))
			return b, nil
		case bubblesKey.Matches(msg, b.keymap.showPinned):
			cmd, err := b.loadPinned()
			if err != nil {
				b.raiseError(err)
				return b, nil
			}
			b.newState(pinnedState)
			return b, cmd
		}
	}

	b.inputC, cmd = b.inputC.Update(msg)

	if b.inputC.Value() != "" {
		if suggestion, ok := query.Suggest(b.inputC.Value()).Get(); ok && suggestion != b.inputC.Value() {
			b.searchSuggestion = mo.Some(suggestion)
		} else {
			b.searchSuggestion = mo.None[string]()
		}
	} else if b.searchSuggestion.IsPresent() {
		b.searchSuggestion = mo.None[string]()
	}

	return b, cmd
}

// submitSearch plays a pasted video link directly and searches for anything else.
func (b *statefulBubble) submitSearch(input string) tea.Cmd {
	if err := b.ensureClient(); err != nil {
		b.raiseError(err)
		return nil
	}

	if strings.Contains(input, "youtu") {
		if id, err := youtube.ParseVideoID(input); err == nil {
			return tea.Batch(b.startLoading("Looking up "+id+"..."), b.lookup(id))
		}
	}

	go func() {
		if err := query.Remember(input, 1); err != nil {
			log.Warnf("remember query: %v", err)
		}
	}()

	b.query = input
	return tea.Batch(b.startLoading(fmt.Sprintf("Searching for %s...", input)), b.search(input, ""))
}

func (b *statefulBubble) updateResults(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		item, _ := b.resultsC.SelectedItem().(*listItem)

		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm) && item != nil:
			return b, b.startPlaying(item.video())
		case bubblesKey.Matches(msg, b.keymap.nextPage) && b.page != nil && b.page.HasNext():
			return b, tea.Batch(b.startLoading("Loading next page..."), b.search(b.query, b.page.NextPageToken))
		case bubblesKey.Matches(msg, b.keymap.prevPage) && b.page != nil && b.page.HasPrev():
			return b, tea.Batch(b.startLoading("Loading previous page..."), b.search(b.query, b.page.PrevPageToken))
		case bubblesKey.Matches(msg, b.keymap.pin) && item != nil:
			pinned, err := b.togglePin(item.video(), b.timing)
			if err != nil {
				return b, ui.NotifyError(err)
			}
			item.marked = pinned
			return b, ui.Notify(pinnedText(pinned))
		case bubblesKey.Matches(msg, b.keymap.openURL) && item != nil:
			return b, b.openURL(item.video())
		}
	}

	b.resultsC, cmd = b.resultsC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updatePinned(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		item, _ := b.pinnedC.SelectedItem().(*listItem)

		switch {
		case bubblesKey.Matches(msg, b.keymap.confirm) && item != nil:
			return b, b.startPlaying(item.video())
		case bubblesKey.Matches(msg, b.keymap.remove) && item != nil:
			if err := pin.Unpin(item.video().ID); err != nil {
				return b, ui.NotifyError(err)
			}
			b.pinnedC.RemoveItem(b.pinnedC.Index())
			return b, ui.Notify(pinnedText(false))
		case bubblesKey.Matches(msg, b.keymap.clearAll) && len(b.pinnedC.Items()) > 0:
			if err := pin.Clear(); err != nil {
				return b, ui.NotifyError(err)
			}
			return b, tea.Batch(b.pinnedC.SetItems(nil), ui.Notify("Removed all pins"))
		case bubblesKey.Matches(msg, b.keymap.openURL) && item != nil:
			return b, b.openURL(item.video())
		}
	}

	b.pinnedC, cmd = b.pinnedC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) startPlaying(video *youtube.Video) tea.Cmd {
	return tea.Batch(b.startLoading("Starting player..."), b.play(video, b.timingFor(video)))
}

func (b *statefulBubble) openURL(video *youtube.Video) tea.Cmd {
	if err := open.Start(video.URL()); err != nil {
		return ui.NotifyError(err)
	}
	return ui.Notify("Opened in browser")
}

func (b *statefulBubble) updatePlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	s := b.session
	if s == nil {
		return b, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	adjust := func(play, pause float64) tea.Cmd {
		cfg, err := s.adjustTiming(play, pause)
		if err != nil {
			return ui.NotifyError(err)
		}
		return ui.Notify(cfg.String())
	}

	switch {
	case bubblesKey.Matches(keyMsg, b.keymap.hold):
		return b, s.toggleHold()
	case bubblesKey.Matches(keyMsg, b.keymap.autoCycle):
		if s.cycle.Snapshot().Armed {
			s.cycle.Cancel()
			return b, ui.Notify("Auto cycle off")
		}
		if err := s.cycle.Arm(s.timing); err != nil {
			return b, ui.NotifyError(err)
		}
		return b, ui.Notify("Auto cycle on")
	case bubblesKey.Matches(keyMsg, b.keymap.playLonger):
		return b, adjust(1, 0)
	case bubblesKey.Matches(keyMsg, b.keymap.playShorter):
		return b, adjust(-1, 0)
	case bubblesKey.Matches(keyMsg, b.keymap.pauseLonger):
		return b, adjust(0, 1)
	case bubblesKey.Matches(keyMsg, b.keymap.pauseShorter):
		return b, adjust(0, -1)
	case bubblesKey.Matches(keyMsg, b.keymap.pin):
		pinned, err := b.togglePin(s.video, s.timing)
		if err != nil {
			return b, ui.NotifyError(err)
		}
		return b, ui.Notify(pinnedText(pinned))
	case bubblesKey.Matches(keyMsg, b.keymap.openURL):
		return b, b.openURL(s.video)
	case bubblesKey.Matches(keyMsg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	return b, nil
}

func (b *statefulBubble) updateError(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && bubblesKey.Matches(msg, b.keymap.quit) {
		return b, tea.Quit
	}
	return b, nil
}

func pinnedText(pinned bool) string {
	if pinned {
		return "Pinned"
	}
	return "Unpinned"
}
