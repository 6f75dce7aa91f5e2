package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wrap"
	"github.com/tubecycle/tubecycle/color"
	"github.com/tubecycle/tubecycle/icon"
	"github.com/tubecycle/tubecycle/style"
	"github.com/tubecycle/tubecycle/timer"
	"github.com/tubecycle/tubecycle/util"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case searchState:
		output = b.viewSearch()
	case resultsState:
		output = listExtraPaddingStyle.Render(b.resultsC.View())
	case pinnedState:
		output = listExtraPaddingStyle.Render(b.pinnedC.View())
	case playState:
		output = b.viewPlay()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " " + b.progressStatus,
		},
	)
}

func (b *statefulBubble) viewSearch() string {
	lines := []string{
		style.Title("Search YouTube"),
		"",
		b.inputC.View(),
	}

	if suggestion, ok := b.searchSuggestion.Get(); ok {
		lines = append(lines, "", style.Faint(fmt.Sprintf("%s %s (tab)", icon.Get(icon.Search), suggestion)))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewPlay() string {
	s := b.session
	if s == nil {
		return b.renderLines(true, []string{style.Title("Now Playing")})
	}

	snap := s.snapshot
	truncate := style.Truncate(b.width)

	position := util.FormatClock(s.pos)
	if s.duration > 0 {
		position += " / " + util.FormatClock(s.duration)
	}

	cycle := "auto cycle off"
	if snap.Armed {
		cycle = "auto cycle on"
	}

	lines := []string{
		style.Title("Now Playing"),
		"",
		truncate(fmt.Sprintf("%s %s", icon.Get(icon.Play), style.Fg(color.Purple)(s.video.Title))),
	}
	if s.video.Channel != "" {
		lines = append(lines, truncate(style.Faint(s.video.Channel)))
	}

	lines = append(lines,
		"",
		truncate(lipgloss.NewStyle().Foreground(phaseColor(snap.Phase)).Render(StatusLine(snap))),
		b.progressC.ViewAs(snap.Progress()),
		"",
		style.Faint(position),
		truncate(fmt.Sprintf(
			"%s %s %s",
			style.Fg(color.Green)(fmt.Sprintf("play %gs", snap.Config.PlaySeconds())),
			style.Fg(color.Red)(fmt.Sprintf("pause %gs", snap.Config.PauseSeconds())),
			style.Faint("• "+cycle),
		)),
	)

	return b.renderLines(true, lines)
}

// StatusLine describes the cycle phase with the countdown when there is one.
func StatusLine(snap timer.Snapshot) string {
	countdown := ""
	if snap.Countdown().IsPresent() {
		countdown = " (" + util.FormatSeconds(snap.Remaining) + ")"
	}

	switch snap.Phase {
	case timer.Held:
		return icon.Get(icon.Hold) + " Holding"
	case timer.Playing, timer.CountingDownToPause:
		return icon.Get(icon.Play) + " Playing" + countdown
	case timer.Paused, timer.CountingDownToResume:
		return icon.Get(icon.Pause) + " Paused" + countdown
	default:
		if snap.Armed {
			return "Waiting for playback"
		}
		return "Initial State"
	}
}

func phaseColor(p timer.Phase) lipgloss.Color {
	switch p {
	case timer.Held:
		return style.Peach
	case timer.Playing, timer.CountingDownToPause:
		return style.Green
	case timer.Paused, timer.CountingDownToResume:
		return style.Red
	default:
		return style.Subtext
	}
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(b.lastError.Error()), b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
