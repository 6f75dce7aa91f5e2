package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"github.com/tubecycle/tubecycle/icon"
	"github.com/tubecycle/tubecycle/key"
	"github.com/tubecycle/tubecycle/pin"
	"github.com/tubecycle/tubecycle/style"
	"github.com/tubecycle/tubecycle/youtube"
)

// listItem adapts videos and pins to list.Item.
type listItem struct {
	internal any
	marked   bool
}

func (t *listItem) Title() string {
	var title string

	switch e := t.internal.(type) {
	case *youtube.Video:
		title = e.Title
	case *pin.PinnedVideo:
		title = e.Title
	case string:
		title = e
	}

	if title != "" && t.marked {
		title = fmt.Sprintf("%s %s", title, lipgloss.NewStyle().Foreground(style.AccentColor).Render(icon.Get(icon.Pin)))
	}
	return title
}

func (t *listItem) Description() string {
	var parts []string

	switch e := t.internal.(type) {
	case *youtube.Video:
		parts = append(parts, lipgloss.NewStyle().Foreground(style.Subtext).Render(e.Channel))
		if !e.PublishedAt.IsZero() {
			parts = append(parts, lipgloss.NewStyle().Foreground(style.FaintColor).Render(humanize.Time(e.PublishedAt)))
		}
		if viper.GetBool(key.TUIShowURLs) {
			parts = append(parts, style.Faint(e.URL()))
		}
	case *pin.PinnedVideo:
		parts = append(parts,
			lipgloss.NewStyle().Foreground(style.Green).Render(fmt.Sprintf("play %gs", e.PlaySeconds)),
			lipgloss.NewStyle().Foreground(style.Red).Render(fmt.Sprintf("pause %gs", e.PauseSeconds)),
		)
		if !e.PinnedAt.IsZero() {
			parts = append(parts, lipgloss.NewStyle().Foreground(style.FaintColor).Render(humanize.Time(e.PinnedAt)))
		}
		if viper.GetBool(key.TUIShowURLs) {
			parts = append(parts, style.Faint(youtube.WatchURL(e.VideoID)))
		}
	}

	return strings.Join(parts, " • ")
}

func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *youtube.Video:
		return e.Title + " " + e.Channel
	case *pin.PinnedVideo:
		return e.Title
	case string:
		return e
	default:
		return ""
	}
}

// video returns the item as a playable video.
func (t *listItem) video() *youtube.Video {
	switch e := t.internal.(type) {
	case *youtube.Video:
		return e
	case *pin.PinnedVideo:
		return &youtube.Video{ID: e.VideoID, Title: e.Title}
	default:
		return nil
	}
}
