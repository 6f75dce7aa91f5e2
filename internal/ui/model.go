// Package ui renders short-lived status notifications beneath TUI views.
package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tubecycle/tubecycle/color"
	"github.com/tubecycle/tubecycle/style"
)

// Lifetime is how long a notification stays visible.
const Lifetime = 3 * time.Second

// NotificationMsg carries the text to show.
type NotificationMsg struct {
	Text  string
	Error bool
	id    int
}

// clearMsg clears the notification with a matching id only, so newer notifications survive older timers.
type clearMsg struct {
	id int
}

// Model holds the current notification.
type Model struct {
	current NotificationMsg
	nextID  int
}

// Notify returns a command showing text.
func Notify(text string) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg{Text: text}
	}
}

// NotifyError returns a command showing err in error colors.
func NotifyError(err error) tea.Cmd {
	return func() tea.Msg {
		return NotificationMsg{Text: err.Error(), Error: true}
	}
}

// Update consumes notification messages and schedules their removal.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case NotificationMsg:
		m.nextID++
		msg.id = m.nextID
		m.current = msg

		id := msg.id
		return tea.Tick(Lifetime, func(time.Time) tea.Msg {
			return clearMsg{id: id}
		})
	case clearMsg:
		if msg.id == m.current.id {
			m.current = NotificationMsg{}
		}
	}
	return nil
}

// Text is the visible notification, empty when none.
func (m *Model) Text() string {
	return m.current.Text
}

// View appends the notification to the last line of content.
func (m *Model) View(content string) string {
	if m.current.Text == "" {
		return content
	}

	render := style.Faint
	if m.current.Error {
		render = style.Fg(color.Red)
	}

	lines := strings.Split(content, "\n")
	lines[len(lines)-1] += "  " + render(m.current.Text)
	return strings.Join(lines, "\n")
}
