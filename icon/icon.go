// Package icon renders UI symbols in the variant chosen by the icons.variant setting.
package icon

import (
	"github.com/spf13/viper"
	"github.com/tubecycle/tubecycle/key"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	squares = "squares"
)

// AvailableVariants lists the accepted icons.variant values.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, squares}
}

// Icon identifies a symbol in the registry.
type Icon int

const (
	Fail Icon = iota
	Success
	Progress
	Search
	Pin
	Play
	Pause
	Hold
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	squares string
}

func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case squares:
		return d.squares
	default:
		return ""
	}
}

var icons = map[Icon]*iconDef{
	Fail:     {emoji: "💀", nerd: "\uf00d", plain: "Error:", squares: "🟥"},
	Success:  {emoji: "🎉", nerd: "\uf00c", plain: "Success:", squares: "🟩"},
	Progress: {emoji: "👾", nerd: "\uf110", plain: "...", squares: "🟪"},
	Search:   {emoji: "🔍", nerd: "\uf002", plain: "?", squares: "🟦"},
	Pin:      {emoji: "📌", nerd: "\uf08d", plain: "*", squares: "🟨"},
	Play:     {emoji: "▶️", nerd: "\uf04b", plain: ">", squares: "🟩"},
	Pause:    {emoji: "⏸️", nerd: "\uf04c", plain: "||", squares: "🟧"},
	Hold:     {emoji: "✋", nerd: "\uf256", plain: "[hold]", squares: "🟫"},
}

// Get returns the rendered symbol for i.
func Get(i Icon) string {
	return icons[i].Get()
}
