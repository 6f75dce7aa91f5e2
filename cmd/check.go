package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/tubecycle/tubecycle/constant"
	"github.com/tubecycle/tubecycle/icon"
	"github.com/tubecycle/tubecycle/key"
	"github.com/tubecycle/tubecycle/style"
)

// CheckDependencies exits when the player or a youtube-dl compatible extractor is missing from PATH.
func CheckDependencies() {
	binary := viper.GetString(key.PlayerBinary)
	if _, err := exec.LookPath(binary); err != nil {
		printMissingDependencyError(binary, installCommand("mpv"))
		os.Exit(1)
	}

	found := lo.ContainsBy([]string{"yt-dlp", "youtube-dl"}, func(name string) bool {
		_, err := exec.LookPath(name)
		return err == nil
	})
	if !found {
		printMissingDependencyError("yt-dlp", installCommand("yt-dlp"))
		os.Exit(1)
	}
}

func installCommand(pkg string) string {
	switch runtime.GOOS {
	case constant.Darwin:
		return "brew install " + pkg
	case constant.Linux:
		return "sudo apt install " + pkg
	case constant.Windows:
		return "scoop install " + pkg
	default:
		return ""
	}
}

func printMissingDependencyError(dep, installCmd string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.ErrorColor).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
