package cmd

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/kinogram/kino/constant"
	"github.com/kinogram/kino/icon"
	"github.com/kinogram/kino/style"
	"github.com/charmbracelet/lipgloss"
)

// installHints maps a player binary to its install command per platform.
var installHints = map[string]map[string]string{
	"mpv": {
		constant.Darwin:  "brew install mpv",
		constant.Linux:   "sudo apt install mpv",
		constant.Windows: "scoop install mpv",
	},
	"iina-cli": {
		constant.Darwin: "brew install --cask iina",
	},
}

// checkPlayer verifies that the player binary is in PATH.
func checkPlayer(binary string) error {
	if _, err := exec.LookPath(binary); err != nil {
		printMissingDependencyError(binary)
		return fmt.Errorf("%s not found in PATH", binary)
	}
	return nil
}

func printMissingDependencyError(dep string) {
	installCmd := installHints[dep][runtime.GOOS]

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.Danger).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.Danger).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The media player '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd != "" {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.Accent).Bold(true).Render(installCmd))
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
