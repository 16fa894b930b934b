// Package cmd implements the command-line interface for playnorm.
package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/anisan-cli/playnorm/constant"
	"github.com/anisan-cli/playnorm/icon"
	"github.com/anisan-cli/playnorm/style"
	"github.com/charmbracelet/lipgloss"
)

// CheckDependencies exits with installation advice when mpv is not in the PATH.
func CheckDependencies() {
	_, err := exec.LookPath(constant.PlayerBinary)
	if err != nil {
		printMissingDependencyError(constant.PlayerBinary)
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	installCmd := constant.InstallHints[runtime.GOOS]

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
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
