package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/filmscout/filmscout/icon"
	"github.com/filmscout/filmscout/key"
	"github.com/filmscout/filmscout/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/spf13/viper"
)

// CheckDependencies verifies that a Chromium executable is configured or can be found.
func CheckDependencies() {
	if viper.GetString(key.BrowserBin) != "" {
		return
	}

	if _, ok := launcher.LookPath(); !ok {
		printMissingDependencyError("chromium")
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install --cask chromium"
	case "linux":
		installCmd = "sudo apt install chromium"
	case "windows":
		installCmd = "scoop install chromium"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("No '%s' executable was found in your PATH. Set %s to point at one.", dep, key.BrowserBin))

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
