package style

import "github.com/charmbracelet/lipgloss"

// Palette of the bordered notices.
var (
	Text  = lipgloss.Color("#cdd6f4")
	Red   = lipgloss.Color("#f38ba8")
	Green = lipgloss.Color("#a6e3a1")
	Mauve = lipgloss.Color("#cba6f7")

	AccentColor  = Mauve
	SuccessColor = Green
	HiRed        = Red
)
