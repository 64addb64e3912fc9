// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Tokyo Night color palette.
var (
	ColorGreen  = lipgloss.Color("#9ece6a")
	ColorYellow = lipgloss.Color("#e0af68")
	ColorRed    = lipgloss.Color("#f7768e")
	ColorBlue   = lipgloss.Color("#7aa2f7")
	ColorGray   = lipgloss.Color("#565f89")
	ColorWhite  = lipgloss.Color("#c0caf5")
)

// Banner is printed above the init wizard.
const Banner = `
 ╔═╗╔═╗╔═╗╦ ╦╔╦╗
 ╚═╗║  ║ ║║ ║ ║
 ╚═╝╚═╝╚═╝╚═╝ ╩ `

// BannerStyle styles the ASCII art banner.
var BannerStyle = lipgloss.NewStyle().
	Foreground(ColorBlue).
	Bold(true)

// DividerStyle styles horizontal dividers and secondary text.
var DividerStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// FormTheme is the huh theme used by interactive prompts.
func FormTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(ColorBlue)
	t.Focused.Title = t.Focused.Title.Foreground(ColorBlue).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(ColorGray)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorRed)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorRed)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorBlue)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(ColorYellow)
	t.Focused.TextInput.Placeholder = t.Focused.TextInput.Placeholder.Foreground(ColorGray)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(ColorBlue)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Foreground(ColorWhite).Background(ColorBlue)
	t.Focused.BlurredButton = t.Focused.BlurredButton.Foreground(ColorGray)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())

	return t
}
