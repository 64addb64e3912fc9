// Package tui implements the interactive record search for scout.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Tokyo Night color palette.
var (
	colorGreen  = lipgloss.Color("#9ece6a") // green
	colorYellow = lipgloss.Color("#e0af68") // yellow
	colorRed    = lipgloss.Color("#f7768e") // red
	colorBlue   = lipgloss.Color("#7aa2f7") // blue
	colorGray   = lipgloss.Color("#565f89") // comment
	colorWhite  = lipgloss.Color("#c0caf5") // foreground
	colorMuted  = lipgloss.Color("#3b4261") // selection
)

// Styles used for rendering the search view.
var (
	// Title style for the view header.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue).
			PaddingLeft(1)

	// Result count next to the title.
	countStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	// Selected item style.
	selectedStyle = lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true)

	// Normal item style (no color, uses terminal default).
	normalStyle = lipgloss.NewStyle()

	// Secondary line under each record.
	descStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	// Placeholder text shown instead of the list.
	hintStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true).
			PaddingLeft(2)

	// Help line at the bottom.
	helpStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			PaddingLeft(1)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorBlue)
)

// Status line styles.
var (
	statusInfoStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			PaddingLeft(1)

	statusErrorStyle = lipgloss.NewStyle().
				Foreground(colorRed).
				PaddingLeft(1)

	statusTitleStyle = lipgloss.NewStyle().
				Foreground(colorYellow).
				Bold(true)
)

// Modal styles.
var (
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	modalHelpStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			MarginTop(1)

	previewDividerStyle = lipgloss.NewStyle().
				Foreground(colorMuted)

	previewScrollStyle = lipgloss.NewStyle().
				Foreground(colorGray)
)

// Icons and symbols.
const (
	iconDot = "•" // Unicode bullet separator
)
