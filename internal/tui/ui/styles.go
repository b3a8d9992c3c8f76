// Package ui provides shared styles and key bindings for the prompts.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme colors (Catppuccin Mocha inspired).
var (
	ColorPrimary   = lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"} // Blue
	ColorSecondary = lipgloss.AdaptiveColor{Light: "#7c3aed", Dark: "#cba6f7"} // Mauve
	ColorSuccess   = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"} // Green
	ColorWarning   = lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"} // Yellow
	ColorError     = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"} // Red
	ColorMuted     = lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"} // Overlay0
	ColorText      = lipgloss.AdaptiveColor{Light: "#4c4f69", Dark: "#cdd6f4"} // Text
)

// Styles contains reusable lipgloss styles for the prompts and CLI output.
type Styles struct {
	// Banner
	Banner  lipgloss.Style
	Tagline lipgloss.Style

	// Question line
	Question lipgloss.Style
	Answer   lipgloss.Style
	Hint     lipgloss.Style

	// Option lists
	Cursor         lipgloss.Style
	Option         lipgloss.Style
	OptionActive   lipgloss.Style
	OptionSelected lipgloss.Style

	// Status styles
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style

	// Help text
	Help lipgloss.Style
}

// DefaultStyles returns the default prompt styles.
func DefaultStyles() Styles {
	return Styles{
		Banner: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary),

		Tagline: lipgloss.NewStyle().
			Foreground(ColorSecondary),

		Question: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText),

		Answer: lipgloss.NewStyle().
			Foreground(ColorPrimary),

		Hint: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),

		Cursor: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),

		Option: lipgloss.NewStyle().
			Foreground(ColorText),

		OptionActive: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),

		OptionSelected: lipgloss.NewStyle().
			Foreground(ColorSuccess),

		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess),

		Warning: lipgloss.NewStyle().
			Foreground(ColorWarning),

		Error: lipgloss.NewStyle().
			Foreground(ColorError),

		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Help: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}
