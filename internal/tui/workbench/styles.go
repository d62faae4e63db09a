// ============================================================================
// TINY - Scanner/Parser Workbench
// ============================================================================
//
// Package:     workbench
// Description: Styles for the workbench TUI
// Author:      Mike Stoffels
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package workbench

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorAccent    = lipgloss.Color("#F59E0B")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
	colorFg        = lipgloss.Color("#F9FAFB")
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	// Panels
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	FocusedPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(0, 1)

	// Diagnostics dialog
	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorError).
			Padding(0, 2)

	DialogTitleStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Bold(true)

	// Status line
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(colorFg).
			Padding(0, 1)

	StatusOKStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(colorError)

	StatusBusyStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	// Tabs
	TabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(colorMuted)

	ActiveTabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(colorPrimary).
			Bold(true).
			Underline(true)

	// Help
	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// RenderKeyHint renders a "key description" pair for the help bar
func RenderKeyHint(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}
