// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui holds the interactive terminal screens: the document chat and
// the destination-format picker.
package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette (256-color).
var (
	ClrBrand  = lipgloss.Color("203") // red
	ClrMuted  = lipgloss.Color("245") // gray
	ClrSubtle = lipgloss.Color("242") // darker gray
	ClrGreen  = lipgloss.Color("114")
	ClrRed    = lipgloss.Color("196")
	ClrCyan   = lipgloss.Color("81")
)

// Reusable styles.
var (
	Bold     = lipgloss.NewStyle().Bold(true)
	Brand    = lipgloss.NewStyle().Foreground(ClrBrand).Bold(true)
	Muted    = lipgloss.NewStyle().Foreground(ClrMuted)
	Subtle   = lipgloss.NewStyle().Foreground(ClrSubtle)
	Green    = lipgloss.NewStyle().Foreground(ClrGreen)
	Red      = lipgloss.NewStyle().Foreground(ClrRed)
	Cyan     = lipgloss.NewStyle().Foreground(ClrCyan)
	Selected = lipgloss.NewStyle().Foreground(ClrBrand).Bold(true)
	PanelBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ClrSubtle).Padding(0, 1)
	ErrorBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ClrRed).Padding(0, 1)
)

// Prompt renders a prompt like "ask> ".
func Prompt(label string) string {
	return Brand.Render(label+">") + " "
}

// Error formats an error line.
func Error(msg string) string {
	return Red.Render("error: " + msg)
}

// Errorf formats an error with printf-style formatting.
func Errorf(format string, a ...any) string {
	return Error(fmt.Sprintf(format, a...))
}

// Success formats a success line.
func Success(msg string) string {
	return Green.Render("✓ " + msg)
}

// Dim renders muted text.
func Dim(text string) string {
	return Subtle.Render(text)
}

// Panel renders text in a bordered box. Failures use the error border.
func Panel(text string, failed bool) string {
	if failed {
		return ErrorBox.Render(text)
	}
	return PanelBox.Render(text)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
