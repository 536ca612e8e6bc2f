package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Styles holds the lipgloss styles used by todoctl. The zero value renders
// plain text.
type Styles struct {
	enabled bool

	Header  lipgloss.Style
	ID      lipgloss.Style
	Overdue lipgloss.Style
	Done    lipgloss.Style
	High    lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
}

// NewStyles returns colored styles when enabled and plain ones otherwise.
func NewStyles(enabled bool) Styles {
	if !enabled {
		return Styles{}
	}
	return Styles{
		enabled: true,
		Header:  lipgloss.NewStyle().Bold(true),
		ID:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		Overdue: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Done:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		High:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Label:   lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

// Enabled reports whether the styles emit ANSI sequences.
func (s Styles) Enabled() bool {
	return s.enabled
}

// Render applies style only when styling is enabled.
func (s Styles) Render(style lipgloss.Style, value string) string {
	if !s.enabled || value == "" {
		return value
	}
	return style.Render(value)
}

// ColorEnabled reports whether f is a terminal that should get color.
// NO_COLOR and TERM=dumb turn color off.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of f, or fallback when f is not a terminal.
func TerminalWidth(f *os.File, fallback int) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
