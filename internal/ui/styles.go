// Package ui holds terminal styles for run summaries.
package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	ColorBlue   = lipgloss.Color("63")
	ColorPurple = lipgloss.Color("141")
	ColorGreen  = lipgloss.Color("42")
	ColorRed    = lipgloss.Color("196")
	ColorGray   = lipgloss.Color("240")
)

// Styles is a style set bound to one output.
type Styles struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
	Label   lipgloss.Style
}

// NewStyles returns colored styles when w is a terminal and plain ones
// otherwise, so logs and redirected output stay free of escape codes.
func NewStyles(w io.Writer) Styles {
	if !IsTerminal(w) {
		return Styles{
			Title:   lipgloss.NewStyle(),
			Success: lipgloss.NewStyle(),
			Error:   lipgloss.NewStyle(),
			Help:    lipgloss.NewStyle(),
			Label:   lipgloss.NewStyle(),
		}
	}

	r := lipgloss.NewRenderer(w)
	return Styles{
		Title:   r.NewStyle().Bold(true).Foreground(ColorPurple),
		Success: r.NewStyle().Bold(true).Foreground(ColorGreen),
		Error:   r.NewStyle().Bold(true).Foreground(ColorRed),
		Help:    r.NewStyle().Foreground(ColorGray),
		Label:   r.NewStyle().Foreground(ColorBlue),
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
