// Package style composes lipgloss styles into plain string renderers.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/kinogram/kino/color"
)

// Overlay colors. Danger is used for player errors and missing dependencies.
var (
	Text   = lipgloss.Color("#cdd6f4")
	Accent = lipgloss.Color("#cba6f7")
	Danger = lipgloss.Color("#f38ba8")
)

func New() lipgloss.Style {
	return lipgloss.NewStyle()
}

func Colored(fg, bg lipgloss.Color) lipgloss.Style {
	return New().Foreground(fg).Background(bg)
}

// Fg returns a renderer with the given foreground.
func Fg(c lipgloss.Color) func(string) string {
	return func(s string) string { return Colored(c, "").Render(s) }
}

// Truncate pads or wraps the rendered string to max cells.
func Truncate(max int) func(string) string {
	return func(s string) string { return New().Width(max).Render(s) }
}

var (
	Faint = func(s string) string { return New().Faint(true).Render(s) }
	Bold  = func(s string) string { return New().Bold(true).Render(s) }
)

// Title renders the movie title banner on top of the overlay.
var Title = func(s string) string {
	return Colored(color.New("230"), color.New("62")).Padding(0, 1).Render(s)
}

var ErrorTitle = func(s string) string {
	return Colored(color.New("230"), color.Red).Padding(0, 1).Render(s)
}
