// Package color holds the terminal colors used by the CLI and the player overlay.
package color

import "github.com/charmbracelet/lipgloss"

// New wraps an ANSI code or hex value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")

	HiRed    = New("9")
	HiPurple = New("13")

	Orange = New("#ffb703")
)
