// Package tui renders the playback overlay of a session in the terminal.
package tui

import (
	"github.com/kinogram/kino/session"
	tea "github.com/charmbracelet/bubbletea"
)

// Controller is the part of a session the overlay drives.
type Controller interface {
	Snapshot() session.Snapshot
	Updates() <-chan session.Snapshot

	TogglePlay()
	SeekBy(delta float64)
	SetVolume(v float64)
	ToggleMute()
	ToggleFullscreen()
	SetPlaybackRate(rate float64) error
	SwitchQuality(label string) error
	Retry() error
	OnControlInteraction()
}

// Options encapsulates the runtime configuration for the overlay.
type Options struct {
	// Rates are the playback rates cycled with [ and ].
	Rates []float64
	// SeekStep is the seek distance in seconds of the arrow keys.
	SeekStep float64
	// VolumeStep is the volume change of the arrow keys.
	VolumeStep float64
	// Done, when closed, ends the overlay. Typically the player process exit.
	Done <-chan struct{}
}

// Run executes the overlay until the user quits, the session closes or Done fires.
func Run(ctrl Controller, options *Options) error {
	bubble := newBubble(ctrl, options)
	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
