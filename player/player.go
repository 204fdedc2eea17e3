// Package player drives an external media player as the playback element of a session.
// The primary implementation targets mpv through its JSON-IPC interface; IINA is supported
// through the mpv core it embeds.
package player

import (
	"fmt"
	"strings"
)

// Available returns the names of the supported players.
func Available() []string {
	return []string{"mpv", "iina"}
}

// New returns the player registered under name, not yet started.
func New(name string, opts Options) (*MPV, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mpv":
		return NewMPV(opts), nil
	case "iina":
		return NewIINA(opts), nil
	default:
		return nil, fmt.Errorf("unknown player %q, available: %s", name, strings.Join(Available(), ", "))
	}
}
