package session

import "github.com/kinogram/kino/source"

// Snapshot is the read model of a session handed to the presentation layer.
type Snapshot struct {
	SessionID       string         `json:"session_id"`
	MediaID         string         `json:"media_id"`
	Movie           source.Movie   `json:"movie"`
	Sources         source.Sources `json:"sources"`
	Quality         string         `json:"quality"`
	State           State          `json:"state"`
	Position        float64        `json:"position"`
	Duration        float64        `json:"duration"`
	Volume          float64        `json:"volume"`
	Muted           bool           `json:"muted"`
	Fullscreen      bool           `json:"fullscreen"`
	Rate            float64        `json:"rate"`
	ControlsVisible bool           `json:"controls_visible"`
	LastPersisted   float64        `json:"last_persisted"`
	// Switching is true while a quality switch waits for the new source.
	Switching bool   `json:"switching"`
	Error     string `json:"error,omitempty"`

	Err error `json:"-"`
}

// AudibleVolume is the volume actually applied to the element.
func (s Snapshot) AudibleVolume() float64 {
	if s.Muted {
		return 0
	}
	return s.Volume
}

// Progress returns the watched fraction in [0,1], or 0 while the duration is unknown.
func (s Snapshot) Progress() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return s.Position / s.Duration
}
