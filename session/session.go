// Package session implements the playback session controller: one MediaSession per playback
// attempt, mediating between media element events, user intent and the position stores.
package session

import (
	"context"
	"time"

	"github.com/kinogram/kino/source"
	"github.com/samber/mo"
)

// Element is the underlying playback engine the session drives.
// Engine callbacks are delivered on Events and consumed by Controller.Dispatch.
type Element interface {
	// Load swaps the current source. Readiness is signalled later with a Ready event.
	Load(url string) error
	Play() error
	Pause() error
	Seek(seconds float64) error
	// SetVolume sets the audible volume in [0,1].
	SetVolume(volume float64) error
	SetFullscreen(fullscreen bool) error
	SetRate(rate float64) error
	// Events returns the inbound event stream; a nil channel means events are dispatched by the caller.
	Events() <-chan Event
	// Close releases the engine.
	Close() error
}

// Store is the local, synchronous position store. Writes never fail from the caller's view.
type Store interface {
	Get(mediaID string) mo.Option[float64]
	Set(mediaID string, seconds float64)
}

// Reporter is the remote, best-effort progress sink.
type Reporter interface {
	Report(ctx context.Context, report Report) error
}

// Report is a single progress checkpoint sent to the remote store.
type Report struct {
	MediaID   string
	Position  float64
	SessionID string
}

// Config holds the tunables of a session. It is built at the edge and injected.
type Config struct {
	// QualityPreference lists labels tried in order before falling back to the first available.
	QualityPreference []string
	// HideDelay is the inactivity period after which controls hide while playing.
	HideDelay time.Duration
	// ReportInterval is the boundary, in whole seconds, at which progress is reported remotely.
	ReportInterval int
	// FlushTimeout bounds the final report sent on Dispose.
	FlushTimeout time.Duration
	// Autoplay starts playback as soon as the initial source is ready.
	Autoplay      bool
	DefaultVolume float64
	PlaybackRates []float64
}

// DefaultConfig returns the configuration the player ships with.
func DefaultConfig() Config {
	return Config{
		QualityPreference: source.DefaultPreference,
		HideDelay:         3 * time.Second,
		ReportInterval:    30,
		FlushTimeout:      5 * time.Second,
		Autoplay:          true,
		DefaultVolume:     1,
		PlaybackRates:     []float64{0.5, 1, 1.25, 1.5, 2},
	}
}

// Options carries the collaborators of a session.
type Options struct {
	Provider source.Provider
	Store    Store
	Reporter Reporter
	Element  Element
	// Clock defaults to the system clock.
	Clock Clock
}

type nopStore struct{}

func (nopStore) Get(string) mo.Option[float64] { return mo.None[float64]() }
func (nopStore) Set(string, float64)           {}

type nopReporter struct{}

func (nopReporter) Report(context.Context, Report) error { return nil }
