package session

import (
	"errors"

	"github.com/kinogram/kino/source"
)

var (
	// ErrNotFound is returned by Initialize when the provider has no such media.
	ErrNotFound = source.ErrNotFound
	// ErrNoSources is returned by Initialize when the media exists but has nothing playable.
	ErrNoSources = source.ErrNoSources

	// ErrUnknownQuality is returned when switching to a label the session has no source for.
	ErrUnknownQuality = errors.New("unknown quality")

	// ErrMediaLoad marks a playback failure of the underlying element. It surfaces through
	// the Errored state rather than as a return value.
	ErrMediaLoad = errors.New("media load failed")

	// ErrPersistence marks a failed remote progress report. It is logged and never surfaced.
	ErrPersistence = errors.New("progress report failed")

	// ErrUnsupportedRate is returned for a playback rate outside the configured set.
	ErrUnsupportedRate = errors.New("unsupported playback rate")
	// ErrDisposed is returned by operations called after Dispose.
	ErrDisposed = errors.New("session disposed")
	// ErrInitialized is returned when Initialize is called on a session that already has media.
	ErrInitialized = errors.New("session already initialized")
)
