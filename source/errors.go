package source

import "errors"

var (
	// ErrNotFound is returned by a Provider that has no entry for the requested media id.
	ErrNotFound = errors.New("media not found")

	// ErrNoSources is returned when a media item exists but has no playable quality variant.
	ErrNoSources = errors.New("no playable sources")
)
