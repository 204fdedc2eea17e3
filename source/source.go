// Package source defines the domain models and interfaces for movie metadata and stream discovery.
package source

import "context"

// Provider defines the required capabilities for a media source backend.
type Provider interface {
	// Metadata retrieves the descriptive record of a media item.
	Metadata(ctx context.Context, mediaID string) (Movie, error)

	// Sources retrieves the quality variants available for a media item.
	// An empty mapping is not an error; an unknown media id is ErrNotFound.
	Sources(ctx context.Context, mediaID string) (Sources, error)
}
