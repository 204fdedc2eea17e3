// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Kino is the canonical application identifier used for filesystem paths and CLI branding.
	Kino = "kino"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// UserAgent is sent with every backend request.
	UserAgent = Kino + "/" + Version
)

// Backend defaults.
const (
	DefaultBaseURL = "http://localhost:8000/api"

	// InitDataHeader carries the platform-issued launch payload that authenticates the viewer.
	InitDataHeader = "X-Telegram-Init-Data"
)

// Build metadata, set with -ldflags at release time.
var (
	BuiltAt  string
	BuiltBy  string
	Revision string
)
