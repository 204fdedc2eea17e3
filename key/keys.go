// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// DefinedFieldsCount represents the total cardinality of the application configuration schema.
const DefinedFieldsCount = 18

// Backend API - these keys locate and authenticate against the catalogue backend.
const (
	APIBaseURL  = "api.base_url"
	APITimeout  = "api.timeout"
	APIInitData = "api.init_data"
)

// Media Playback - these keys tune the playback session and the external player.
const (
	Player                  = "player.default"
	PlayerAutoplay          = "player.autoplay"
	PlayerQualityPreference = "player.quality_preference"
	PlayerControlsHideDelay = "player.controls_hide_delay"
	PlayerReportInterval    = "player.report_interval"
	PlayerFlushTimeout      = "player.flush_timeout"
	PlayerDefaultVolume     = "player.default_volume"
	PlayerPlaybackRates     = "player.playback_rates"
)

// History Tracking - these keys configure the local persistence of playback positions.
const (
	HistorySaveLocal = "history.save_local"
)

// Caching - these keys govern the on-disk metadata cache.
const (
	CacheMetadataTTL = "cache.metadata_ttl"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)
