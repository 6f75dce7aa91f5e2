// Package key defines the configuration identifiers shared by viper, flags and environment bindings.
package key

// Cycle Timer - durations and behaviour of the automatic pause/resume cycle.
const (
	TimerPlaySeconds  = "timer.play_seconds"
	TimerPauseSeconds = "timer.pause_seconds"
	TimerAutoStart    = "timer.auto_start"
)

// YouTube Data API access.
const (
	YouTubeAPIKey          = "youtube.api_key"
	YouTubeMaxResults      = "youtube.max_results"
	YouTubeSafeSearch      = "youtube.safe_search"
	YouTubeCacheTTLMinutes = "youtube.cache_ttl_minutes"
)

// Pinned videos.
const (
	PinsRestoreTiming = "pins.restore_timing"
)

// Search Interaction - these keys define the search prompt behaviour.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Media Playback - external player process.
const (
	PlayerBinary     = "player.binary"
	PlayerYtdlFormat = "player.ytdl_format"
)

// Iconography.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI).
const (
	TUIItemSpacing        = "tui.item_spacing"
	TUISearchPromptString = "tui.search_prompt"
	TUIShowURLs           = "tui.show_urls"
)

// Logging Infrastructure.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
