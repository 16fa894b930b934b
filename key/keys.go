// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Media Playback - these keys configure the playback primitive and the session state machine.
const (
	Player             = "player.default"
	SeekToEndThreshold = "player.seek_to_end_threshold"
	DisableNativeSeek  = "player.disable_native_seek"
	Resume             = "player.resume"
)

// Underflow Detection - these keys tune the silent-stall watchdog.
const (
	WatchdogInterval = "watchdog.interval"
)

// Platform Quirks - these keys feed the decision points that compensate for unreliable primitives.
const (
	QuirkEarlySeekUnreliable   = "quirks.early_seek_unreliable"
	QuirkFractionalDurationEnd = "quirks.fractional_duration_end"
	QuirkSilentPauseAtEnd      = "quirks.silent_pause_at_end"
	QuirkSpuriousEndedOnSwap   = "quirks.spurious_ended_on_swap"
)

// Captions - these keys define the default caption selection.
const (
	CaptionsLanguage = "captions.language"
	CaptionsMode     = "captions.mode"
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
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
