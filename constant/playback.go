package constant

// Playback engine defaults. All of them can be overridden through configuration.
const (
	// SeekToEndThreshold is the distance from the end, in seconds, under which a seek snaps to the duration.
	SeekToEndThreshold = 0.25

	// WatchdogIntervalMs is the default underflow poll cadence in milliseconds.
	WatchdogIntervalMs = 300

	// CacheBusterParam is the query parameter stripped from source urls before comparison.
	CacheBusterParam = "cb"
)

// Caption track id prefixes. The two partitions are numbered independently.
const (
	SideloadTrackPrefix = "sideload"
	NativeTrackPrefix   = "native"
)
