package player

// Kind identifies a raw lifecycle notification emitted by a primitive.
type Kind int

const (
	LoadStart Kind = iota
	MetadataReady
	Progress
	Error
	Stalled
	CanPlay
	CanPlayThrough
	Playing
	Waiting
	Seeking
	Seeked
	Ended
	DurationChange
	TimeUpdate
	Play
	Pause
	RateChange
	VolumeChange
	FullscreenEnter
	FullscreenExit
	TracksChange
)

var kindNames = map[Kind]string{
	LoadStart:       "loadstart",
	MetadataReady:   "loadedmetadata",
	Progress:        "progress",
	Error:           "error",
	Stalled:         "stalled",
	CanPlay:         "canplay",
	CanPlayThrough:  "canplaythrough",
	Playing:         "playing",
	Waiting:         "waiting",
	Seeking:         "seeking",
	Seeked:          "seeked",
	Ended:           "ended",
	DurationChange:  "durationchange",
	TimeUpdate:      "timeupdate",
	Play:            "play",
	Pause:           "pause",
	RateChange:      "ratechange",
	VolumeChange:    "volumechange",
	FullscreenEnter: "fullscreenenter",
	FullscreenExit:  "fullscreenexit",
	TracksChange:    "trackschange",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Raw is a single notification from the primitive. Code is only set for Error.
type Raw struct {
	Kind Kind
	Code int
}
