// Package player defines the capability interface of a playback primitive and its raw event vocabulary.
// The architecture supports multiple backends, with the primary implementation targeting 'mpv' via its JSON-IPC interface.
package player

import (
	"errors"
	"fmt"

	"github.com/anisan-cli/playnorm/seek"
)

// Sentinel rejections a primitive reports through the channel returned by Play.
var (
	// ErrNotAllowed means the platform refused to start playback without a user gesture.
	ErrNotAllowed = errors.New("play not allowed")

	// ErrPlayAborted means the play request was superseded by a newer load or pause.
	ErrPlayAborted = errors.New("play aborted")
)

// Media error codes carried by an Error raw event.
const (
	ErrCodeAborted         = 1
	ErrCodeNetwork         = 2
	ErrCodeDecode          = 3
	ErrCodeSrcNotSupported = 4
)

// ErrorText describes a media error code.
func ErrorText(code int) string {
	switch code {
	case ErrCodeAborted:
		return "fetching was aborted"
	case ErrCodeNetwork:
		return "network error while fetching"
	case ErrCodeDecode:
		return "media could not be decoded"
	case ErrCodeSrcNotSupported:
		return "source not supported"
	default:
		return fmt.Sprintf("unknown media error %d", code)
	}
}

// Primitive encapsulates the required capabilities of a playback backend.
type Primitive interface {
	// SetSource assigns the media to render. An empty url detaches the current one.
	SetSource(url, encoding string) error

	// Load starts fetching the assigned source.
	Load() error

	// Play requests playback. The returned channel delivers exactly one result once
	// the primitive settles the request; a nil channel means the call completed
	// synchronously and successfully.
	Play() <-chan error

	// Pause suspends playback.
	Pause() error

	// SetSeekTime moves the playhead to an absolute position in seconds.
	SetSeekTime(seconds float64) error

	// SetVolume sets the output level in [0, 1].
	SetVolume(level float64) error

	// SetMuted mutes or unmutes the output.
	SetMuted(muted bool) error

	CurrentTime() float64
	Duration() float64
	Paused() bool
	Muted() bool
	Volume() float64

	// Seekable returns the currently seekable window; zero/zero when nothing is seekable.
	Seekable() seek.Range

	// Buffered returns the currently buffered window; zero/zero when nothing is buffered.
	Buffered() seek.Range

	// TextTracks returns the primitive's native text tracks.
	TextTracks() []Track

	// Subscribe registers fn for every raw notification and returns a function that detaches it.
	Subscribe(fn func(Raw)) (unsubscribe func())

	// Close terminates the playback engine and releases all associated system resources.
	Close() error
}

// Mode is the rendering mode of a text track.
type Mode string

const (
	ModeDisabled Mode = "disabled"
	ModeHidden   Mode = "hidden"
	ModeShowing  Mode = "showing"
)

// Track is a native text track owned by the primitive.
type Track interface {
	Kind() string
	Label() string
	Language() string
	Mode() Mode
	SetMode(mode Mode)

	// OnCueChange installs the cue handler; nil removes it.
	OnCueChange(fn func(cues []string))
}

// TrackSpec describes a caption file to attach to the primitive.
type TrackSpec struct {
	ID        string
	Label     string
	Language  string
	SourceURL string
}

// TrackAttacher is implemented by primitives that can sideload caption files.
type TrackAttacher interface {
	AttachTrack(spec TrackSpec) (Track, error)
}

// EndReporter is implemented by primitives that can tell whether the stream
// truly reached its end, independent of the ended notifications they emit.
type EndReporter interface {
	Ended() bool
}
