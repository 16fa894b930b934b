package session

import (
	"time"

	"github.com/anisan-cli/playnorm/constant"
	"github.com/anisan-cli/playnorm/watchdog"
)

// Quirks are the decision points fed by whatever knows the runtime's
// capabilities. Each flag names a primitive misbehavior the session
// compensates for.
type Quirks struct {
	// EarlySeekUnreliable defers the initial-time seek until the primitive
	// reports playback progress instead of issuing it as soon as possible.
	EarlySeekUnreliable bool

	// FractionalDurationEnd synthesizes ended when the playhead stops exactly
	// on a fractional duration without the primitive reporting completion.
	FractionalDurationEnd bool

	// SilentPauseAtEnd synthesizes ended when the primitive pauses at the end
	// of the stream without reporting completion.
	SilentPauseAtEnd bool

	// SpuriousEndedOnSwap drops ended notifications raised while the primitive
	// does not consider the stream finished, as happens when sources are swapped.
	SpuriousEndedOnSwap bool
}

// Options tunes a Session.
type Options struct {
	// SeekToEndThreshold snaps seeks closer than this to the end onto the end.
	SeekToEndThreshold float64

	// WatchdogInterval is the underflow polling cadence.
	WatchdogInterval time.Duration

	// DisableNativeSeek rejects seeks the consumer did not request, such as
	// those issued from the primitive's own transport controls.
	DisableNativeSeek bool

	// PrimingEchoWindow bounds how long after a priming cycle the play, pause
	// and position notifications it caused are still swallowed.
	PrimingEchoWindow time.Duration

	Quirks Quirks
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		SeekToEndThreshold: constant.SeekToEndThreshold,
		WatchdogInterval:   watchdog.DefaultInterval,
		PrimingEchoWindow:  time.Second,
		Quirks: Quirks{
			FractionalDurationEnd: true,
			SilentPauseAtEnd:      true,
		},
	}
}
