// Package seek computes platform-safe seek targets and DVR time-shift conversions.
//
// Every function here is pure: identical inputs always produce identical outputs
// and nothing outside the arguments is read or written.
package seek

import (
	"github.com/anisan-cli/playnorm/util"
)

// Epsilon keeps a seek target strictly below the duration. Some primitives fault
// when asked to seek exactly onto the last frame.
const Epsilon = 0.01

// Range is a seekable or buffered window, in seconds.
type Range struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// IsZero reports whether r is the zero/zero "not currently seekable" sentinel.
func (r Range) IsZero() bool {
	return r.Start == 0 && r.End == 0
}

// Size returns the length of the window.
func (r Range) Size() float64 {
	return r.End - r.Start
}

// Contains reports whether t lies inside the closed window.
func (r Range) Contains(t float64) bool {
	return t >= r.Start && t <= r.End
}

// SafeTime resolves a requested position into one the primitive can execute now.
// The second result is false when the request cannot be honored yet and the
// caller is expected to queue it.
func SafeTime(requested, duration float64, r Range, seekToEndThreshold float64) (float64, bool) {
	if r.IsZero() || !util.IsFinite(requested) {
		return 0, false
	}

	t := requested
	if duration-t < seekToEndThreshold {
		t = duration
	}
	t = util.Clamp(t, 0, util.Max(duration-Epsilon, 0))

	if !r.Contains(t) {
		return 0, false
	}

	return t, true
}

// Target is the result of a DVR seek: where to move the playhead and the shift
// relative to the live edge that position represents.
type Target struct {
	Absolute float64
	Shift    float64
}

// MaxShift returns the most negative time shift the window allows. It is zero
// when there is no DVR window.
func MaxShift(r Range) float64 {
	if r.Size() <= 0 {
		return 0
	}
	return -r.Size()
}

// ClampShift bounds shift into [MaxShift(r), 0]: never ahead of the live edge,
// never before the window start.
func ClampShift(shift float64, r Range) float64 {
	return util.Clamp(shift, MaxShift(r), 0)
}

// DVRTarget converts an offset measured from the start of the DVR window
// (0 is the oldest position, the window size is the live edge) into an absolute
// position. Live sources without a window are not seekable.
func DVRTarget(requestedOffset, currentAbsolute, currentShift float64, r Range) (Target, bool) {
	maxShift := MaxShift(r)
	if maxShift == 0 || !util.IsFinite(requestedOffset) {
		return Target{}, false
	}

	shift := ClampShift(requestedOffset+maxShift, r)
	absolute := util.Clamp(currentAbsolute-currentShift+shift, r.Start, r.End)

	return Target{Absolute: absolute, Shift: shift}, true
}

// ShiftAt derives the time shift of an absolute position inside the window.
func ShiftAt(absolute float64, r Range) float64 {
	return ClampShift(absolute-r.End, r)
}
