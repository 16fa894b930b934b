// Package event defines the normalized notification vocabulary a session emits to its consumer.
package event

import (
	"fmt"
	"strings"

	"github.com/anisan-cli/playnorm/seek"
)

// Type names a normalized notification.
type Type string

const (
	Play                     Type = "play"
	Playing                  Type = "playing"
	Paused                   Type = "paused"
	Seeking                  Type = "seeking"
	Seeked                   Type = "seeked"
	Ended                    Type = "ended"
	Error                    Type = "error"
	Stalled                  Type = "stalled"
	Buffered                 Type = "buffered"
	TimeUpdate               Type = "timeupdate"
	Progress                 Type = "progress"
	VolumeChange             Type = "volumechange"
	MuteStateChange          Type = "mutestatechange"
	CaptionsFound            Type = "captionsfound"
	CaptionsChanged          Type = "captionschanged"
	CueChanged               Type = "closedcaptioncuechanged"
	FullscreenChanged        Type = "fullscreenchanged"
	UnmutedPlaybackSucceeded Type = "unmutedplaybacksucceeded"
	UnmutedPlaybackFailed    Type = "unmutedplaybackfailed"
	PlayAttemptFailed        Type = "playattemptfailed"
)

// Reasons carried by PlayAttemptFailed.
const (
	ReasonUserInteraction = "user-interaction"
	ReasonTransient       = "transient"
)

// Playhead is the normalized position snapshot carried by TimeUpdate and Progress.
type Playhead struct {
	CurrentTime float64    `json:"currentTime"`
	Duration    float64    `json:"duration"`
	Buffer      float64    `json:"buffer" jsonschema:"minimum=0,maximum=100"`
	SeekRange   seek.Range `json:"seekRange"`
}

// Fullscreen is the payload of FullscreenChanged.
type Fullscreen struct {
	IsFullScreen bool `json:"isFullScreen"`
	Paused       bool `json:"paused"`
}

// Event is a single normalized notification. Only the fields relevant to Type are set.
type Event struct {
	Type       Type              `json:"type" jsonschema:"required"`
	Code       int               `json:"code,omitempty"`
	URL        string            `json:"url,omitempty"`
	Playhead   *Playhead         `json:"playhead,omitempty"`
	Volume     *float64          `json:"volume,omitempty" jsonschema:"minimum=0,maximum=100"`
	Muted      *bool             `json:"muted,omitempty"`
	Languages  []string          `json:"languages,omitempty"`
	Locale     map[string]string `json:"locale,omitempty"`
	Language   string            `json:"language,omitempty"`
	Text       string            `json:"text,omitempty"`
	Fullscreen *Fullscreen       `json:"fullscreen,omitempty"`
	Reason     string            `json:"reason,omitempty"`
}

// Handler receives normalized notifications.
type Handler func(Event)

// String renders a compact single-line description.
func (e Event) String() string {
	var b strings.Builder
	b.WriteString(string(e.Type))

	switch {
	case e.Playhead != nil:
		fmt.Fprintf(&b, " %.2f/%.2f buffer=%.0f%%", e.Playhead.CurrentTime, e.Playhead.Duration, e.Playhead.Buffer)
	case e.Volume != nil:
		fmt.Fprintf(&b, " %.0f", *e.Volume)
	case e.Muted != nil:
		fmt.Fprintf(&b, " muted=%t", *e.Muted)
	case e.Fullscreen != nil:
		fmt.Fprintf(&b, " fullscreen=%t paused=%t", e.Fullscreen.IsFullScreen, e.Fullscreen.Paused)
	case e.Type == Error:
		fmt.Fprintf(&b, " code=%d", e.Code)
	case e.Languages != nil:
		fmt.Fprintf(&b, " %s", strings.Join(e.Languages, ","))
	case e.Language != "":
		fmt.Fprintf(&b, " %s", e.Language)
	case e.Text != "":
		fmt.Fprintf(&b, " %q", e.Text)
	case e.Reason != "":
		fmt.Fprintf(&b, " reason=%s", e.Reason)
	case e.URL != "":
		fmt.Fprintf(&b, " %s", e.URL)
	}

	return b.String()
}
