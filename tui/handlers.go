// Package tui provides the interactive terminal controller over a playback session.
package tui

import (
	"fmt"

	"github.com/anisan-cli/playnorm/event"
	"github.com/anisan-cli/playnorm/internal/ui"
	"github.com/anisan-cli/playnorm/log"
	"github.com/anisan-cli/playnorm/session"
	"github.com/anisan-cli/playnorm/util"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	seekStep   = 10
	volumeStep = 10
)

type (
	eventMsg      event.Event
	feedClosedMsg struct{}

	// captionsSelectedMsg reports the selection in effect after a caption command.
	captionsSelectedMsg string
)

// waitForEvent delivers the next session notification as a message.
func (b *statefulBubble) waitForEvent() tea.Cmd {
	if b.feed == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-b.feed.events:
			return eventMsg(e)
		case <-b.feed.done:
			return feedClosedMsg{}
		}
	}
}

// command runs fn against the session off the update loop, since session
// commands deliver their notifications synchronously into the feed.
func (b *statefulBubble) command(fn func(s *session.Session)) tea.Cmd {
	if b.session == nil {
		return nil
	}
	return func() tea.Msg {
		fn(b.session)
		return nil
	}
}

func (b *statefulBubble) togglePlayback() tea.Cmd {
	if b.paused || b.state == endedState {
		return b.command((*session.Session).Play)
	}
	return b.command((*session.Session).Pause)
}

// replay plays an ended source again.
func (b *statefulBubble) replay() tea.Cmd {
	return b.command((*session.Session).Play)
}

func (b *statefulBubble) seekBy(delta float64) tea.Cmd {
	target := util.Clamp(b.playhead.CurrentTime+delta, 0, b.playhead.Duration)
	if b.playhead.Duration <= 0 {
		target = util.Max(b.playhead.CurrentTime+delta, 0)
	}

	return b.command(func(s *session.Session) {
		if !s.Seek(target) {
			log.Debugf("tui: seek to %.2f queued", target)
		}
	})
}

func (b *statefulBubble) changeVolume(delta float64) tea.Cmd {
	volume := util.Clamp(b.volume+delta, 0, 100)
	return b.command(func(s *session.Session) {
		s.SetVolume(volume)
	})
}

func (b *statefulBubble) toggleMute() tea.Cmd {
	if b.muted {
		return b.command((*session.Session).Unmute)
	}
	return b.command((*session.Session).Mute)
}

func (b *statefulBubble) selectCaptions(language string) tea.Cmd {
	return b.captionsCommand(func(string) string { return language })
}

func (b *statefulBubble) cycleCaptions() tea.Cmd {
	if len(b.languages) == 0 {
		return ui.Notify("no captions available")
	}
	languages := b.languages
	return b.captionsCommand(func(active string) string {
		return nextLanguage(languages, active)
	})
}

// captionsCommand selects the language pick chooses given the active one.
func (b *statefulBubble) captionsCommand(pick func(active string) string) tea.Cmd {
	if b.session == nil {
		return nil
	}
	set, mode := b.captionSet, b.captionsMode
	return func() tea.Msg {
		active, _ := b.session.ActiveCaptions()
		b.session.SetClosedCaptions(pick(active), set, mode)
		active, _ = b.session.ActiveCaptions()
		return captionsSelectedMsg(active)
	}
}

// handleEvent folds a session notification into the displayed state.
func (b *statefulBubble) handleEvent(e event.Event) tea.Cmd {
	switch e.Type {
	case event.Play:
		b.paused = false
	case event.Playing:
		b.paused = false
		b.stalled = false
		if b.state == loadingState || b.state == endedState {
			b.setState(playingState)
		}
	case event.Paused:
		b.paused = true
	case event.TimeUpdate, event.Progress:
		if e.Playhead != nil {
			b.playhead = *e.Playhead
		}
		if b.state == loadingState {
			b.setState(playingState)
		}
	case event.Stalled:
		b.stalled = true
	case event.Buffered:
		b.stalled = false
	case event.Ended:
		b.paused = true
		b.cue = ""
		b.playhead.CurrentTime = b.playhead.Duration
		if b.state == captionsState {
			b.previousState = endedState
		} else {
			b.setState(endedState)
		}
	case event.Error:
		b.errorCode = e.Code
		b.setState(errorState)
	case event.VolumeChange:
		if e.Volume != nil {
			b.volume = *e.Volume
			return ui.Notify(fmt.Sprintf("volume %.0f%%", b.volume))
		}
	case event.MuteStateChange:
		if e.Muted != nil {
			b.muted = *e.Muted
		}
	case event.CaptionsFound:
		b.languages = e.Languages
		b.locale = e.Locale
		if b.state == captionsState {
			b.captionsC.SetItems(captionItems(b.languages, b.locale, b.language))
		}
		return ui.Notify(util.Quantify(len(e.Languages), "caption track", "caption tracks"))
	case event.CaptionsChanged:
		b.language = e.Language
		if e.Language == "" {
			b.cue = ""
			return ui.Notify("captions off")
		}
		return ui.Notify("captions " + b.languageLabel(e.Language))
	case event.CueChanged:
		b.cue = e.Text
	case event.PlayAttemptFailed:
		if e.Reason == event.ReasonUserInteraction {
			return ui.Notify("press space to start playback")
		}
		return ui.Notify("playback did not start, try again")
	case event.UnmutedPlaybackFailed:
		// fall back to muted playback and let the user unmute
		return tea.Batch(
			ui.Notify("unmuted playback was blocked, press m to unmute"),
			b.command(func(s *session.Session) {
				s.Mute()
				s.Play()
			}),
		)
	}

	return nil
}

func (b *statefulBubble) languageLabel(key string) string {
	if label := b.locale[key]; label != "" {
		return label
	}
	return key
}
