package session

import (
	"slices"

	"github.com/anisan-cli/playnorm/caption"
	"github.com/anisan-cli/playnorm/event"
	"github.com/anisan-cli/playnorm/player"
)

// SetClosedCaptions selects the caption track for language and disables every
// other one. Sources in set are sideloaded on first use. An empty language
// disables captions; an unknown one is ignored. An empty mode means showing.
func (s *Session) SetClosedCaptions(language string, set caption.Set, mode player.Mode) {
	s.do(func() {
		if s.destroyed {
			return
		}
		if mode == "" {
			mode = player.ModeShowing
		}
		if s.captions.Select(language, set, mode) {
			s.announceCaptions()
		}
	})
}

// SetClosedCaptionsMode switches the selected track between showing and
// hidden without changing the selection. Disabled deselects it.
func (s *Session) SetClosedCaptionsMode(mode player.Mode) {
	s.do(func() {
		if s.destroyed {
			return
		}
		s.captions.SetMode(mode)
	})
}

// Captions returns the current caption announcement.
func (s *Session) Captions() caption.Announcement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.captions.Available()
}

// ActiveCaptions returns the language key of the selected track, if any.
func (s *Session) ActiveCaptions() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.captions.Active().Get()
	if !ok {
		return "", false
	}
	return entry.Key(), true
}

// syncCaptions registers new native tracks, reconciles drifted modes and
// re-announces the caption set when it changed.
func (s *Session) syncCaptions() {
	s.captions.Ingest()

	switch drift := s.captions.DetectDrift(s.everPlayed); drift.Kind {
	case caption.DriftLanguage:
		s.emit(event.Event{Type: event.CaptionsChanged, Language: drift.Language})
	case caption.DriftNone:
		s.emit(event.Event{Type: event.CaptionsChanged})
	}

	s.announceCaptions()
}

func (s *Session) announceCaptions() {
	announcement := s.captions.Available()
	if len(announcement.Languages) == 0 || slices.Equal(announcement.Languages, s.announced) {
		return
	}

	s.announced = announcement.Languages
	s.emit(event.Event{
		Type:      event.CaptionsFound,
		Languages: announcement.Languages,
		Locale:    announcement.Locale,
	})
}

// onCue receives cues from the selected track's hook, outside the lock.
func (s *Session) onCue(entryID string, cues []string) {
	s.do(func() {
		if s.destroyed {
			return
		}
		if text, ok := s.captions.Cue(entryID, cues); ok {
			s.emit(event.Event{Type: event.CueChanged, Text: text})
		}
	})
}
