package session

import (
	"math"

	"github.com/anisan-cli/playnorm/event"
	"github.com/anisan-cli/playnorm/log"
	"github.com/anisan-cli/playnorm/player"
	"github.com/anisan-cli/playnorm/seek"
	"github.com/anisan-cli/playnorm/util"
	"github.com/samber/mo"
)

// handle reconciles one raw notification against the session state.
func (s *Session) handle(raw player.Raw) {
	s.do(func() {
		if s.destroyed {
			return
		}

		log.Tracef("session: raw %s", raw.Kind)

		if s.swallowEcho(raw.Kind) {
			return
		}

		switch raw.Kind {
		case player.LoadStart:
			s.onLoadStart()
		case player.MetadataReady:
			s.onMetadataReady()
		case player.DurationChange:
			s.inferLive()
		case player.Progress:
			s.onProgress()
		case player.Error:
			s.onError(raw.Code)
		case player.Stalled, player.Waiting:
			if !s.seeking.Load() {
				s.markStalled()
			}
		case player.CanPlay, player.CanPlayThrough:
			s.markBuffered()
			s.dequeueSeek()
		case player.Playing:
			s.onPlaying()
		case player.Seeking:
			s.onSeeking()
		case player.Seeked:
			s.onSeeked()
		case player.Ended:
			s.onEnded()
		case player.TimeUpdate:
			s.onTimeUpdate()
		case player.Play:
			s.emit(event.Event{Type: event.Play})
		case player.Pause:
			s.onPause()
		case player.VolumeChange:
			s.emitVolume()
		case player.FullscreenEnter:
			s.onFullscreen(true)
		case player.FullscreenExit:
			s.onFullscreen(false)
		case player.TracksChange:
			s.syncCaptions()
		case player.RateChange:
		}
	})
}

func (s *Session) onLoadStart() {
	s.loadedURL = s.url
	s.ended.Store(false)
	s.firstPlay = true
	s.seeking.Store(false)
	s.seekTarget = mo.None[float64]()
}

func (s *Session) onMetadataReady() {
	s.loaded = true
	s.canSeek = true
	s.inferLive()

	if s.initialReached || !s.options.Quirks.EarlySeekUnreliable {
		s.dequeueSeek()
	}
	s.syncCaptions()
}

// inferLive treats an unbounded duration as a live signal.
func (s *Session) inferLive() {
	if !s.live && math.IsInf(s.primitive.Duration(), 1) {
		log.Debugf("session: unbounded duration, treating %s as live", s.url)
		s.live = true
	}
}

// gated reports whether position notifications must be withheld.
func (s *Session) gated() bool {
	return s.priming || s.seeking.Load() || !s.initialReached
}

func (s *Session) onProgress() {
	if s.gated() {
		return
	}
	playhead := s.playhead()
	s.emit(event.Event{Type: event.Progress, Playhead: &playhead})
}

func (s *Session) onError(code int) {
	if code == player.ErrCodeSrcNotSupported && s.url == "" {
		log.Debugf("session: ignoring error %d for empty source", code)
		return
	}

	s.watchdog.Stop()
	s.pendingPlay = false
	s.emit(event.Event{Type: event.Error, Code: code})
}

func (s *Session) onPlaying() {
	if s.priming {
		return
	}

	if s.firstPlay {
		// the primitive's own caption choice is authoritative up to here
		s.syncCaptions()
		s.firstPlay = false
	}

	s.everPlayed = true
	s.markBuffered()
	s.emit(event.Event{Type: event.Playing})

	if !s.ended.Load() {
		s.watchdog.Start()
	}
}

func (s *Session) onSeeking() {
	s.seeking.Store(true)
	if !s.initialReached {
		return
	}
	s.emit(event.Event{Type: event.Seeking})
}

func (s *Session) onSeeked() {
	s.seeking.Store(false)
	s.seekTarget = mo.None[float64]()
	current := s.primitive.CurrentTime()

	if s.options.DisableNativeSeek && s.initialReached && math.Floor(current) != math.Floor(s.lastPosition) {
		log.Debugf("session: rejecting seek to %.3f, restoring %.3f", current, s.lastPosition)
		if err := s.primitive.SetSeekTime(s.lastPosition); err != nil {
			log.Warnf("session: restore position: %v", err)
		} else {
			s.seeking.Store(true)
			s.seekTarget = mo.Some(s.lastPosition)
		}
		return
	}
	s.lastPosition = current

	if s.pendingPlay {
		s.pendingPlay = false
		s.play()
	}

	if !s.initialReached {
		s.initialReached = true
		s.initialTime = mo.None[float64]()
		return
	}

	s.emit(event.Event{Type: event.Seeked})
	s.dequeueSeek()
}

func (s *Session) onEnded() {
	if s.ended.Load() {
		return
	}

	if s.options.Quirks.SpuriousEndedOnSwap {
		if reporter, ok := s.primitive.(player.EndReporter); ok && !reporter.Ended() {
			log.Debugf("session: ignoring ended, stream not finished")
			return
		}
	}

	if s.priming {
		s.interruptPriming()
	}
	s.markEnded()
}

func (s *Session) onTimeUpdate() {
	if !s.priming && !s.seeking.Load() {
		s.abandonInitialTime()
		s.dequeueSeek()
	}

	if s.gated() {
		return
	}

	playhead := s.playhead()
	current := s.primitive.CurrentTime()
	s.lastPosition = current
	if s.live {
		s.timeShift = seek.ShiftAt(current, s.primitive.Seekable())
	}

	s.emit(event.Event{Type: event.TimeUpdate, Playhead: &playhead})
	s.forceEnd()
}

// abandonInitialTime gives up on an initial time a live source without a DVR
// window can never reach, so position updates are not withheld forever.
func (s *Session) abandonInitialTime() {
	if s.initialReached || !s.live || seek.MaxShift(s.primitive.Seekable()) != 0 {
		return
	}

	log.Debugf("session: live source has no window, dropping initial time")
	s.initialReached = true
	s.initialTime = mo.None[float64]()
	s.queuedSeek = mo.None[float64]()
}

// forceEnd synthesizes ended for primitives that reach the end of a source
// without saying so.
func (s *Session) forceEnd() {
	if s.ended.Load() || s.live {
		return
	}

	duration := s.primitive.Duration()
	if !util.IsFinite(duration) || duration <= 0 {
		return
	}
	current := s.primitive.CurrentTime()

	quirks := s.options.Quirks
	switch {
	case quirks.FractionalDurationEnd && current == duration && duration > math.Floor(duration):
		log.Debugf("session: stopped on fractional duration %.3f, forcing ended", duration)
		s.markEnded()
	case quirks.SilentPauseAtEnd && s.primitive.Paused() && current >= duration-seek.Epsilon:
		log.Debugf("session: paused at end %.3f, forcing ended", current)
		s.markEnded()
	}
}

func (s *Session) onPause() {
	if s.priming {
		return
	}

	if s.ended.Load() {
		return
	}

	s.emit(event.Event{Type: event.Paused})
	s.forceEnd()
}

func (s *Session) onFullscreen(on bool) {
	if s.fullscreen == on {
		return
	}
	s.fullscreen = on
	s.emit(event.Event{
		Type:       event.FullscreenChanged,
		Fullscreen: &event.Fullscreen{IsFullScreen: on, Paused: s.primitive.Paused()},
	})
}
