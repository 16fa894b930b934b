// Package session turns a playback primitive's inconsistent command surface and
// notification stream into a deterministic, idempotent event contract.
//
// A Session owns every piece of per-source state: the seek queue, the pending
// play request, the initial-time bookkeeping, caption selection and the
// underflow watchdog. Raw notifications from the primitive and consumer
// commands are serialized behind one lock; normalized events are delivered to
// the handler only after that lock is released, so handlers may call back into
// the session.
package session

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anisan-cli/playnorm/caption"
	"github.com/anisan-cli/playnorm/event"
	"github.com/anisan-cli/playnorm/log"
	"github.com/anisan-cli/playnorm/player"
	"github.com/anisan-cli/playnorm/seek"
	"github.com/anisan-cli/playnorm/util"
	"github.com/anisan-cli/playnorm/watchdog"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Session manages a single primitive.
type Session struct {
	primitive player.Primitive
	options   Options
	handler   event.Handler

	watchdog    *watchdog.Watchdog
	captions    *caption.Synchronizer
	unsubscribe func()

	mu     sync.Mutex
	outbox []event.Event

	// generation identifies the current source assignment. Asynchronous play
	// results carry the value from their issue time.
	generation uint64
	destroyed  bool

	url       string
	loadedURL string
	live      bool
	loaded    bool
	canSeek   bool

	everPlayed bool
	firstPlay  bool

	// read by the watchdog probe without the session lock
	ended   atomic.Bool
	seeking atomic.Bool

	queuedSeek     mo.Option[float64]
	seekTarget     mo.Option[float64]
	initialTime    mo.Option[float64]
	initialReached bool
	pendingPlay    bool
	timeShift      float64
	lastPosition   float64

	priming          bool
	primingEcho      bool
	primingEchoUntil time.Time

	stalled    bool
	volume     float64
	muted      bool
	fullscreen bool
	announced  []string
}

// New attaches a session to primitive. Every normalized event is passed to
// handler; a nil handler discards them.
func New(primitive player.Primitive, options Options, handler event.Handler) *Session {
	if handler == nil {
		handler = func(event.Event) {}
	}

	s := &Session{
		primitive:      primitive,
		options:        options,
		handler:        handler,
		firstPlay:      true,
		initialReached: true,
		volume:         primitive.Volume() * 100,
		muted:          primitive.Muted(),
	}

	s.captions = caption.NewSynchronizer(caption.NewRegistry(), primitive, s.onCue)
	s.watchdog = watchdog.New(watchdog.ProbeFunc(s.probe), watchdog.Options{
		Interval:  options.WatchdogInterval,
		OnStall:   s.onStall,
		OnRecover: s.onRecover,
	})
	s.unsubscribe = primitive.Subscribe(s.handle)

	return s
}

// do runs fn under the session lock and then delivers whatever fn emitted.
func (s *Session) do(fn func()) {
	s.mu.Lock()
	fn()
	events := s.outbox
	s.outbox = nil
	s.mu.Unlock()

	for _, e := range events {
		s.handler(e)
	}
}

func (s *Session) emit(e event.Event) {
	if s.priming {
		log.Tracef("session: priming, dropping %s", e.Type)
		return
	}
	s.outbox = append(s.outbox, e)
}

// SetSource assigns a new source and resets all per-source state. It reports
// false, touching nothing, when url names the source already assigned.
func (s *Session) SetSource(url, encoding string, live bool) (changed bool) {
	s.do(func() {
		if s.destroyed {
			return
		}

		normalized := NormalizeURL(url)
		if normalized == s.url {
			log.Debugf("session: source unchanged: %s", url)
			return
		}

		s.reset()
		s.generation++
		s.url = normalized
		s.live = live

		if err := s.primitive.SetSource(url, encoding); err != nil {
			log.Warnf("session: set source %s: %v", url, err)
		}
		changed = true
	})

	return
}

func (s *Session) reset() {
	s.watchdog.Stop()
	s.captions.Reset()

	s.loadedURL = ""
	s.live = false
	s.loaded = false
	s.canSeek = false
	s.everPlayed = false
	s.firstPlay = true
	s.ended.Store(false)
	s.seeking.Store(false)
	s.queuedSeek = mo.None[float64]()
	s.seekTarget = mo.None[float64]()
	s.initialTime = mo.None[float64]()
	s.initialReached = true
	s.pendingPlay = false
	s.timeShift = 0
	s.lastPosition = 0
	s.interruptPriming()
	s.stalled = false
	s.announced = nil
}

// Load asks the primitive to fetch the current source. Without rewind it is a
// no-op once loaded; with rewind the position is reset to zero first.
func (s *Session) Load(rewind bool) {
	s.do(func() {
		if s.destroyed || (s.loaded && !rewind) {
			return
		}

		if rewind {
			// no metadata yet is expected here
			if err := s.primitive.SetSeekTime(0); err != nil {
				log.Warnf("session: rewind before load: %v", err)
			}
			s.ended.Store(false)
		}

		if err := s.primitive.Load(); err != nil {
			log.Warnf("session: load %s: %v", s.url, err)
			return
		}
		s.loaded = true
	})
}

// Play starts playback. While a seek is in flight the request is held and
// issued once the seek completes.
func (s *Session) Play() {
	s.do(func() {
		if s.destroyed {
			return
		}
		s.interruptPriming()

		if s.seeking.Load() {
			log.Debugf("session: seek in flight, holding play")
			s.pendingPlay = true
			return
		}
		s.play()
	})
}

func (s *Session) play() {
	if s.ended.Load() {
		log.Debugf("session: replaying %s", s.url)
		s.ended.Store(false)
	}
	s.issuePlay(false)
}

func (s *Session) issuePlay(priming bool) {
	generation := s.generation

	result := s.primitive.Play()
	if result == nil {
		s.settlePlay(generation, nil, priming)
		return
	}

	go func() {
		err := <-result
		s.do(func() {
			s.settlePlay(generation, err, priming)
		})
	}()
}

// settlePlay classifies the outcome of a play request. Results issued for an
// earlier source are dropped.
func (s *Session) settlePlay(generation uint64, err error, priming bool) {
	if s.destroyed || generation != s.generation {
		log.Debugf("session: dropping stale play result (%v)", err)
		return
	}

	if priming {
		s.settlePriming(err)
		return
	}

	muted := s.primitive.Muted()

	switch {
	case err == nil:
		if !muted {
			s.emit(event.Event{Type: event.UnmutedPlaybackSucceeded})
		}
	case errors.Is(err, player.ErrPlayAborted):
		log.Debugf("session: play aborted: %v", err)
	case errors.Is(err, player.ErrNotAllowed):
		if muted {
			s.emit(event.Event{Type: event.PlayAttemptFailed, Reason: event.ReasonUserInteraction})
		} else {
			s.emit(event.Event{Type: event.UnmutedPlaybackFailed})
		}
	default:
		log.Warnf("session: play rejected: %v", err)
		s.emit(event.Event{Type: event.PlayAttemptFailed, Reason: event.ReasonTransient})
	}
}

// Pause drops any held play request and pauses the primitive.
func (s *Session) Pause() {
	s.do(func() {
		if s.destroyed {
			return
		}
		s.interruptPriming()

		s.pendingPlay = false
		if err := s.primitive.Pause(); err != nil {
			log.Warnf("session: pause: %v", err)
		}
	})
}

// Seek moves the playhead to time. For live sources time is an offset from the
// start of the DVR window. It reports false when the position cannot be
// reached yet; the request is then retried once the source becomes seekable,
// and only the latest such request is kept.
func (s *Session) Seek(time float64) (executed bool) {
	s.do(func() {
		if s.destroyed {
			return
		}
		s.interruptPriming()
		executed = s.seek(time)
	})

	return
}

func (s *Session) seek(requested float64) bool {
	target, ok := s.resolveSeek(requested)
	if !ok {
		log.Debugf("session: %.3f not seekable yet, queueing", requested)
		s.queuedSeek = mo.Some(requested)
		return false
	}

	if pending, ok := s.seekTarget.Get(); ok && s.seeking.Load() && pending == target.Absolute {
		s.queuedSeek = mo.None[float64]()
		return true
	}

	// already there: nothing to issue and no seeking/seeked pair to report
	if !s.seeking.Load() && s.initialReached && math.Abs(s.primitive.CurrentTime()-target.Absolute) < seek.Epsilon {
		s.queuedSeek = mo.None[float64]()
		return true
	}

	if err := s.primitive.SetSeekTime(target.Absolute); err != nil {
		log.Warnf("session: seek to %.3f: %v", target.Absolute, err)
		s.queuedSeek = mo.Some(requested)
		return false
	}

	s.queuedSeek = mo.None[float64]()
	s.seeking.Store(true)
	s.seekTarget = mo.Some(target.Absolute)
	s.lastPosition = target.Absolute
	if s.live {
		s.timeShift = target.Shift
	}
	return true
}

func (s *Session) resolveSeek(requested float64) (seek.Target, bool) {
	if !s.canSeek {
		return seek.Target{}, false
	}

	window := s.primitive.Seekable()
	if s.live {
		return seek.DVRTarget(requested, s.primitive.CurrentTime(), s.timeShift, window)
	}

	duration := s.primitive.Duration()
	if !util.IsFinite(duration) {
		return seek.Target{}, false
	}

	t, ok := seek.SafeTime(requested, duration, window, s.options.SeekToEndThreshold)
	return seek.Target{Absolute: t}, ok
}

func (s *Session) dequeueSeek() {
	requested, ok := s.queuedSeek.Get()
	if !ok || s.seeking.Load() {
		return
	}
	s.seek(requested)
}

// SetInitialTime sets where playback of the current source starts. It only
// applies before playback has begun or after the stream ended, and zero is
// only honored after the stream ended (replay from the start).
func (s *Session) SetInitialTime(time float64) {
	s.do(func() {
		if s.destroyed || !util.IsFinite(time) || time < 0 {
			return
		}

		ended := s.ended.Load()
		if s.everPlayed && !ended {
			log.Debugf("session: playback already started, ignoring initial time %.3f", time)
			return
		}
		if time == 0 && !ended {
			return
		}

		s.initialTime = mo.Some(time)
		s.initialReached = false

		if s.options.Quirks.EarlySeekUnreliable || !s.canSeek {
			s.queuedSeek = mo.Some(time)
			return
		}
		s.seek(time)
	})
}

// SetVolume sets the output level, 0 to 100.
func (s *Session) SetVolume(volume float64) {
	s.do(func() {
		if s.destroyed {
			return
		}
		if err := s.primitive.SetVolume(util.Clamp(volume, 0, 100) / 100); err != nil {
			log.Warnf("session: set volume: %v", err)
		}
	})
}

// Mute silences the output.
func (s *Session) Mute() {
	s.setMuted(true)
}

// Unmute restores the output.
func (s *Session) Unmute() {
	s.setMuted(false)
}

func (s *Session) setMuted(muted bool) {
	s.do(func() {
		if s.destroyed {
			return
		}
		if err := s.primitive.SetMuted(muted); err != nil {
			log.Warnf("session: set muted %t: %v", muted, err)
		}
	})
}

// PrimeForUserGesture runs a silent play/pause cycle so that later playback is
// attributed to the current user gesture. Nothing is surfaced to the consumer
// until the cycle completes or another command interrupts it.
func (s *Session) PrimeForUserGesture() {
	s.do(func() {
		if s.destroyed || s.priming || !s.primitive.Paused() {
			return
		}

		log.Debugf("session: priming")
		s.interruptPriming()
		s.priming = true
		s.issuePlay(true)
	})
}

func (s *Session) settlePriming(err error) {
	if !s.priming {
		return
	}

	if err != nil {
		log.Debugf("session: priming play rejected: %v", err)
		s.interruptPriming()
		return
	}

	s.priming = false
	if err := s.primitive.Pause(); err != nil {
		log.Warnf("session: priming pause: %v", err)
		return
	}

	// the primitive may or may not echo the cycle back, so the echo guard
	// only lasts until its pause shows up or the window runs out
	s.primingEcho = true
	s.primingEchoUntil = time.Now().Add(s.options.PrimingEchoWindow)
}

func (s *Session) interruptPriming() {
	s.priming = false
	s.primingEcho = false
}

// swallowEcho reports whether kind belongs to the tail of a finished priming
// cycle and must not reach the consumer.
func (s *Session) swallowEcho(kind player.Kind) bool {
	if !s.primingEcho {
		return false
	}
	if time.Now().After(s.primingEchoUntil) {
		s.primingEcho = false
		return false
	}

	switch kind {
	case player.Play, player.Playing, player.TimeUpdate, player.Progress:
		return true
	case player.Pause:
		log.Debugf("session: priming done")
		s.primingEcho = false
		return true
	case player.Ended, player.Seeking, player.Seeked, player.LoadStart, player.Error:
		s.primingEcho = false
	}
	return false
}

// Destroy detaches the session from the primitive and stops every background
// activity. The primitive itself is left to its owner.
func (s *Session) Destroy() {
	s.do(func() {
		if s.destroyed {
			return
		}

		s.destroyed = true
		s.generation++
		s.watchdog.Stop()
		s.unsubscribe()
		s.captions.Reset()
		s.pendingPlay = false
		s.queuedSeek = mo.None[float64]()
	})
}

// URL returns the normalized url of the current source.
func (s *Session) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// Live reports whether the current source is treated as live.
func (s *Session) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// Ended reports whether the current source finished playing.
func (s *Session) Ended() bool {
	return s.ended.Load()
}

// Playhead returns the position snapshot the next time update would carry.
func (s *Session) Playhead() event.Playhead {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playhead()
}

func (s *Session) playhead() event.Playhead {
	current := s.primitive.CurrentTime()
	duration := s.primitive.Duration()
	window := s.primitive.Seekable()
	buffered := s.primitive.Buffered()

	if s.live && window.Size() > 0 {
		return event.Playhead{
			CurrentTime: util.Clamp(current-window.Start, 0, window.Size()),
			Duration:    window.Size(),
			Buffer:      percent(buffered.End-window.Start, window.Size()),
			SeekRange:   window,
		}
	}

	// live without a window, or duration not known yet
	if !util.IsFinite(duration) {
		duration = 0
	}

	return event.Playhead{
		CurrentTime: current,
		Duration:    duration,
		Buffer:      percent(buffered.End, duration),
		SeekRange:   window,
	}
}

func percent(part, whole float64) float64 {
	if whole <= 0 || !util.IsFinite(part) {
		return 0
	}
	return util.Clamp(part/whole*100, 0, 100)
}

// probe feeds the watchdog. It never takes the session lock.
func (s *Session) probe() watchdog.State {
	return watchdog.State{
		Time:   s.primitive.CurrentTime(),
		Paused: s.primitive.Paused() || s.seeking.Load(),
		Ended:  s.ended.Load(),
	}
}

func (s *Session) onStall() {
	s.do(func() {
		if s.destroyed || s.ended.Load() || !s.watchdog.Running() {
			return
		}
		s.markStalled()
	})
}

func (s *Session) onRecover() {
	s.do(func() {
		if s.destroyed {
			return
		}
		s.markBuffered()
	})
}

func (s *Session) markStalled() {
	if s.stalled {
		return
	}
	s.stalled = true
	s.emit(event.Event{Type: event.Stalled, URL: s.loadedURL})
}

func (s *Session) markBuffered() {
	if !s.stalled {
		return
	}
	s.stalled = false
	s.emit(event.Event{Type: event.Buffered, URL: s.loadedURL})
}

func (s *Session) markEnded() {
	if s.ended.Swap(true) {
		return
	}

	s.watchdog.Stop()
	s.pendingPlay = false
	s.stalled = false
	s.emit(event.Event{Type: event.Ended})
}

func (s *Session) emitVolume() {
	volume := s.primitive.Volume() * 100
	if volume != s.volume {
		s.volume = volume
		s.emit(event.Event{Type: event.VolumeChange, Volume: lo.ToPtr(volume)})
	}

	muted := s.primitive.Muted()
	if muted != s.muted {
		s.muted = muted
		s.emit(event.Event{Type: event.MuteStateChange, Muted: lo.ToPtr(muted)})
	}
}
