package session

import (
	"math"
	"sync"
	"time"

	"github.com/anisan-cli/playnorm/event"
	"github.com/anisan-cli/playnorm/player"
	"github.com/anisan-cli/playnorm/seek"
	"github.com/samber/lo"
)

type fakeTrack struct {
	label, language string
	mode            player.Mode
	cue             func([]string)
}

func (t *fakeTrack) Kind() string                  { return "subtitles" }
func (t *fakeTrack) Label() string                 { return t.label }
func (t *fakeTrack) Language() string              { return t.language }
func (t *fakeTrack) Mode() player.Mode             { return t.mode }
func (t *fakeTrack) SetMode(mode player.Mode)      { t.mode = mode }
func (t *fakeTrack) OnCueChange(fn func([]string)) { t.cue = fn }

// fakePrimitive records commands and lets tests raise notifications by hand.
type fakePrimitive struct {
	mu sync.Mutex

	source   string
	sources  int
	loads    int
	plays    int
	pauses   int
	seeks    []float64
	seekErr  error
	eof      bool
	attached []player.TrackSpec

	current  float64
	duration float64
	paused   bool
	muted    bool
	volume   float64
	seekable seek.Range
	buffered seek.Range
	tracks   []*fakeTrack

	// playResult, when set, is returned by Play instead of settling synchronously.
	playResult chan error

	subs    map[int]func(player.Raw)
	nextSub int
}

func newFakePrimitive() *fakePrimitive {
	return &fakePrimitive{
		duration: math.NaN(),
		paused:   true,
		volume:   1,
		subs:     make(map[int]func(player.Raw)),
	}
}

func (p *fakePrimitive) raise(kinds ...player.Kind) {
	p.mu.Lock()
	subs := lo.Values(p.subs)
	p.mu.Unlock()

	for _, kind := range kinds {
		for _, fn := range subs {
			fn(player.Raw{Kind: kind})
		}
	}
}

func (p *fakePrimitive) raiseError(code int) {
	p.mu.Lock()
	subs := lo.Values(p.subs)
	p.mu.Unlock()

	for _, fn := range subs {
		fn(player.Raw{Kind: player.Error, Code: code})
	}
}

func (p *fakePrimitive) SetSource(url, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.source = url
	p.sources++
	return nil
}

func (p *fakePrimitive) Load() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loads++
	return nil
}

func (p *fakePrimitive) Play() <-chan error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plays++
	p.paused = false
	if p.playResult != nil {
		return p.playResult
	}
	return nil
}

func (p *fakePrimitive) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pauses++
	p.paused = true
	return nil
}

func (p *fakePrimitive) SetSeekTime(seconds float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.seekErr != nil {
		return p.seekErr
	}
	p.seeks = append(p.seeks, seconds)
	p.current = seconds
	return nil
}

func (p *fakePrimitive) SetVolume(level float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = level
	return nil
}

func (p *fakePrimitive) SetMuted(muted bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.muted = muted
	return nil
}

func (p *fakePrimitive) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func (p *fakePrimitive) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duration
}

func (p *fakePrimitive) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

func (p *fakePrimitive) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

func (p *fakePrimitive) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

func (p *fakePrimitive) Seekable() seek.Range {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seekable
}

func (p *fakePrimitive) Buffered() seek.Range {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffered
}

func (p *fakePrimitive) TextTracks() []player.Track {
	return lo.Map(p.tracks, func(t *fakeTrack, _ int) player.Track { return t })
}

func (p *fakePrimitive) AttachTrack(spec player.TrackSpec) (player.Track, error) {
	p.attached = append(p.attached, spec)
	track := &fakeTrack{label: spec.Label, language: spec.Language, mode: player.ModeDisabled}
	p.tracks = append(p.tracks, track)
	return track, nil
}

func (p *fakePrimitive) Ended() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.eof
}

func (p *fakePrimitive) Subscribe(fn func(player.Raw)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := p.nextSub
	p.nextSub++
	p.subs[id] = fn

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

func (p *fakePrimitive) Close() error { return nil }

// recorder collects normalized events.
type recorder struct {
	mu     sync.Mutex
	events []event.Event
	notify chan struct{}
}

func newRecorder() *recorder {
	return &recorder{notify: make(chan struct{}, 1)}
}

func (r *recorder) handle(e event.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
}

func (r *recorder) all() []event.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]event.Event(nil), r.events...)
}

func (r *recorder) types() []event.Type {
	return lo.Map(r.all(), func(e event.Event, _ int) event.Type { return e.Type })
}

func (r *recorder) count(t event.Type) int {
	return lo.CountBy(r.all(), func(e event.Event) bool { return e.Type == t })
}

func (r *recorder) last(t event.Type) (event.Event, bool) {
	matching := lo.Filter(r.all(), func(e event.Event, _ int) bool { return e.Type == t })
	if len(matching) == 0 {
		return event.Event{}, false
	}
	return matching[len(matching)-1], true
}

func (r *recorder) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// wait blocks until an event of type t was recorded or timeout elapses.
func (r *recorder) wait(t event.Type, timeout time.Duration) bool {
	deadline := time.After(timeout)
	for {
		if r.count(t) > 0 {
			return true
		}
		select {
		case <-r.notify:
		case <-deadline:
			return false
		}
	}
}

func newFixture(options Options) (*fakePrimitive, *Session, *recorder) {
	prim := newFakePrimitive()
	rec := newRecorder()
	options.WatchdogInterval = time.Hour
	return prim, New(prim, options, rec.handle), rec
}

// ready brings a 100s on-demand source to the loaded and seekable state.
func ready(prim *fakePrimitive, s *Session, url string) {
	s.SetSource(url, "video/mp4", false)
	s.Load(false)

	prim.mu.Lock()
	prim.duration = 100
	prim.seekable = seek.Range{Start: 0, End: 100}
	prim.mu.Unlock()

	prim.raise(player.LoadStart, player.MetadataReady)
}
