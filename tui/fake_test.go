package tui

import (
	"github.com/anisan-cli/playnorm/player"
	"github.com/anisan-cli/playnorm/seek"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/lo"
)

type fakeTrack struct {
	language string
	mode     player.Mode
}

func (t *fakeTrack) Kind() string               { return "subtitles" }
func (t *fakeTrack) Label() string              { return "" }
func (t *fakeTrack) Language() string           { return t.language }
func (t *fakeTrack) Mode() player.Mode          { return t.mode }
func (t *fakeTrack) SetMode(mode player.Mode)   { t.mode = mode }
func (t *fakeTrack) OnCueChange(func([]string)) {}

// fakePrimitive is a single-goroutine stand-in for a playback backend.
type fakePrimitive struct {
	plays, pauses int
	seeks         []float64

	current, duration float64
	paused, muted     bool
	volume            float64
	eof               bool
	tracks            []*fakeTrack

	subs []func(player.Raw)
}

func newFakePrimitive() *fakePrimitive {
	return &fakePrimitive{
		duration: 100,
		paused:   true,
		volume:   1,
		tracks: []*fakeTrack{
			{language: "en", mode: player.ModeDisabled},
			{language: "fr", mode: player.ModeDisabled},
		},
	}
}

func (p *fakePrimitive) raise(kinds ...player.Kind) {
	for _, kind := range kinds {
		for _, fn := range p.subs {
			fn(player.Raw{Kind: kind})
		}
	}
}

func (p *fakePrimitive) raiseError(code int) {
	for _, fn := range p.subs {
		fn(player.Raw{Kind: player.Error, Code: code})
	}
}

func (p *fakePrimitive) SetSource(string, string) error { return nil }
func (p *fakePrimitive) Load() error                    { return nil }

func (p *fakePrimitive) Play() <-chan error {
	p.plays++
	p.paused = false
	return nil
}

func (p *fakePrimitive) Pause() error {
	p.pauses++
	p.paused = true
	return nil
}

func (p *fakePrimitive) SetSeekTime(seconds float64) error {
	p.seeks = append(p.seeks, seconds)
	p.current = seconds
	return nil
}

func (p *fakePrimitive) SetVolume(level float64) error { p.volume = level; return nil }
func (p *fakePrimitive) SetMuted(muted bool) error     { p.muted = muted; return nil }

func (p *fakePrimitive) CurrentTime() float64   { return p.current }
func (p *fakePrimitive) Duration() float64      { return p.duration }
func (p *fakePrimitive) Paused() bool           { return p.paused }
func (p *fakePrimitive) Muted() bool            { return p.muted }
func (p *fakePrimitive) Volume() float64        { return p.volume }
func (p *fakePrimitive) Ended() bool            { return p.eof }
func (p *fakePrimitive) Buffered() seek.Range   { return seek.Range{} }
func (p *fakePrimitive) Seekable() seek.Range   { return seek.Range{Start: 0, End: p.duration} }
func (p *fakePrimitive) Close() error           { return nil }

func (p *fakePrimitive) TextTracks() []player.Track {
	return lo.Map(p.tracks, func(t *fakeTrack, _ int) player.Track { return t })
}

func (p *fakePrimitive) Subscribe(fn func(player.Raw)) func() {
	p.subs = append(p.subs, fn)
	return func() { p.subs = nil }
}

// run executes cmd and every command it batches, feeding resulting messages
// other than ticks back into b.
func run(b *statefulBubble, cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	var msgs []tea.Msg
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			msgs = append(msgs, run(b, c)...)
		}
	case nil:
	case captionsSelectedMsg:
		msgs = append(msgs, msg)
		b.Update(msg)
	default:
		msgs = append(msgs, msg)
	}
	return msgs
}

// drain folds every queued session notification into b.
func drain(b *statefulBubble) {
	for {
		select {
		case e := <-b.feed.events:
			b.Update(eventMsg(e))
		default:
			return
		}
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}
