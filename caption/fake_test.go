package caption

import (
	"errors"

	"github.com/anisan-cli/playnorm/player"
)

type fakeTrack struct {
	label, language string
	mode            player.Mode
	setModeCalls    int
	cue             func([]string)
}

func (t *fakeTrack) Kind() string      { return "subtitles" }
func (t *fakeTrack) Label() string     { return t.label }
func (t *fakeTrack) Language() string  { return t.language }
func (t *fakeTrack) Mode() player.Mode { return t.mode }
func (t *fakeTrack) SetMode(m player.Mode) {
	t.setModeCalls++
	t.mode = m
}
func (t *fakeTrack) OnCueChange(fn func([]string)) { t.cue = fn }

type fakeTracks struct {
	tracks   []*fakeTrack
	attached []player.TrackSpec
	failWith error
}

func (f *fakeTracks) TextTracks() []player.Track {
	out := make([]player.Track, len(f.tracks))
	for i, t := range f.tracks {
		out[i] = t
	}
	return out
}

func (f *fakeTracks) AttachTrack(spec player.TrackSpec) (player.Track, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	f.attached = append(f.attached, spec)
	track := &fakeTrack{label: spec.Label, language: spec.Language, mode: player.ModeDisabled}
	f.tracks = append(f.tracks, track)
	return track, nil
}

// readOnlyTracks cannot sideload.
type readOnlyTracks struct{ inner fakeTracks }

func (r *readOnlyTracks) TextTracks() []player.Track { return r.inner.TextTracks() }

var errAttach = errors.New("attach refused")
