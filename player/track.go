package player

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/anisan-cli/playnorm/log"
	"github.com/samber/lo"
)

// mpvTrack is a subtitle entry of mpv's track-list. Its mode is derived from
// the sid and sub-visibility properties, so external changes show up as drift.
type mpvTrack struct {
	owner    *MPV
	id       int64
	label    string
	language string
	external string

	mu  sync.Mutex
	cue func(cues []string)
}

func (t *mpvTrack) Kind() string     { return "subtitles" }
func (t *mpvTrack) Label() string    { return t.label }
func (t *mpvTrack) Language() string { return t.language }

func (t *mpvTrack) Mode() Mode {
	t.owner.stateMu.RLock()
	defer t.owner.stateMu.RUnlock()

	switch {
	case t.owner.sid != t.id:
		return ModeDisabled
	case t.owner.subVisible:
		return ModeShowing
	default:
		return ModeHidden
	}
}

// SetMode selects or deselects the track. Hidden keeps the track selected so
// cues keep flowing but stops mpv from rendering them.
func (t *mpvTrack) SetMode(mode Mode) {
	m := t.owner

	if mode == ModeDisabled {
		m.stateMu.Lock()
		selected := m.sid == t.id
		if selected {
			m.expectSid(0)
		}
		m.stateMu.Unlock()

		if selected {
			if _, err := m.sendCommand("set_property", "sid", "no"); err != nil {
				log.Warnf("mpv: disable subtitle track %d: %v", t.id, err)
				m.forgetExpectedSid()
			}
		}
		return
	}

	visible := mode == ModeShowing
	m.stateMu.Lock()
	switching := m.sid != t.id
	if switching {
		m.expectSid(t.id)
	}
	m.subVisible = visible
	m.stateMu.Unlock()

	if switching {
		if _, err := m.sendCommand("set_property", "sid", t.id); err != nil {
			log.Warnf("mpv: select subtitle track %d: %v", t.id, err)
			m.forgetExpectedSid()
		}
	}
	if _, err := m.sendCommand("set_property", "sub-visibility", visible); err != nil {
		log.Warnf("mpv: set subtitle visibility: %v", err)
	}
}

func (t *mpvTrack) OnCueChange(fn func(cues []string)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cue = fn
}

// deliverCue hands the current subtitle text to the selected track's hook.
func (m *MPV) deliverCue(text string) {
	m.stateMu.RLock()
	track := m.tracks[m.sid]
	m.stateMu.RUnlock()

	if track == nil {
		return
	}

	track.mu.Lock()
	fn := track.cue
	track.mu.Unlock()

	if fn == nil {
		return
	}

	var cues []string
	if text != "" {
		cues = strings.Split(text, "\n")
	}
	fn(cues)
}

// refreshTracks rebuilds the subtitle track index from a track-list value,
// preserving existing track objects so references held elsewhere stay valid.
func (m *MPV) refreshTracks(list []interface{}) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	seen := make(map[int64]bool)
	m.order = m.order[:0]
	settling := m.sidExpected && time.Now().Before(m.sidDeadline)

	for _, item := range list {
		entry, _ := item.(map[string]interface{})
		if kind, _ := entry["type"].(string); kind != "sub" {
			continue
		}
		rawID, ok := entry["id"].(float64)
		if !ok {
			continue
		}
		id := int64(rawID)

		track, exists := m.tracks[id]
		if !exists {
			track = &mpvTrack{owner: m, id: id}
			m.tracks[id] = track
		}
		track.label, _ = entry["title"].(string)
		track.language, _ = entry["lang"].(string)
		track.external, _ = entry["external-filename"].(string)

		switch selected, _ := entry["selected"].(bool); {
		case settling:
		case selected:
			m.sid = id
		case m.sid == id:
			m.sid = 0
		}

		seen[id] = true
		m.order = append(m.order, id)
	}

	for id := range m.tracks {
		if !seen[id] {
			delete(m.tracks, id)
		}
	}
	if !seen[m.sid] {
		m.sid = 0
	}
}

// AttachTrack sideloads a caption file without selecting it.
func (m *MPV) AttachTrack(spec TrackSpec) (Track, error) {
	if _, err := m.sendCommand("sub-add", spec.SourceURL, "auto", spec.Label, spec.Language); err != nil {
		return nil, fmt.Errorf("sub-add %s: %w", spec.SourceURL, err)
	}

	data, err := m.sendCommand("get_property", "track-list")
	if err != nil {
		return nil, fmt.Errorf("read track-list: %w", err)
	}

	list, ok := data.([]interface{})
	if !ok {
		return nil, fmt.Errorf("track-list: expected array, got %T", data)
	}
	m.refreshTracks(list)

	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	track, found := lo.Find(lo.Values(m.tracks), func(t *mpvTrack) bool {
		return t.external != "" && (t.external == spec.SourceURL || strings.HasSuffix(spec.SourceURL, t.external))
	})
	if !found {
		return nil, fmt.Errorf("sideloaded track %s not found in track-list", spec.SourceURL)
	}
	return track, nil
}
