package caption

import (
	"github.com/anisan-cli/playnorm/log"
	"github.com/anisan-cli/playnorm/player"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Source is a caption file the consumer can sideload.
type Source struct {
	Language string
	Label    string
	URL      string
}

// Set is the candidate caption set offered with a selection request.
type Set []Source

// Tracks is the slice of the primitive the synchronizer needs. Primitives that
// also implement player.TrackAttacher can sideload external captions.
type Tracks interface {
	TextTracks() []player.Track
}

// CueFunc receives raw cues from the selected track, tagged with the entry id
// the hook was installed for.
type CueFunc func(entryID string, cues []string)

// DriftKind classifies the outcome of DetectDrift.
type DriftKind int

const (
	DriftUnchanged DriftKind = iota
	DriftNone
	DriftLanguage
)

// Drift is the outcome of DetectDrift. Language is set for DriftLanguage.
type Drift struct {
	Kind     DriftKind
	Language string
}

// Synchronizer applies caption selections to native tracks and guards against
// modes the primitive changes on its own. It is not safe for concurrent use;
// the owning session serializes access.
type Synchronizer struct {
	registry *Registry
	tracks   Tracks
	onCue    CueFunc

	active  *Entry
	hooked  player.Track
	lastCue string
}

// NewSynchronizer wires a registry to a primitive's tracks.
func NewSynchronizer(registry *Registry, tracks Tracks, onCue CueFunc) *Synchronizer {
	return &Synchronizer{
		registry: registry,
		tracks:   tracks,
		onCue:    onCue,
	}
}

// Registry returns the underlying registry.
func (s *Synchronizer) Registry() *Registry {
	return s.registry
}

// Active returns the selected entry, if any.
func (s *Synchronizer) Active() mo.Option[*Entry] {
	if s.active == nil {
		return mo.None[*Entry]()
	}
	return mo.Some(s.active)
}

// Ingest registers native tracks the registry has not seen yet, recording
// their current mode. It reports whether anything was added.
func (s *Synchronizer) Ingest() bool {
	added := false
	for _, track := range s.tracks.TextTracks() {
		if s.registry.Exists(Match{Native: mo.Some(track)}) {
			continue
		}
		s.registry.Add(Entry{
			Label:    track.Label(),
			Language: track.Language(),
			Mode:     track.Mode(),
			Native:   track,
		}, false)
		added = true
	}
	return added
}

// Select makes the track named by key the single active track with the given
// mode and disables every other one. key is a language key or a registry id;
// an empty key disables everything. An unknown key is a silent no-op and
// reports false.
func (s *Synchronizer) Select(key string, set Set, mode player.Mode) bool {
	s.Ingest()

	if key == "" {
		s.disableAll()
		s.activate(nil)
		return true
	}

	target, ok := s.resolve(key, set)
	if !ok {
		log.Debugf("captions: no track for %q", key)
		return false
	}

	for _, entry := range s.registry.entries {
		if entry == target {
			s.apply(entry, mode)
		} else {
			s.apply(entry, player.ModeDisabled)
		}
	}
	s.activate(target)
	return true
}

// SetMode changes the mode of the active track without changing the selection.
func (s *Synchronizer) SetMode(mode player.Mode) {
	if s.active == nil {
		return
	}
	if mode == player.ModeDisabled {
		s.Select("", nil, mode)
		return
	}
	s.apply(s.active, mode)
}

// Reset forgets every track. Called when the source changes.
func (s *Synchronizer) Reset() {
	s.activate(nil)
	s.registry.Clear()
}

// resolve finds or creates the entry named by key.
func (s *Synchronizer) resolve(key string, set Set) (*Entry, bool) {
	if entry, ok := s.registry.Find(Match{ID: mo.Some(key)}); ok {
		return s.reattach(entry), true
	}

	if source, ok := lo.Find(set, func(src Source) bool { return src.Language == key }); ok {
		if entry, ok := s.registry.Find(Match{External: mo.Some(true), SourceURL: mo.Some(source.URL)}); ok {
			return s.reattach(entry), true
		}
		if entry, ok := s.sideload(source); ok {
			return entry, true
		}
	}

	if entry, ok := s.registry.Find(Match{External: mo.Some(true), Language: mo.Some(key)}); ok {
		return s.reattach(entry), true
	}
	return s.registry.Find(Match{External: mo.Some(false), Language: mo.Some(key)})
}

// sideload registers a caption file and attaches it to the primitive.
func (s *Synchronizer) sideload(source Source) (*Entry, bool) {
	if _, ok := s.tracks.(player.TrackAttacher); !ok {
		log.Warnf("captions: primitive cannot sideload %s", source.URL)
		return nil, false
	}

	id := s.registry.Add(Entry{
		Label:     source.Label,
		SourceURL: source.URL,
		Language:  source.Language,
	}, true)

	entry, ok := s.registry.Find(Match{ID: mo.Some(id)})
	if !ok {
		return nil, false
	}
	return s.reattach(entry), true
}

// reattach retries the primitive attachment of a sideloaded entry whose
// earlier attempt failed. Entries with a native track are returned as is.
func (s *Synchronizer) reattach(entry *Entry) *Entry {
	if entry.Native != nil || !entry.External || entry.SourceURL == "" {
		return entry
	}

	attacher, ok := s.tracks.(player.TrackAttacher)
	if !ok {
		return entry
	}

	native, err := attacher.AttachTrack(player.TrackSpec{
		ID:        entry.ID,
		Label:     entry.Label,
		Language:  entry.Language,
		SourceURL: entry.SourceURL,
	})
	if err != nil {
		log.Warnf("captions: sideload %s: %v", entry.SourceURL, err)
		return entry
	}

	if updated, ok := s.registry.Update(Match{ID: mo.Some(entry.ID)}, Patch{Native: mo.Some(native)}); ok {
		return updated
	}
	return entry
}

func (s *Synchronizer) apply(entry *Entry, mode player.Mode) {
	entry.Mode = mode
	if entry.Native != nil && entry.Native.Mode() != mode {
		entry.Native.SetMode(mode)
	}
}

func (s *Synchronizer) disableAll() {
	for _, entry := range s.registry.entries {
		s.apply(entry, player.ModeDisabled)
	}
}

// activate moves the cue hook to entry. Deselected tracks lose their hook so
// stale cue text never reaches the consumer.
func (s *Synchronizer) activate(entry *Entry) {
	if s.active == entry && (entry == nil || entry.Native == s.hooked) {
		return
	}

	if s.hooked != nil {
		s.hooked.OnCueChange(nil)
		s.hooked = nil
	}

	if s.active != entry {
		s.active = entry
		s.lastCue = ""
	}

	if entry != nil && entry.Native != nil {
		id := entry.ID
		entry.Native.OnCueChange(func(cues []string) {
			if s.onCue != nil {
				s.onCue(id, cues)
			}
		})
		s.hooked = entry.Native
	}
}

// Cue normalizes cues delivered for entryID and reports whether the text
// differs from the last forwarded text. Cues from a deselected track are dropped.
func (s *Synchronizer) Cue(entryID string, cues []string) (string, bool) {
	if s.active == nil || s.active.ID != entryID {
		return "", false
	}

	text := NormalizeCue(cues)
	if text == s.lastCue {
		return "", false
	}
	s.lastCue = text
	return text, true
}

// DetectDrift compares every native track's live mode with the registry.
// Before playback starts the primitive is authoritative, since some apply a
// default language on their own; afterwards the registry is, and native
// tracks are forced back.
func (s *Synchronizer) DetectDrift(playbackStarted bool) Drift {
	changed := false
	for _, entry := range s.registry.entries {
		if entry.Native == nil {
			continue
		}
		live := entry.Native.Mode()
		if live == entry.Mode {
			continue
		}

		changed = true
		if playbackStarted {
			log.Debugf("captions: forcing %s back to %s (was %s)", entry.ID, entry.Mode, live)
			entry.Native.SetMode(entry.Mode)
		} else {
			log.Debugf("captions: adopting native mode %s for %s (was %s)", live, entry.ID, entry.Mode)
			entry.Mode = live
		}
	}

	if !changed || playbackStarted {
		return Drift{Kind: DriftUnchanged}
	}

	var selected *Entry
	for _, entry := range s.registry.entries {
		if entry.Mode == player.ModeDisabled {
			continue
		}
		if selected == nil {
			selected = entry
			continue
		}
		s.apply(entry, player.ModeDisabled)
	}

	if selected == nil {
		if s.active == nil {
			return Drift{Kind: DriftUnchanged}
		}
		s.activate(nil)
		return Drift{Kind: DriftNone}
	}

	if selected == s.active {
		return Drift{Kind: DriftUnchanged}
	}
	s.activate(selected)
	return Drift{Kind: DriftLanguage, Language: selected.Key()}
}

// Available builds the caption announcement. When an external and an internal
// track share a language key, the external one is announced.
func (s *Synchronizer) Available() Announcement {
	announcement := Announcement{Locale: make(map[string]string)}
	external := make(map[string]bool)

	for _, entry := range s.registry.entries {
		key := entry.Key()
		label := entry.Label
		if label == "" {
			label = key
		}

		if _, seen := announcement.Locale[key]; !seen {
			announcement.Languages = append(announcement.Languages, key)
		} else if external[key] || !entry.External {
			continue
		}

		announcement.Locale[key] = label
		external[key] = entry.External
	}

	return announcement
}
