// Package caption keeps caption track bookkeeping and keeps a primitive's native
// text tracks in line with the consumer's caption selection.
package caption

import (
	"fmt"

	"github.com/anisan-cli/playnorm/constant"
	"github.com/anisan-cli/playnorm/player"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Entry is the registry's record of one caption track.
type Entry struct {
	ID        string
	Label     string
	SourceURL string
	Language  string
	Mode      player.Mode
	External  bool

	// Native is a non-owning reference to the primitive's track, used only for
	// identity comparison. The primitive owns its lifetime.
	Native player.Track
}

// Key is the language key the entry is announced under.
func (e *Entry) Key() string {
	if e.Language != "" {
		return e.Language
	}
	return e.ID
}

// Match selects entries; every present field must be equal (AND semantics).
type Match struct {
	ID        mo.Option[string]
	Label     mo.Option[string]
	SourceURL mo.Option[string]
	Language  mo.Option[string]
	Mode      mo.Option[player.Mode]
	External  mo.Option[bool]
	Native    mo.Option[player.Track]
}

func (m Match) matches(e *Entry) bool {
	check := func(opt mo.Option[string], value string) bool {
		want, ok := opt.Get()
		return !ok || want == value
	}

	if !check(m.ID, e.ID) || !check(m.Label, e.Label) || !check(m.SourceURL, e.SourceURL) || !check(m.Language, e.Language) {
		return false
	}
	if mode, ok := m.Mode.Get(); ok && mode != e.Mode {
		return false
	}
	if external, ok := m.External.Get(); ok && external != e.External {
		return false
	}
	if native, ok := m.Native.Get(); ok && native != e.Native {
		return false
	}
	return true
}

// Patch lists the fields Update overwrites.
type Patch struct {
	Label     mo.Option[string]
	SourceURL mo.Option[string]
	Language  mo.Option[string]
	Mode      mo.Option[player.Mode]
	Native    mo.Option[player.Track]
}

func (p Patch) apply(e *Entry) {
	if v, ok := p.Label.Get(); ok {
		e.Label = v
	}
	if v, ok := p.SourceURL.Get(); ok {
		e.SourceURL = v
	}
	if v, ok := p.Language.Get(); ok {
		e.Language = v
	}
	if v, ok := p.Mode.Get(); ok {
		e.Mode = v
	}
	if v, ok := p.Native.Get(); ok {
		e.Native = v
	}
}

// Registry maps track ids to caption metadata and native tracks.
// Ids are sequential per partition: sideloaded and native tracks are counted
// independently, so "sideload1" and "native1" may coexist.
type Registry struct {
	entries      []*Entry
	nextExternal int
	nextInternal int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add stores a copy of meta under the next id of its partition and returns the id.
func (r *Registry) Add(meta Entry, external bool) string {
	var id string
	if external {
		r.nextExternal++
		id = fmt.Sprintf("%s%d", constant.SideloadTrackPrefix, r.nextExternal)
	} else {
		r.nextInternal++
		id = fmt.Sprintf("%s%d", constant.NativeTrackPrefix, r.nextInternal)
	}

	entry := meta
	entry.ID = id
	entry.External = external
	if entry.Mode == "" {
		entry.Mode = player.ModeDisabled
	}

	r.entries = append(r.entries, &entry)
	return id
}

// Find returns the first entry satisfying m.
func (r *Registry) Find(m Match) (*Entry, bool) {
	return lo.Find(r.entries, m.matches)
}

// Exists reports whether any entry satisfies m.
func (r *Registry) Exists(m Match) bool {
	return lo.ContainsBy(r.entries, m.matches)
}

// Update merges p into the first entry satisfying m, in place.
func (r *Registry) Update(m Match, p Patch) (*Entry, bool) {
	entry, ok := r.Find(m)
	if !ok {
		return nil, false
	}
	p.apply(entry)
	return entry, true
}

// Entries returns every entry in insertion order.
func (r *Registry) Entries() []*Entry {
	return append([]*Entry(nil), r.entries...)
}

func (r *Registry) Internal() []*Entry {
	return lo.Filter(r.entries, func(e *Entry, _ int) bool { return !e.External })
}

func (r *Registry) External() []*Entry {
	return lo.Filter(r.entries, func(e *Entry, _ int) bool { return e.External })
}

// AllDisabled reports whether no entry is showing or hidden.
func (r *Registry) AllDisabled() bool {
	return lo.EveryBy(r.entries, func(e *Entry) bool { return e.Mode == player.ModeDisabled })
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Clear empties the registry and resets both id counters.
func (r *Registry) Clear() {
	r.entries = nil
	r.nextExternal = 0
	r.nextInternal = 0
}
