package caption

import (
	"testing"

	"github.com/anisan-cli/playnorm/player"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func nonDisabled(r *Registry) []*Entry {
	return lo.Filter(r.Entries(), func(e *Entry, _ int) bool { return e.Mode != player.ModeDisabled })
}

func TestSelect(t *testing.T) {
	Convey("Given a primitive with two native tracks", t, func() {
		en := &fakeTrack{label: "English", language: "en", mode: player.ModeDisabled}
		de := &fakeTrack{label: "Deutsch", language: "de", mode: player.ModeDisabled}
		prim := &fakeTracks{tracks: []*fakeTrack{en, de}}

		type cue struct {
			id   string
			cues []string
		}
		var received []cue
		sync := NewSynchronizer(NewRegistry(), prim, func(id string, cues []string) {
			received = append(received, cue{id, cues})
		})

		Convey("Selecting a language shows exactly one track", func() {
			So(sync.Select("de", nil, player.ModeShowing), ShouldBeTrue)
			So(de.mode, ShouldEqual, player.ModeShowing)
			So(en.mode, ShouldEqual, player.ModeDisabled)
			So(nonDisabled(sync.Registry()), ShouldHaveLength, 1)
			So(sync.Active().MustGet().Native, ShouldEqual, de)

			Convey("and switching moves the cue hook", func() {
				So(sync.Select("en", nil, player.ModeShowing), ShouldBeTrue)
				So(de.cue, ShouldBeNil)
				So(en.cue, ShouldNotBeNil)
				So(nonDisabled(sync.Registry()), ShouldHaveLength, 1)
			})

			Convey("and a null key disables everything", func() {
				So(sync.Select("", nil, player.ModeShowing), ShouldBeTrue)
				So(nonDisabled(sync.Registry()), ShouldBeEmpty)
				So(sync.Registry().AllDisabled(), ShouldBeTrue)
				So(de.cue, ShouldBeNil)
				So(sync.Active().IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("Selecting by registry id works", func() {
			sync.Ingest()
			So(sync.Select("native2", nil, player.ModeHidden), ShouldBeTrue)
			So(de.mode, ShouldEqual, player.ModeHidden)
		})

		Convey("An unknown key is a no-op", func() {
			So(sync.Select("ja", nil, player.ModeShowing), ShouldBeFalse)
			So(nonDisabled(sync.Registry()), ShouldBeEmpty)
		})

		Convey("An external source is sideloaded once", func() {
			set := Set{{Language: "en", Label: "English (file)", URL: "https://cdn/en.vtt"}}

			So(sync.Select("en", set, player.ModeShowing), ShouldBeTrue)
			So(prim.attached, ShouldHaveLength, 1)
			So(prim.attached[0].ID, ShouldEqual, "sideload1")
			So(en.mode, ShouldEqual, player.ModeDisabled)

			active := sync.Active().MustGet()
			So(active.External, ShouldBeTrue)
			So(active.Mode, ShouldEqual, player.ModeShowing)

			Convey("and reselecting with another mode updates it in place", func() {
				So(sync.Select("en", set, player.ModeHidden), ShouldBeTrue)
				So(prim.attached, ShouldHaveLength, 1)
				So(sync.Registry().External(), ShouldHaveLength, 1)
				So(sync.Active().MustGet(), ShouldEqual, active)
				So(active.Mode, ShouldEqual, player.ModeHidden)
				So(active.Native.Mode(), ShouldEqual, player.ModeHidden)
				So(nonDisabled(sync.Registry()), ShouldHaveLength, 1)
			})
		})

		Convey("A failed sideload still records the selection", func() {
			prim.failWith = errAttach
			set := Set{{Language: "fr", URL: "https://cdn/fr.vtt"}}
			So(sync.Select("fr", set, player.ModeShowing), ShouldBeTrue)
			So(sync.Active().MustGet().Native, ShouldBeNil)
			So(nonDisabled(sync.Registry()), ShouldHaveLength, 1)

			Convey("and selecting it again retries the attachment", func() {
				prim.failWith = nil
				So(sync.Select("fr", set, player.ModeShowing), ShouldBeTrue)

				active := sync.Active().MustGet()
				So(active.Native, ShouldNotBeNil)
				So(active.Native.Mode(), ShouldEqual, player.ModeShowing)
				So(prim.attached, ShouldHaveLength, 1)
				So(prim.attached[0].ID, ShouldEqual, active.ID)
				So(sync.Registry().External(), ShouldHaveLength, 1)

				Convey("and its cues reach the consumer", func() {
					prim.tracks[len(prim.tracks)-1].cue([]string{"Bonjour"})
					So(received, ShouldHaveLength, 1)
					So(received[0].id, ShouldEqual, active.ID)
				})
			})
		})

		Convey("Cues are forwarded only when the text changes", func() {
			sync.Select("en", nil, player.ModeShowing)
			So(en.cue, ShouldNotBeNil)
			en.cue([]string{"<i>Hello</i>"})
			So(received, ShouldHaveLength, 1)

			id := received[0].id
			text, ok := sync.Cue(id, received[0].cues)
			So(ok, ShouldBeTrue)
			So(text, ShouldEqual, "Hello")

			_, ok = sync.Cue(id, []string{"Hello", "Hello"})
			So(ok, ShouldBeFalse)

			_, ok = sync.Cue("native2", []string{"Hallo"})
			So(ok, ShouldBeFalse)

			text, ok = sync.Cue(id, nil)
			So(ok, ShouldBeTrue)
			So(text, ShouldEqual, "")
		})

		Convey("SetMode changes only the active track", func() {
			sync.Select("en", nil, player.ModeShowing)
			sync.SetMode(player.ModeHidden)
			So(en.mode, ShouldEqual, player.ModeHidden)
			So(de.mode, ShouldEqual, player.ModeDisabled)
		})
	})

	Convey("Given a primitive that cannot sideload", t, func() {
		fr := &fakeTrack{language: "fr", mode: player.ModeDisabled}
		prim := &readOnlyTracks{inner: fakeTracks{tracks: []*fakeTrack{fr}}}
		sync := NewSynchronizer(NewRegistry(), prim, nil)

		Convey("an external request falls back to the native track", func() {
			set := Set{{Language: "fr", URL: "https://cdn/fr.vtt"}}
			So(sync.Select("fr", set, player.ModeShowing), ShouldBeTrue)
			So(fr.mode, ShouldEqual, player.ModeShowing)
			So(sync.Registry().External(), ShouldBeEmpty)
		})
	})
}

func TestDetectDrift(t *testing.T) {
	Convey("Given synchronized tracks", t, func() {
		en := &fakeTrack{language: "en", mode: player.ModeDisabled}
		es := &fakeTrack{language: "es", mode: player.ModeDisabled}
		sync := NewSynchronizer(NewRegistry(), &fakeTracks{tracks: []*fakeTrack{en, es}}, nil)
		sync.Ingest()

		Convey("Nothing changed", func() {
			So(sync.DetectDrift(false).Kind, ShouldEqual, DriftUnchanged)
		})

		Convey("Before playback the primitive's default language is adopted", func() {
			es.mode = player.ModeShowing
			drift := sync.DetectDrift(false)
			So(drift.Kind, ShouldEqual, DriftLanguage)
			So(drift.Language, ShouldEqual, "es")
			So(sync.Active().MustGet().Native, ShouldEqual, es)

			Convey("and a later native disable reports none", func() {
				es.mode = player.ModeDisabled
				So(sync.DetectDrift(false).Kind, ShouldEqual, DriftNone)
				So(sync.Active().IsAbsent(), ShouldBeTrue)
			})
		})

		Convey("During playback the registry wins", func() {
			sync.Select("en", nil, player.ModeShowing)
			calls := en.setModeCalls

			en.mode = player.ModeDisabled
			es.mode = player.ModeShowing
			So(sync.DetectDrift(true).Kind, ShouldEqual, DriftUnchanged)
			So(en.mode, ShouldEqual, player.ModeShowing)
			So(es.mode, ShouldEqual, player.ModeDisabled)
			So(en.setModeCalls, ShouldEqual, calls+1)
		})
	})
}

func TestAvailable(t *testing.T) {
	Convey("Available prefers external tracks per language", t, func() {
		en := &fakeTrack{label: "English (stream)", language: "en", mode: player.ModeDisabled}
		ja := &fakeTrack{label: "日本語", language: "ja", mode: player.ModeDisabled}
		prim := &fakeTracks{tracks: []*fakeTrack{en, ja}}
		sync := NewSynchronizer(NewRegistry(), prim, nil)

		sync.Select("en", Set{{Language: "en", Label: "English (file)", URL: "en.vtt"}}, player.ModeShowing)
		announcement := sync.Available()

		So(announcement.Languages, ShouldResemble, []string{"en", "ja"})
		So(announcement.Locale["en"], ShouldEqual, "English (file)")
		So(announcement.Locale["ja"], ShouldEqual, "日本語")
	})
}
