package caption

import (
	"testing"

	"github.com/anisan-cli/playnorm/player"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRegistry(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		r := NewRegistry()

		Convey("Ids are sequential and partitioned", func() {
			So(r.Add(Entry{Language: "en"}, true), ShouldEqual, "sideload1")
			So(r.Add(Entry{Language: "fr"}, true), ShouldEqual, "sideload2")
			So(r.Add(Entry{Language: "en"}, false), ShouldEqual, "native1")
			So(r.External(), ShouldHaveLength, 2)
			So(r.Internal(), ShouldHaveLength, 1)
		})

		Convey("New entries default to disabled", func() {
			r.Add(Entry{Language: "en"}, false)
			So(r.AllDisabled(), ShouldBeTrue)
		})

		Convey("Find uses AND semantics", func() {
			r.Add(Entry{Language: "en", Label: "English"}, false)
			r.Add(Entry{Language: "en", Label: "English SDH"}, true)

			entry, ok := r.Find(Match{Language: mo.Some("en"), External: mo.Some(true)})
			So(ok, ShouldBeTrue)
			So(entry.Label, ShouldEqual, "English SDH")

			_, ok = r.Find(Match{Language: mo.Some("en"), Label: mo.Some("Deutsch")})
			So(ok, ShouldBeFalse)

			So(r.Exists(Match{Label: mo.Some("English")}), ShouldBeTrue)
		})

		Convey("Native references match by identity", func() {
			a := &fakeTrack{language: "en"}
			b := &fakeTrack{language: "en"}
			r.Add(Entry{Native: a}, false)

			So(r.Exists(Match{Native: mo.Some[player.Track](a)}), ShouldBeTrue)
			So(r.Exists(Match{Native: mo.Some[player.Track](b)}), ShouldBeFalse)
		})

		Convey("Update merges in place", func() {
			id := r.Add(Entry{Language: "en"}, true)
			entry, ok := r.Update(Match{ID: mo.Some(id)}, Patch{Mode: mo.Some(player.ModeShowing)})
			So(ok, ShouldBeTrue)
			So(entry.Mode, ShouldEqual, player.ModeShowing)
			So(entry.Language, ShouldEqual, "en")
			So(r.AllDisabled(), ShouldBeFalse)

			_, ok = r.Update(Match{ID: mo.Some("missing")}, Patch{})
			So(ok, ShouldBeFalse)
		})

		Convey("Clear resets both counters", func() {
			r.Add(Entry{}, true)
			r.Add(Entry{}, false)
			r.Clear()
			So(r.Len(), ShouldEqual, 0)
			So(r.Add(Entry{}, true), ShouldEqual, "sideload1")
			So(r.Add(Entry{}, false), ShouldEqual, "native1")
		})
	})
}
