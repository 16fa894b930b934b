package history

import (
	"testing"
	"time"

	"github.com/anisan-cli/playnorm/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestHistory(t *testing.T) {
	Convey("Given a source", t, func() {
		url := "https://cdn/movie.mp4?cb=1"
		So(Remove(url), ShouldBeNil)

		Convey("When saving a position", func() {
			err := Save(url, "Movie", 754, 5400)
			Convey("Then the error should be nil", func() {
				So(err, ShouldBeNil)

				Convey("And it should be found under any cache-buster", func() {
					position, ok, err := Lookup("https://cdn/movie.mp4?cb=2")
					So(err, ShouldBeNil)
					So(ok, ShouldBeTrue)
					So(position.Seconds, ShouldEqual, 754)
					So(position.String(), ShouldEqual, "Movie : 12:34 / 1:30:00")
				})

				Convey("And removing it should forget it", func() {
					So(Remove(url), ShouldBeNil)
					_, ok, err := Lookup(url)
					So(err, ShouldBeNil)
					So(ok, ShouldBeFalse)
				})
			})
		})

		Convey("When saving a position close to the start", func() {
			So(Save(url, "Movie", 2, 5400), ShouldBeNil)
			_, ok, _ := Lookup(url)
			So(ok, ShouldBeFalse)
		})

		Convey("When saving a position close to the end", func() {
			So(Save(url, "Movie", 754, 5400), ShouldBeNil)
			So(Save(url, "Movie", 5390, 5400), ShouldBeNil)
			_, ok, _ := Lookup(url)
			So(ok, ShouldBeFalse)
		})

		Convey("When the duration is unknown", func() {
			So(Save(url, "Live", 120, 0), ShouldBeNil)
			position, ok, _ := Lookup(url)
			So(ok, ShouldBeTrue)
			So(position.Finished(), ShouldBeFalse)
			So(position.String(), ShouldEqual, "Live : 02:00")
		})
	})
}

func TestSortByRecent(t *testing.T) {
	Convey("Positions are listed from the most recent", t, func() {
		now := time.Now()
		positions := []*Position{
			{URL: "a", UpdatedAt: now.Add(-time.Hour)},
			{URL: "b", UpdatedAt: now},
			{URL: "c", UpdatedAt: now.Add(-time.Minute)},
		}

		SortByRecent(positions)

		So(positions[0].URL, ShouldEqual, "b")
		So(positions[1].URL, ShouldEqual, "c")
		So(positions[2].URL, ShouldEqual, "a")
	})
}
