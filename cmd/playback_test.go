package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/anisan-cli/playnorm/caption"
	"github.com/anisan-cli/playnorm/event"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseCaptionFiles(t *testing.T) {
	Convey("Caption file flags", t, func() {
		Convey("Language and label are split from the url", func() {
			set, err := parseCaptionFiles([]string{
				"en=https://example.com/en.vtt",
				"pt-BR:Português=https://example.com/pt.vtt?token=a=b",
			})

			So(err, ShouldBeNil)
			So(set, ShouldResemble, caption.Set{
				{Language: "en", URL: "https://example.com/en.vtt"},
				{Language: "pt-BR", Label: "Português", URL: "https://example.com/pt.vtt?token=a=b"},
			})
		})

		Convey("Malformed values are rejected", func() {
			for _, value := range []string{"https://example.com/en.vtt", "=https://example.com/en.vtt", "en="} {
				_, err := parseCaptionFiles([]string{value})
				So(err, ShouldNotBeNil)
			}
		})
	})
}

func TestTitleOf(t *testing.T) {
	Convey("Titles default to the file name", t, func() {
		So(titleOf("https://cdn.example.com/shows/pilot.mp4?cb=1"), ShouldEqual, "pilot.mp4")
		So(titleOf("https://cdn.example.com/"), ShouldEqual, "cdn.example.com")
		So(titleOf("/home/me/video.mkv"), ShouldEqual, "video.mkv")
	})
}

func TestAnnounce(t *testing.T) {
	Convey("Caption files are announced once per language", t, func() {
		announcement := announce(caption.Set{
			{Language: "en", Label: "English", URL: "a.vtt"},
			{Language: "de", URL: "b.vtt"},
			{Language: "en", Label: "English SDH", URL: "c.vtt"},
		})

		So(announcement.Languages, ShouldResemble, []string{"en", "de"})
		So(announcement.Locale["en"], ShouldEqual, "English")
		So(announcement.Locale["de"], ShouldEqual, "de")

		language, ok := caption.MatchLanguage("engl", announcement)
		So(ok, ShouldBeTrue)
		So(language, ShouldEqual, "en")
	})
}

func TestEventPrinter(t *testing.T) {
	Convey("Given an event printer", t, func() {
		var out bytes.Buffer

		Convey("JSON output is one object per line", func() {
			printer := newEventPrinter(&out, true)
			printer.print(event.Event{Type: event.VolumeChange, Volume: lo.ToPtr(40.0)})
			printer.print(event.Event{Type: event.Ended})

			lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
			So(lines, ShouldHaveLength, 2)

			var decoded event.Event
			So(json.Unmarshal(lines[0], &decoded), ShouldBeNil)
			So(decoded.Type, ShouldEqual, event.VolumeChange)
			So(*decoded.Volume, ShouldEqual, 40)
		})

		Convey("Text output describes the event", func() {
			printer := newEventPrinter(&out, false)
			printer.print(event.Event{Type: event.Error, Code: 2})

			So(out.String(), ShouldContainSubstring, "error code=2")
		})

		Convey("Position events are throttled per type", func() {
			printer := newEventPrinter(&out, true)
			printer.throttle(1)

			for range 5 {
				printer.print(event.Event{Type: event.TimeUpdate, Playhead: &event.Playhead{CurrentTime: 1}})
			}
			printer.print(event.Event{Type: event.Progress, Playhead: &event.Playhead{CurrentTime: 1}})
			printer.print(event.Event{Type: event.Paused})

			lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
			So(lines, ShouldHaveLength, 3)
		})

		Convey("A zero rate prints every position event", func() {
			printer := newEventPrinter(&out, true)
			printer.throttle(0)

			for range 3 {
				printer.print(event.Event{Type: event.TimeUpdate, Playhead: &event.Playhead{}})
			}

			lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
			So(lines, ShouldHaveLength, 3)
		})
	})
}
