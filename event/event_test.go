package event

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/anisan-cli/playnorm/seek"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestString(t *testing.T) {
	Convey("Event.String", t, func() {
		So(Event{Type: Play}.String(), ShouldEqual, "play")
		So(Event{Type: Error, Code: 3}.String(), ShouldEqual, "error code=3")
		So(Event{Type: Stalled, URL: "a.mp4"}.String(), ShouldEqual, "stalled a.mp4")

		update := Event{Type: TimeUpdate, Playhead: &Playhead{CurrentTime: 1.5, Duration: 10, Buffer: 40}}
		So(update.String(), ShouldEqual, "timeupdate 1.50/10.00 buffer=40%")

		So(Event{Type: VolumeChange, Volume: lo.ToPtr(55.0)}.String(), ShouldEqual, "volumechange 55")
		So(Event{Type: CueChanged, Text: "hi"}.String(), ShouldEqual, `closedcaptioncuechanged "hi"`)
	})
}

func TestJSON(t *testing.T) {
	Convey("Events serialize only their relevant fields", t, func() {
		data, err := json.Marshal(Event{Type: Paused})
		So(err, ShouldBeNil)
		So(string(data), ShouldEqual, `{"type":"paused"}`)

		data, err = json.Marshal(Event{Type: Progress, Playhead: &Playhead{SeekRange: seek.Range{Start: 1, End: 2}}})
		So(err, ShouldBeNil)
		So(string(data), ShouldContainSubstring, `"seekRange":{"start":1,"end":2}`)
	})
}

func TestSchema(t *testing.T) {
	Convey("Schema describes the event object", t, func() {
		data, err := SchemaJSON()
		So(err, ShouldBeNil)

		text := string(data)
		So(text, ShouldContainSubstring, `"playhead"`)
		So(text, ShouldContainSubstring, `"seekRange"`)
		So(strings.Contains(text, `"type"`), ShouldBeTrue)
	})
}
