package tui

import (
	"testing"
	"time"

	"github.com/anisan-cli/playnorm/event"
	"github.com/anisan-cli/playnorm/internal/ui"
	"github.com/anisan-cli/playnorm/player"
	"github.com/anisan-cli/playnorm/session"
	tea "github.com/charmbracelet/bubbletea"
	. "github.com/smartystreets/goconvey/convey"
)

func newController() (*fakePrimitive, *session.Session, *statefulBubble) {
	prim := newFakePrimitive()
	feed := NewFeed(256)

	options := session.DefaultOptions()
	options.WatchdogInterval = time.Hour
	s := session.New(prim, options, feed.Handle)

	b := newBubble(&Options{Session: s, Feed: feed, Title: "demo", CaptionsMode: player.ModeShowing})
	b.resize(80, 40)

	s.SetSource("https://cdn.example.com/demo.mp4", "video/mp4", false)
	s.Load(false)
	prim.raise(player.LoadStart, player.MetadataReady)
	drain(b)

	return prim, s, b
}

func TestNextLanguage(t *testing.T) {
	Convey("Caption cycling", t, func() {
		languages := []string{"en", "fr", "de"}

		So(nextLanguage(languages, ""), ShouldEqual, "en")
		So(nextLanguage(languages, "en"), ShouldEqual, "fr")
		So(nextLanguage(languages, "de"), ShouldEqual, "")
		So(nextLanguage(languages, "ja"), ShouldEqual, "en")
		So(nextLanguage(nil, "en"), ShouldEqual, "")
	})
}

func TestCaptionItems(t *testing.T) {
	Convey("Caption picker items", t, func() {
		items := captionItems([]string{"en", "pt-BR"}, map[string]string{"en": "English"}, "en")

		So(items, ShouldHaveLength, 3)

		off := items[0].(*captionItem)
		So(off.key, ShouldBeEmpty)
		So(off.active, ShouldBeFalse)
		So(off.Description(), ShouldEqual, "hide captions")

		english := items[1].(*captionItem)
		So(english.label, ShouldEqual, "English")
		So(english.active, ShouldBeTrue)

		So(items[2].(*captionItem).label, ShouldEqual, "pt-BR")
	})
}

func TestFeed(t *testing.T) {
	Convey("Given a feed", t, func() {
		feed := NewFeed(1)
		b := newBubble(&Options{Feed: feed})

		Convey("Notifications are delivered as messages", func() {
			feed.Handle(event.Event{Type: event.Playing})
			So(b.waitForEvent()(), ShouldResemble, eventMsg(event.Event{Type: event.Playing}))
		})

		Convey("Closing wakes the interface and unblocks senders", func() {
			feed.Handle(event.Event{Type: event.Play})
			feed.Close()
			feed.Close()

			done := make(chan struct{})
			go func() {
				feed.Handle(event.Event{Type: event.Paused})
				close(done)
			}()

			var unblocked bool
			select {
			case <-done:
				unblocked = true
			case <-time.After(time.Second):
			}
			So(unblocked, ShouldBeTrue)

			<-feed.events
			So(b.waitForEvent()(), ShouldResemble, feedClosedMsg{})
		})
	})
}

func TestController(t *testing.T) {
	Convey("Given a controller over a loaded source", t, func() {
		prim, s, b := newController()
		defer s.Destroy()

		Convey("Native caption tracks are announced", func() {
			So(b.languages, ShouldResemble, []string{"en", "fr"})
			So(b.state, ShouldEqual, loadingState)
		})

		Convey("Space toggles playback", func() {
			_, cmd := b.Update(tea.KeyMsg{Type: tea.KeySpace})
			run(b, cmd)
			So(prim.plays, ShouldEqual, 1)

			prim.raise(player.Playing)
			drain(b)
			So(b.state, ShouldEqual, playingState)
			So(b.paused, ShouldBeFalse)

			_, cmd = b.Update(tea.KeyMsg{Type: tea.KeySpace})
			run(b, cmd)
			So(prim.pauses, ShouldEqual, 1)
		})

		Convey("Arrows seek ten seconds from the playhead", func() {
			prim.current = 20
			prim.raise(player.TimeUpdate)
			drain(b)
			So(b.playhead.CurrentTime, ShouldEqual, 20)
			So(b.state, ShouldEqual, playingState)

			Convey("Forward", func() {
				_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyRight})
				run(b, cmd)
				So(prim.seeks, ShouldResemble, []float64{30})
			})

			Convey("Backward", func() {
				_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyLeft})
				run(b, cmd)
				So(prim.seeks, ShouldResemble, []float64{10})
			})
		})

		Convey("Backward never goes before the start", func() {
			prim.current = 4
			prim.raise(player.TimeUpdate)
			drain(b)

			_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyLeft})
			run(b, cmd)
			So(prim.seeks, ShouldResemble, []float64{0})
		})

		Convey("Volume and mute go through the session", func() {
			_, cmd := b.Update(keyRunes("-"))
			run(b, cmd)
			So(prim.volume, ShouldAlmostEqual, 0.9)

			_, cmd = b.Update(keyRunes("m"))
			run(b, cmd)
			So(prim.muted, ShouldBeTrue)

			prim.raise(player.VolumeChange)
			drain(b)
			So(b.volume, ShouldAlmostEqual, 90)
			So(b.muted, ShouldBeTrue)

			_, cmd = b.Update(keyRunes("m"))
			run(b, cmd)
			So(prim.muted, ShouldBeFalse)
		})

		Convey("c cycles through the languages and then off", func() {
			_, cmd := b.Update(keyRunes("c"))
			So(run(b, cmd), ShouldContain, captionsSelectedMsg("en"))
			So(b.language, ShouldEqual, "en")
			So(prim.tracks[0].mode, ShouldEqual, player.ModeShowing)

			_, cmd = b.Update(keyRunes("c"))
			run(b, cmd)
			So(b.language, ShouldEqual, "fr")
			So(prim.tracks[0].mode, ShouldEqual, player.ModeDisabled)
			So(prim.tracks[1].mode, ShouldEqual, player.ModeShowing)

			_, cmd = b.Update(keyRunes("c"))
			run(b, cmd)
			So(b.language, ShouldBeEmpty)
			So(prim.tracks[1].mode, ShouldEqual, player.ModeDisabled)
		})

		Convey("The caption picker selects a language", func() {
			prim.raise(player.Playing)
			drain(b)

			b.Update(keyRunes("C"))
			So(b.state, ShouldEqual, captionsState)
			So(b.captionsC.Items(), ShouldHaveLength, 3)

			b.Update(tea.KeyMsg{Type: tea.KeyDown})
			b.Update(tea.KeyMsg{Type: tea.KeyDown})
			_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyEnter})
			So(b.state, ShouldEqual, playingState)

			run(b, cmd)
			So(b.language, ShouldEqual, "fr")

			Convey("Escape leaves without selecting", func() {
				b.Update(keyRunes("C"))
				_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyEsc})
				So(cmd, ShouldBeNil)
				So(b.state, ShouldEqual, playingState)
				So(b.language, ShouldEqual, "fr")
			})
		})

		Convey("Ended offers a replay", func() {
			prim.raise(player.Playing)
			prim.current = 100
			prim.eof = true
			prim.raise(player.Ended)
			drain(b)
			So(b.state, ShouldEqual, endedState)
			So(b.View(), ShouldContainSubstring, "Finished")

			_, cmd := b.Update(keyRunes("r"))
			run(b, cmd)
			So(prim.plays, ShouldEqual, 1)
			So(s.Ended(), ShouldBeFalse)
		})

		Convey("Errors are shown", func() {
			prim.raiseError(player.ErrCodeNetwork)
			drain(b)
			So(b.state, ShouldEqual, errorState)
			So(b.View(), ShouldContainSubstring, "network error")
		})

		Convey("Blocked unmuted playback falls back to muted playback", func() {
			cmd := b.handleEvent(event.Event{Type: event.UnmutedPlaybackFailed})
			msgs := run(b, cmd)

			So(msgs, ShouldContain, ui.NotificationMsg("unmuted playback was blocked, press m to unmute"))
			So(prim.muted, ShouldBeTrue)
			So(prim.plays, ShouldEqual, 1)
		})

		Convey("Cues are displayed while playing", func() {
			prim.raise(player.Playing)
			b.handleEvent(event.Event{Type: event.CueChanged, Text: "Hello there"})
			drain(b)
			So(b.View(), ShouldContainSubstring, "Hello there")
		})

		Convey("q quits", func() {
			_, cmd := b.Update(keyRunes("q"))
			So(cmd(), ShouldResemble, tea.QuitMsg{})
		})
	})
}
