package watchdog

import (
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type fakeProbe struct {
	mu    sync.Mutex
	state State
}

func (p *fakeProbe) Snapshot() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *fakeProbe) set(fn func(*State)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.state)
}

func TestWatchdog(t *testing.T) {
	Convey("Given a watchdog observing playback at 10s", t, func() {
		probe := &fakeProbe{state: State{Time: 10}}
		var stalls, recoveries int
		w := New(probe, Options{
			// long enough that only manual ticks run
			Interval:  time.Hour,
			OnStall:   func() { stalls++ },
			OnRecover: func() { recoveries++ },
		})
		defer w.Stop()

		So(w.Status(), ShouldEqual, Idle)

		Convey("Ticks before Start do nothing", func() {
			w.Tick()
			So(stalls, ShouldEqual, 0)
			So(w.Status(), ShouldEqual, Idle)
		})

		Convey("Once started", func() {
			w.Start()
			So(w.Running(), ShouldBeTrue)
			So(w.Status(), ShouldEqual, Watching)

			Convey("A frozen position signals a stall exactly once", func() {
				w.Tick()
				So(stalls, ShouldEqual, 1)
				So(w.Status(), ShouldEqual, Stalled)

				w.Tick()
				So(stalls, ShouldEqual, 1)

				Convey("and an advancing position recovers exactly once", func() {
					probe.set(func(s *State) { s.Time = 10.3 })
					w.Tick()
					So(recoveries, ShouldEqual, 1)
					So(w.Status(), ShouldEqual, Watching)

					probe.set(func(s *State) { s.Time = 10.6 })
					w.Tick()
					So(recoveries, ShouldEqual, 1)
					So(stalls, ShouldEqual, 1)
				})

				Convey("and a second episode signals again", func() {
					probe.set(func(s *State) { s.Time = 11 })
					w.Tick()
					w.Tick()
					So(stalls, ShouldEqual, 2)
					So(recoveries, ShouldEqual, 1)
				})
			})

			Convey("A paused player never stalls", func() {
				probe.set(func(s *State) { s.Paused = true })
				w.Tick()
				w.Tick()
				So(stalls, ShouldEqual, 0)
			})

			Convey("An ended stream stops the watchdog", func() {
				probe.set(func(s *State) { s.Ended = true })
				w.Tick()
				So(w.Status(), ShouldEqual, Stopped)
				So(w.Running(), ShouldBeFalse)
				So(stalls, ShouldEqual, 0)
			})

			Convey("Start is a no-op while running", func() {
				probe.set(func(s *State) { s.Time = 50 })
				w.Start()
				w.Tick()
				// the recorded position is still 10, so 50 counts as progress
				So(stalls, ShouldEqual, 0)
			})

			Convey("Stop resets the episode and ignores stray ticks", func() {
				w.Tick()
				So(stalls, ShouldEqual, 1)
				w.Stop()
				So(w.Status(), ShouldEqual, Stopped)

				w.Tick()
				So(stalls, ShouldEqual, 1)
				So(recoveries, ShouldEqual, 0)

				w.Start()
				w.Tick()
				So(stalls, ShouldEqual, 2)
			})
		})
	})
}

func TestWatchdogLoop(t *testing.T) {
	Convey("The poll loop ticks on its own", t, func() {
		probe := &fakeProbe{state: State{Time: 3}}
		stalled := make(chan struct{}, 1)
		w := New(probe, Options{
			Interval: 5 * time.Millisecond,
			OnStall: func() {
				select {
				case stalled <- struct{}{}:
				default:
				}
			},
		})
		w.Start()
		defer w.Stop()

		select {
		case <-stalled:
			So(w.Status(), ShouldEqual, Stalled)
		case <-time.After(2 * time.Second):
			So("no stall within 2s", ShouldBeEmpty)
		}
	})
}

func TestStatusString(t *testing.T) {
	Convey("Status names", t, func() {
		So(Idle.String(), ShouldEqual, "idle")
		So(Stalled.String(), ShouldEqual, "stalled")
		So(Status(42).String(), ShouldEqual, "unknown")
	})
}
