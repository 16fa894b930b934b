// Package watchdog reconstructs the stall notification some primitives never raise.
//
// A primitive that runs dry during a network stall may simply stop advancing its
// playback position. The watchdog polls the position at a fixed cadence and
// turns "position frozen while not paused" into exactly one stall signal per
// episode, followed by exactly one recovery signal once the position moves again.
package watchdog

import (
	"math"
	"sync"
	"time"

	"github.com/anisan-cli/playnorm/log"
)

// DefaultInterval is the poll cadence used when Options.Interval is zero.
const DefaultInterval = 300 * time.Millisecond

// Status is the watchdog's lifecycle state.
type Status int

const (
	Idle Status = iota
	Watching
	Stalled
	Stopped
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Watching:
		return "watching"
	case Stalled:
		return "stalled"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// State is a read-only view of the playback the watchdog observes.
type State struct {
	Time   float64
	Paused bool
	Ended  bool
}

// Probe supplies the observed playback state on every tick.
type Probe interface {
	Snapshot() State
}

// ProbeFunc adapts a plain function to Probe.
type ProbeFunc func() State

func (f ProbeFunc) Snapshot() State { return f() }

// Options configures a Watchdog.
type Options struct {
	Interval  time.Duration
	OnStall   func()
	OnRecover func()
}

// Watchdog polls a Probe and synthesizes stall/recovery signals.
type Watchdog struct {
	probe     Probe
	interval  time.Duration
	onStall   func()
	onRecover func()

	mu       sync.Mutex
	status   Status
	lastTime float64
	signaled bool
	stop     chan struct{}
}

// unseen marks "no position recorded yet".
var unseen = math.Inf(-1)

// New creates an idle watchdog.
func New(probe Probe, opts Options) *Watchdog {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	return &Watchdog{
		probe:     probe,
		interval:  opts.Interval,
		onStall:   opts.OnStall,
		onRecover: opts.OnRecover,
		lastTime:  unseen,
	}
}

// Status returns the current lifecycle state.
func (w *Watchdog) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Running reports whether a poll loop is active.
func (w *Watchdog) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stop != nil
}

// Start begins polling from the current position. Calling it while already
// running is a no-op.
func (w *Watchdog) Start() {
	state := w.probe.Snapshot()

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stop != nil {
		return
	}

	w.stop = make(chan struct{})
	w.status = Watching
	w.signaled = false
	w.lastTime = state.Time
	go w.loop(w.stop)
}

// Stop cancels polling and resets the episode bookkeeping.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stop != nil {
		close(w.stop)
		w.stop = nil
	}
	w.status = Stopped
	w.signaled = false
	w.lastTime = unseen
}

func (w *Watchdog) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			w.Tick()
		}
	}
}

// Tick runs a single poll. The loop calls it on every interval; tests drive it directly.
func (w *Watchdog) Tick() {
	// The probe may take locks of its own, so it is read before ours.
	state := w.probe.Snapshot()

	w.mu.Lock()
	if w.status != Watching && w.status != Stalled {
		w.mu.Unlock()
		return
	}

	if state.Ended {
		if w.stop != nil {
			close(w.stop)
			w.stop = nil
		}
		w.status = Stopped
		w.signaled = false
		w.lastTime = unseen
		w.mu.Unlock()
		log.Debugf("watchdog: stream ended, stopping")
		return
	}

	var notify func()
	if !state.Paused && state.Time == w.lastTime {
		if !w.signaled {
			w.signaled = true
			w.status = Stalled
			notify = w.onStall
			log.Debugf("watchdog: position frozen at %.3f", state.Time)
		}
	} else {
		w.lastTime = state.Time
		if w.status == Stalled {
			w.signaled = false
			w.status = Watching
			notify = w.onRecover
			log.Debugf("watchdog: position advanced to %.3f", state.Time)
		}
	}
	w.mu.Unlock()

	if notify != nil {
		notify()
	}
}
