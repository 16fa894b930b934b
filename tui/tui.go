// Package tui provides the interactive terminal controller over a playback session.
package tui

import (
	"sync"

	"github.com/anisan-cli/playnorm/caption"
	"github.com/anisan-cli/playnorm/event"
	"github.com/anisan-cli/playnorm/player"
	"github.com/anisan-cli/playnorm/session"
	tea "github.com/charmbracelet/bubbletea"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Session *session.Session
	Feed    *Feed
	Title   string

	// Captions are the caption files offered for sideloading.
	Captions caption.Set

	// CaptionsMode is applied to every caption selection made from the interface.
	CaptionsMode player.Mode
}

// Run initializes and executes the primary Bubble Tea application loop.
func Run(options *Options) error {
	bubble := newBubble(options)
	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}

// Feed carries session notifications into the interface. Handle never blocks
// once the feed is closed.
type Feed struct {
	events chan event.Event
	done   chan struct{}
	once   sync.Once
}

// NewFeed creates a feed buffering up to size notifications.
func NewFeed(size int) *Feed {
	return &Feed{
		events: make(chan event.Event, size),
		done:   make(chan struct{}),
	}
}

// Handle is an event.Handler.
func (f *Feed) Handle(e event.Event) {
	select {
	case f.events <- e:
	case <-f.done:
	}
}

// Close stops accepting notifications and wakes a waiting interface.
func (f *Feed) Close() {
	f.once.Do(func() { close(f.done) })
}
