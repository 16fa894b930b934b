// Package tui provides the interactive terminal controller over a playback session.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init starts the spinner and begins draining session notifications.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, b.waitForEvent())
}
