// Package tui provides the interactive terminal controller over a playback session.
package tui

type state int

const (
	loadingState state = iota
	playingState
	captionsState
	endedState
	errorState
)
