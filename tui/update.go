// Package tui provides the interactive terminal controller over a playback session.
package tui

import (
	"github.com/anisan-cli/playnorm/event"
	"github.com/anisan-cli/playnorm/internal/ui"
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if cmd := b.notifier.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case eventMsg:
		cmds = append(cmds, b.handleEvent(event.Event(msg)), b.waitForEvent())
	case feedClosedMsg:
		return b, tea.Quit
	case captionsSelectedMsg:
		b.language = string(msg)
		if b.language == "" {
			b.cue = ""
			cmds = append(cmds, ui.Notify("captions off"))
		} else {
			cmds = append(cmds, ui.Notify("captions "+b.languageLabel(b.language)))
		}
	case spinner.TickMsg:
		if b.state == loadingState {
			var cmd tea.Cmd
			b.spinnerC, cmd = b.spinnerC.Update(msg)
			cmds = append(cmds, cmd)
		}
	case tea.KeyMsg:
		if bubblesKey.Matches(msg, b.keymap.forceQuit) {
			return b, tea.Quit
		}

		switch b.state {
		case captionsState:
			cmds = append(cmds, b.updateCaptions(msg))
		case errorState:
			if bubblesKey.Matches(msg, b.keymap.quit) {
				return b, tea.Quit
			}
		default:
			if bubblesKey.Matches(msg, b.keymap.quit) {
				return b, tea.Quit
			}
			cmds = append(cmds, b.updatePlayback(msg))
		}
	}

	return b, tea.Batch(cmds...)
}

func (b *statefulBubble) updatePlayback(msg tea.KeyMsg) tea.Cmd {
	switch {
	case b.state == endedState && bubblesKey.Matches(msg, b.keymap.replay):
		return b.replay()
	case bubblesKey.Matches(msg, b.keymap.playPause):
		return b.togglePlayback()
	case bubblesKey.Matches(msg, b.keymap.forward):
		return b.seekBy(seekStep)
	case bubblesKey.Matches(msg, b.keymap.backward):
		return b.seekBy(-seekStep)
	case bubblesKey.Matches(msg, b.keymap.volumeUp):
		return b.changeVolume(volumeStep)
	case bubblesKey.Matches(msg, b.keymap.volumeDown):
		return b.changeVolume(-volumeStep)
	case bubblesKey.Matches(msg, b.keymap.mute):
		return b.toggleMute()
	case bubblesKey.Matches(msg, b.keymap.cycleCaptions):
		return b.cycleCaptions()
	case bubblesKey.Matches(msg, b.keymap.chooseCaptions):
		if len(b.languages) == 0 {
			return ui.Notify("no captions available")
		}
		b.enterCaptions()
	case bubblesKey.Matches(msg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	return nil
}

func (b *statefulBubble) updateCaptions(msg tea.KeyMsg) tea.Cmd {
	switch {
	case bubblesKey.Matches(msg, b.keymap.back), bubblesKey.Matches(msg, b.keymap.quit):
		b.leaveCaptions()
		return nil
	case bubblesKey.Matches(msg, b.keymap.confirm):
		item, ok := b.captionsC.SelectedItem().(*captionItem)
		b.leaveCaptions()
		if !ok {
			return nil
		}
		return b.selectCaptions(item.key)
	}

	var cmd tea.Cmd
	b.captionsC, cmd = b.captionsC.Update(msg)
	return cmd
}
