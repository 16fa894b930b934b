// Package tui provides the interactive terminal controller over a playback session.
package tui

import (
	"fmt"
	"strings"

	"github.com/anisan-cli/playnorm/color"
	"github.com/anisan-cli/playnorm/icon"
	"github.com/anisan-cli/playnorm/player"
	"github.com/anisan-cli/playnorm/style"
	"github.com/anisan-cli/playnorm/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
	cueStyle              = lipgloss.NewStyle().Bold(true).Foreground(style.Text)
	captionLabelStyle     = lipgloss.NewStyle().Foreground(style.CaptionColor)
)

func (b *statefulBubble) View() string {
	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case playingState:
		output = b.viewPlaying()
	case captionsState:
		output = b.viewCaptions()
	case endedState:
		output = b.viewEnded()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notifier.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			b.viewTitle(),
			"",
			b.spinnerC.View() + " Loading",
		},
	)
}

func (b *statefulBubble) viewPlaying() string {
	lines := []string{
		b.viewTitle(),
		"",
		b.viewStatus(),
		b.progressC.ViewAs(b.fraction()),
		"",
	}

	if b.cue != "" {
		lines = append(lines, cueStyle.Render(b.wrapCue(b.cue)))
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewCaptions() string {
	return listExtraPaddingStyle.Render(b.captionsC.View())
}

func (b *statefulBubble) viewEnded() string {
	return b.renderLines(
		true,
		[]string{
			b.viewTitle(),
			"",
			style.Fg(style.EndedColor)(icon.Get(icon.Ended)+" Finished") + " " + style.Faint(util.Clock(b.playhead.Duration)),
			b.progressC.ViewAs(1),
		},
	)
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	errorBody := errorStyle.Render(player.ErrorText(b.errorCode))
	if b.width > 0 {
		errorBody = wrap.String(errorBody, b.width)
	}

	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " Playback failed:",
			"",
			errorBody,
		},
	)
}

func (b *statefulBubble) viewTitle() string {
	title := style.Title(b.title)
	if b.session != nil && b.session.Live() {
		title += " " + style.Tag(color.White, color.Red)("LIVE")
	}
	return title
}

// viewStatus renders the playback icon, the clock and the audio state.
func (b *statefulBubble) viewStatus() string {
	var state string
	switch {
	case b.stalled:
		state = style.Fg(style.StalledColor)(icon.Get(icon.Stalled))
	case b.paused:
		state = style.Fg(style.PausedColor)(icon.Get(icon.Pause))
	default:
		state = style.Fg(style.PlayingColor)(icon.Get(icon.Play))
	}

	position := util.Clock(b.playhead.CurrentTime)
	if b.playhead.Duration > 0 {
		position += " / " + util.Clock(b.playhead.Duration)
	}

	audio := fmt.Sprintf("%s %.0f%%", icon.Get(icon.Volume), b.volume)
	if b.muted {
		audio = icon.Get(icon.Mute) + " muted"
	}

	parts := []string{state, position, style.Faint(audio)}
	if b.language != "" {
		parts = append(parts, captionLabelStyle.Render(icon.Get(icon.Captions)+" "+b.languageLabel(b.language)))
	}
	return strings.Join(parts, "  ")
}

// fraction is the played share of the seekable duration.
func (b *statefulBubble) fraction() float64 {
	if b.playhead.Duration <= 0 {
		return 0
	}
	return util.Clamp(b.playhead.CurrentTime/b.playhead.Duration, 0, 1)
}

func (b *statefulBubble) wrapCue(text string) string {
	x, _ := paddingStyle.GetFrameSize()
	if width := b.width - x; width > 0 {
		return wordwrap.String(text, width)
	}
	return text
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h+3 {
			l += strings.Repeat("\n", b.height-h-3)
		}
		l += "\n" + b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
