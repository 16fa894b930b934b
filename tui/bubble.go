// Package tui provides the interactive terminal controller over a playback session.
package tui

import (
	"github.com/anisan-cli/playnorm/caption"
	"github.com/anisan-cli/playnorm/event"
	"github.com/anisan-cli/playnorm/internal/ui"
	"github.com/anisan-cli/playnorm/player"
	"github.com/anisan-cli/playnorm/session"
	"github.com/anisan-cli/playnorm/style"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

// statefulBubble holds the controller state: the session it drives, the
// component models and the last known playback snapshot.
type statefulBubble struct {
	state         state
	previousState state

	keymap *statefulKeymap

	session      *session.Session
	feed         *Feed
	title        string
	captionSet   caption.Set
	captionsMode player.Mode

	// components
	spinnerC  spinner.Model
	progressC progress.Model
	helpC     help.Model
	captionsC list.Model
	notifier  ui.Model

	playhead  event.Playhead
	paused    bool
	stalled   bool
	volume    float64
	muted     bool
	cue       string
	languages []string
	locale    map[string]string
	language  string
	errorCode int

	width, height int
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

// enterCaptions opens the caption picker on top of the current state.
func (b *statefulBubble) enterCaptions() {
	b.previousState = b.state
	b.captionsC.SetItems(captionItems(b.languages, b.locale, b.language))
	b.setState(captionsState)
}

func (b *statefulBubble) leaveCaptions() {
	b.setState(b.previousState)
}

func (b *statefulBubble) resize(width, height int) {
	b.width, b.height = width, height

	x, y := paddingStyle.GetFrameSize()
	b.captionsC.SetSize(width-x, height-y)
	b.progressC.Width = max(width-x, 0)
	b.helpC.Width = width - x
}

func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := &statefulBubble{
		keymap:       keymap,
		session:      options.Session,
		feed:         options.Feed,
		title:        options.Title,
		captionSet:   options.Captions,
		captionsMode: options.CaptionsMode,
		paused:       true,
		volume:       100,
	}

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	bubble.helpC = help.New()

	bubble.captionsC = list.New(nil, list.NewDefaultDelegate(), 0, 0)
	bubble.captionsC.Title = "Captions"
	bubble.captionsC.KeyMap = keymap.forList()
	bubble.captionsC.SetFilteringEnabled(false)
	bubble.captionsC.SetShowStatusBar(false)
	bubble.captionsC.SetShowHelp(false)
	bubble.captionsC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.AccentColor).Padding(0, 1)

	bubble.setState(loadingState)
	return bubble
}
