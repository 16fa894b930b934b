// Package cmd implements the command-line interface for playnorm.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/anisan-cli/playnorm/color"
	"github.com/anisan-cli/playnorm/event"
	"github.com/anisan-cli/playnorm/icon"
	"github.com/anisan-cli/playnorm/log"
	"github.com/anisan-cli/playnorm/style"
	"github.com/anisan-cli/playnorm/util"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

func init() {
	rootCmd.AddCommand(eventsCmd)
	bindPlaybackFlags(eventsCmd)

	eventsCmd.Flags().BoolP("json", "j", false, "Print every event as a JSON line")
	eventsCmd.Flags().Bool("schema", false, "Print the JSON schema of events and exit")
	eventsCmd.Flags().Bool("exit-on-end", false, "Exit once the source has ended")
	eventsCmd.Flags().Float64("position-rate", 4, "Most time-update and progress events printed per second, 0 prints all")
	eventsCmd.SetOut(os.Stdout)
}

// eventsCmd plays a source without the controller and prints its normalized events.
var eventsCmd = &cobra.Command{
	Use:   "events <url>",
	Short: "Play a source and print its normalized events",
	Example: `  playnorm events --json https://example.com/video.mp4 | jq .type
  playnorm events --schema`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			schema, err := event.SchemaJSON()
			handleErr(err)
			cmd.Println(string(schema))
			return
		}

		if len(args) == 0 {
			handleErr(errors.New("a source url is required"))
		}

		CheckDependencies()

		options, err := readPlaybackFlags(cmd, args[0])
		handleErr(err)

		printer := newEventPrinter(cmd.OutOrStdout(), lo.Must(cmd.Flags().GetBool("json")))
		printer.throttle(lo.Must(cmd.Flags().GetFloat64("position-rate")))
		ended := make(chan struct{})
		var once sync.Once

		p := newPlayback(options, printer.print, func(e event.Event) {
			if e.Type == event.Ended {
				once.Do(func() { close(ended) })
			}
		})
		handleErr(p.start())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var waitEnded <-chan struct{}
		if lo.Must(cmd.Flags().GetBool("exit-on-end")) {
			waitEnded = ended
		}

		select {
		case <-ctx.Done():
		case <-p.done():
		case <-waitEnded:
		}

		p.stop()
	},
}

// eventPrinter writes events one per line. Text output wraps cue text to the terminal.
type eventPrinter struct {
	mu      sync.Mutex
	out     io.Writer
	json    bool
	encoder *json.Encoder
	start   time.Time

	// limits drops position events above a per-type rate.
	limits map[event.Type]*rate.Limiter
}

func newEventPrinter(out io.Writer, asJSON bool) *eventPrinter {
	return &eventPrinter{
		out:     out,
		json:    asJSON,
		encoder: json.NewEncoder(out),
		start:   time.Now(),
	}
}

// throttle caps time-update and progress output at perSecond per type.
// Zero or less disables the cap.
func (p *eventPrinter) throttle(perSecond float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if perSecond <= 0 {
		p.limits = nil
		return
	}

	p.limits = make(map[event.Type]*rate.Limiter)
	for _, t := range []event.Type{event.TimeUpdate, event.Progress} {
		p.limits[t] = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

func (p *eventPrinter) print(e event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if limiter, ok := p.limits[e.Type]; ok && !limiter.Allow() {
		return
	}

	if p.json {
		if err := p.encoder.Encode(e); err != nil {
			log.Warnf("encode %s: %v", e.Type, err)
		}
		return
	}

	elapsed := style.Faint(fmt.Sprintf("%7.2fs", time.Since(p.start).Seconds()))
	_, _ = fmt.Fprintf(p.out, "%s %s %s\n", elapsed, eventIcon(e.Type), p.render(e))
}

func (p *eventPrinter) render(e event.Event) string {
	if e.Type != event.CueChanged {
		return eventStyle(e.Type)(e.String())
	}

	text := e.Text
	if width, _, err := util.TerminalSize(); err == nil && width > 20 {
		text = wordwrap.String(text, width-20)
	}
	lines := strings.Split(text, "\n")
	return eventStyle(e.Type)(string(e.Type)) + " " + strings.Join(lines, "\n"+strings.Repeat(" ", 11))
}

func eventIcon(t event.Type) string {
	switch t {
	case event.Playing, event.Play:
		return icon.Get(icon.Play)
	case event.Paused:
		return icon.Get(icon.Pause)
	case event.Seeking, event.Seeked:
		return icon.Get(icon.Seek)
	case event.Stalled:
		return icon.Get(icon.Stalled)
	case event.Ended:
		return icon.Get(icon.Ended)
	case event.Error, event.PlayAttemptFailed, event.UnmutedPlaybackFailed:
		return icon.Get(icon.Fail)
	case event.VolumeChange:
		return icon.Get(icon.Volume)
	case event.MuteStateChange:
		return icon.Get(icon.Mute)
	case event.CaptionsFound, event.CaptionsChanged, event.CueChanged:
		return icon.Get(icon.Captions)
	default:
		return icon.Get(icon.Mark)
	}
}

func eventStyle(t event.Type) func(string) string {
	switch t {
	case event.Error, event.PlayAttemptFailed, event.UnmutedPlaybackFailed:
		return style.Fg(color.Red)
	case event.Stalled:
		return style.Fg(color.Yellow)
	case event.Ended, event.Buffered, event.UnmutedPlaybackSucceeded:
		return style.Fg(color.Green)
	case event.TimeUpdate, event.Progress:
		return style.Faint
	default:
		return style.Fg(color.Purple)
	}
}
