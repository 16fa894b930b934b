// Package cmd implements the command-line interface for playnorm.
package cmd

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/anisan-cli/playnorm/caption"
	"github.com/anisan-cli/playnorm/config"
	"github.com/anisan-cli/playnorm/event"
	"github.com/anisan-cli/playnorm/history"
	"github.com/anisan-cli/playnorm/key"
	"github.com/anisan-cli/playnorm/log"
	"github.com/anisan-cli/playnorm/player"
	"github.com/anisan-cli/playnorm/session"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// playOptions collects the source and startup flags shared by play and events.
type playOptions struct {
	url      string
	title    string
	encoding string
	live     bool
	paused   bool
	resume   bool
	start    mo.Option[float64]
	captions string
	files    caption.Set
}

func bindPlaybackFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("title", "t", "", "Title shown for the source, defaults to the url file name")
	cmd.Flags().StringP("encoding", "e", "", "Media type of the source, e.g. application/x-mpegURL")
	cmd.Flags().Bool("live", false, "Treat the source as a live stream")
	cmd.Flags().BoolP("paused", "p", false, "Load the source without starting playback")
	cmd.Flags().Float64P("start", "s", 0, "Start position in seconds, overrides the saved position")
	cmd.Flags().StringP("captions", "c", "", "Caption language to select, a language code or a label fragment")
	cmd.Flags().StringArrayP("caption-file", "f", nil, "Caption file to offer, as lang=url or lang:label=url")
	cmd.Flags().BoolP("resume", "r", true, "Resume from the saved position")
}

func readPlaybackFlags(cmd *cobra.Command, source string) (*playOptions, error) {
	files, err := parseCaptionFiles(lo.Must(cmd.Flags().GetStringArray("caption-file")))
	if err != nil {
		return nil, err
	}

	options := &playOptions{
		url:      source,
		title:    lo.Must(cmd.Flags().GetString("title")),
		encoding: lo.Must(cmd.Flags().GetString("encoding")),
		live:     lo.Must(cmd.Flags().GetBool("live")),
		paused:   lo.Must(cmd.Flags().GetBool("paused")),
		resume:   viper.GetBool(key.Resume),
		captions: viper.GetString(key.CaptionsLanguage),
		files:    files,
	}

	if cmd.Flags().Changed("resume") {
		options.resume = lo.Must(cmd.Flags().GetBool("resume"))
	}
	if cmd.Flags().Changed("captions") {
		options.captions = lo.Must(cmd.Flags().GetString("captions"))
	}
	if cmd.Flags().Changed("start") {
		options.start = mo.Some(lo.Must(cmd.Flags().GetFloat64("start")))
	}
	if options.title == "" {
		options.title = titleOf(source)
	}

	return options, nil
}

// parseCaptionFiles reads lang=url and lang:label=url pairs.
func parseCaptionFiles(values []string) (caption.Set, error) {
	set := make(caption.Set, 0, len(values))
	for _, value := range values {
		language, location, ok := strings.Cut(value, "=")
		if !ok || language == "" || location == "" {
			return nil, fmt.Errorf("invalid caption file %q, expected lang=url", value)
		}

		language, label, _ := strings.Cut(language, ":")
		set = append(set, caption.Source{Language: language, Label: label, URL: location})
	}
	return set, nil
}

func titleOf(source string) string {
	parsed, err := url.Parse(source)
	if err != nil || parsed.Path == "" {
		return source
	}

	base := path.Base(parsed.Path)
	if base == "/" || base == "." {
		return parsed.Host
	}
	return base
}

// playback drives one mpv process through one session and remembers where
// playback stopped.
type playback struct {
	options  *playOptions
	mpv      *player.MPV
	session  *session.Session
	handlers []event.Handler

	mu              sync.Mutex
	playhead        event.Playhead
	finished        bool
	captionsPending bool
}

func newPlayback(options *playOptions, handlers ...event.Handler) *playback {
	return &playback{
		options:         options,
		handlers:        handlers,
		captionsPending: options.captions != "",
	}
}

// start launches mpv, assigns the source and applies the startup options.
func (p *playback) start() error {
	if backend := viper.GetString(key.Player); backend != "mpv" {
		return fmt.Errorf("unsupported player %q, available: mpv", backend)
	}

	p.mpv = player.NewMPV(player.Options{Title: p.options.title})
	if err := p.mpv.Start(); err != nil {
		return err
	}

	p.session = session.New(p.mpv, config.SessionOptions(), p.handle)
	p.session.SetSource(p.options.url, p.options.encoding, p.options.live)

	if start, ok := p.startPosition(); ok {
		p.session.SetInitialTime(start)
	}

	p.session.Load(false)

	if !p.options.paused {
		p.session.Play()
	}
	return nil
}

func (p *playback) startPosition() (float64, bool) {
	if start, ok := p.options.start.Get(); ok {
		return start, true
	}
	if !p.options.resume {
		return 0, false
	}

	position, ok, err := history.Lookup(p.options.url)
	if err != nil {
		log.Warnf("history: %v", err)
		return 0, false
	}
	if !ok {
		return 0, false
	}

	log.Infof("resuming %s at %.1fs", p.options.url, position.Seconds)
	return position.Seconds, true
}

func (p *playback) handle(e event.Event) {
	p.observe(e)
	for _, handler := range p.handlers {
		handler(e)
	}
}

// observe tracks the position to save and applies the requested captions once
// the source has tracks or has started playing.
func (p *playback) observe(e event.Event) {
	var applyCaptions bool

	p.mu.Lock()
	switch e.Type {
	case event.TimeUpdate:
		if e.Playhead != nil {
			p.playhead = *e.Playhead
			p.finished = false
		}
	case event.Ended:
		p.finished = true
	case event.CaptionsFound, event.Playing:
		applyCaptions = p.captionsPending
		p.captionsPending = false
	}
	p.mu.Unlock()

	if e.Type == event.Ended && p.options.resume {
		if err := history.Remove(p.options.url); err != nil {
			log.Warnf("history: %v", err)
		}
	}

	if applyCaptions {
		p.applyCaptions()
	}
}

func (p *playback) applyCaptions() {
	query := p.options.captions

	language, ok := caption.MatchLanguage(query, announce(p.options.files))
	if !ok {
		language, ok = caption.MatchLanguage(query, p.session.Captions())
	}
	if !ok {
		log.Warnf("captions: nothing matches %q", query)
		return
	}

	log.Debugf("captions: %q resolved to %s", query, language)
	p.session.SetClosedCaptions(language, p.options.files, config.CaptionsMode())
}

// announce describes caption files the way the session announces tracks.
func announce(set caption.Set) caption.Announcement {
	announcement := caption.Announcement{Locale: make(map[string]string)}
	for _, source := range set {
		if _, seen := announcement.Locale[source.Language]; seen {
			continue
		}
		announcement.Languages = append(announcement.Languages, source.Language)
		announcement.Locale[source.Language] = lo.Ternary(source.Label != "", source.Label, source.Language)
	}
	return announcement
}

// done is closed when mpv exits.
func (p *playback) done() <-chan struct{} {
	return p.mpv.Wait()
}

// stop saves the position, detaches the session and shuts mpv down.
func (p *playback) stop() {
	p.mu.Lock()
	playhead, finished := p.playhead, p.finished
	p.mu.Unlock()

	if p.options.resume && !finished && !p.session.Live() {
		if err := history.Save(p.options.url, p.options.title, playhead.CurrentTime, playhead.Duration); err != nil {
			log.Warnf("history: %v", err)
		}
	}

	p.session.Destroy()
	if err := p.mpv.Close(); err != nil {
		log.Warnf("mpv: %v", err)
	}
}
