// Package cmd implements the command-line interface for playnorm.
package cmd

import (
	"github.com/anisan-cli/playnorm/config"
	"github.com/anisan-cli/playnorm/tui"
	"github.com/spf13/cobra"
)

// feedSize bounds the notifications buffered between the session and the interface.
const feedSize = 256

func init() {
	rootCmd.AddCommand(playCmd)
	bindPlaybackFlags(playCmd)
}

// playCmd plays a source in mpv, controlled from the terminal.
var playCmd = &cobra.Command{
	Use:   "play <url>",
	Short: "Play a source with an interactive terminal controller",
	Long: `Play a source in mpv and control it from the terminal.
Space toggles playback, arrows seek, m mutes, +/- change the volume and c cycles captions.`,
	Example: `  playnorm play https://example.com/video.mp4
  playnorm play --live https://example.com/live/index.m3u8
  playnorm play -c en -f "en:English=https://example.com/en.vtt" https://example.com/video.mp4`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		options, err := readPlaybackFlags(cmd, args[0])
		handleErr(err)

		feed := tui.NewFeed(feedSize)
		p := newPlayback(options, feed.Handle)
		handleErr(p.start())

		go func() {
			<-p.done()
			feed.Close()
		}()

		err = tui.Run(&tui.Options{
			Session:      p.session,
			Feed:         feed,
			Title:        options.title,
			Captions:     options.files,
			CaptionsMode: config.CaptionsMode(),
		})

		feed.Close()
		p.stop()
		handleErr(err)
	},
}
