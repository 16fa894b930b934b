package config

import (
	"time"

	"github.com/anisan-cli/playnorm/key"
	"github.com/anisan-cli/playnorm/player"
	"github.com/anisan-cli/playnorm/session"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Quirks reads the platform decision points from the configuration.
func Quirks() session.Quirks {
	return session.Quirks{
		EarlySeekUnreliable:   viper.GetBool(key.QuirkEarlySeekUnreliable),
		FractionalDurationEnd: viper.GetBool(key.QuirkFractionalDurationEnd),
		SilentPauseAtEnd:      viper.GetBool(key.QuirkSilentPauseAtEnd),
		SpuriousEndedOnSwap:   viper.GetBool(key.QuirkSpuriousEndedOnSwap),
	}
}

// SessionOptions builds session options from the configuration.
func SessionOptions() session.Options {
	options := session.DefaultOptions()

	if threshold := viper.GetFloat64(key.SeekToEndThreshold); threshold >= 0 {
		options.SeekToEndThreshold = threshold
	}
	if interval := viper.GetInt(key.WatchdogInterval); interval > 0 {
		options.WatchdogInterval = time.Duration(interval) * time.Millisecond
	}
	options.DisableNativeSeek = viper.GetBool(key.DisableNativeSeek)
	options.Quirks = Quirks()

	return options
}

// CaptionsMode returns the configured caption mode, showing when unset or invalid.
func CaptionsMode() player.Mode {
	mode := player.Mode(viper.GetString(key.CaptionsMode))
	if lo.Contains([]player.Mode{player.ModeShowing, player.ModeHidden}, mode) {
		return mode
	}
	return player.ModeShowing
}
