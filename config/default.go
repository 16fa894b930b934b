// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/anisan-cli/playnorm/color"
	"github.com/anisan-cli/playnorm/constant"
	"github.com/anisan-cli/playnorm/icon"
	"github.com/anisan-cli/playnorm/key"
	"github.com/anisan-cli/playnorm/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string

	// Options restricts a string field to a fixed set of values.
	Options []string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Playnorm + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string   `json:"key"`
		Value       any      `json:"value"`
		Default     any      `json:"default"`
		Description string   `json:"description"`
		Type        string   `json:"type"`
		Options     []string `json:"options,omitempty"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
		Options:     f.Options,
	})
}

// Parse converts command line arguments into a value of the field's type.
func (f *Field) Parse(args []string) (any, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no value for %s", f.Key)
	}
	raw := args[0]

	switch f.Value.(type) {
	case string:
		if len(f.Options) > 0 && !lo.Contains(f.Options, raw) {
			return nil, fmt.Errorf("invalid value %q for %s, available options: %s", raw, f.Key, strings.Join(f.Options, ", "))
		}
		return raw, nil
	case int:
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer value: %s", raw)
		}
		return parsed, nil
	case float64:
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number value: %s", raw)
		}
		return parsed, nil
	case bool:
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value: %s", raw)
		}
		return parsed, nil
	case []string:
		return args, nil
	default:
		return nil, fmt.Errorf("unsupported type for %s", f.Key)
	}
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string, options ...string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc, Options: options}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.Player, "mpv", "Playback primitive to drive", "mpv")
	register(key.SeekToEndThreshold, constant.SeekToEndThreshold, "Seeks closer than this many seconds to the end snap to the duration")
	register(key.DisableNativeSeek, false, "Reject seeks issued from the player's own controls")
	register(key.Resume, true, "Remember the playback position of every source and resume from it")
	register(key.WatchdogInterval, constant.WatchdogIntervalMs, "Underflow watchdog poll interval in milliseconds")
	register(key.QuirkEarlySeekUnreliable, false, "Queue the initial seek until metadata is ready instead of issuing it immediately")
	register(key.QuirkFractionalDurationEnd, true, "Synthesize the end of stream when playback halts on a fractional duration")
	register(key.QuirkSilentPauseAtEnd, true, "Force completion when the player pauses at the end without reporting it")
	register(key.QuirkSpuriousEndedOnSwap, false, "Ignore end-of-stream reports raised while swapping sources")
	register(key.CaptionsLanguage, "", "Caption language to select on load.\nA language code, a track id or a label fragment")
	register(key.CaptionsMode, "showing", "Caption rendering mode", "showing", "hidden")
	register(key.IconsVariant, "plain", "Icons variant, nerd requires a nerd font", icon.AvailableVariants()...)
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Log level, from less to most verbose", "panic", "fatal", "error", "warn", "info", "debug", "trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"join":     strings.Join,
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}{{ if .Options }}
{{ blue "Options:" }} {{ join .Options ", " }}{{ end }}`))
