// Package tui provides the interactive terminal controller over a playback session.
package tui

import (
	"github.com/anisan-cli/playnorm/icon"
	"github.com/anisan-cli/playnorm/style"
	"github.com/charmbracelet/bubbles/list"
	"github.com/samber/lo"
)

// captionItem is one row of the caption picker. An empty key turns captions off.
type captionItem struct {
	key, label string
	active     bool
}

func (c *captionItem) Title() string {
	title := c.label
	if c.key == "" {
		title = "Off"
	}
	if c.active {
		title = style.Fg(style.AccentColor)(icon.Get(icon.Mark)) + " " + title
	}
	return title
}

func (c *captionItem) Description() string {
	if c.key == "" {
		return "hide captions"
	}
	return c.key
}

func (c *captionItem) FilterValue() string {
	return c.label
}

func captionItems(languages []string, locale map[string]string, active string) []list.Item {
	items := []list.Item{&captionItem{active: active == ""}}
	return append(items, lo.Map(languages, func(key string, _ int) list.Item {
		label := locale[key]
		if label == "" {
			label = key
		}
		return &captionItem{key: key, label: label, active: key == active}
	})...)
}

// nextLanguage cycles through languages and then off.
func nextLanguage(languages []string, active string) string {
	if len(languages) == 0 {
		return ""
	}

	switch index := lo.IndexOf(languages, active); {
	case active == "" || index < 0:
		return languages[0]
	case index == len(languages)-1:
		return ""
	default:
		return languages[index+1]
	}
}
