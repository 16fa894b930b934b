package caption

import (
	"strings"

	"github.com/samber/lo"
	"golang.org/x/net/html"
)

// NormalizeCue flattens active cues into plain text: WebVTT markup such as
// <i>, <c.yellow> or <v Speaker> is dropped, entities are decoded, and repeated
// lines (overlapping cues carrying the same text) are collapsed.
func NormalizeCue(cues []string) string {
	lines := make([]string, 0, len(cues))
	for _, cue := range cues {
		for _, line := range strings.Split(stripMarkup(cue), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lo.Uniq(lines), "\n")
}

func stripMarkup(text string) string {
	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(text))
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(tokenizer.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			if name, _ := tokenizer.TagName(); string(name) == "br" {
				b.WriteByte('\n')
			}
		}
	}
}
