package caption

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// Announcement is the consumer-facing caption availability summary: the
// language keys in announcement order and the display label of each.
type Announcement struct {
	Languages []string
	Locale    map[string]string
}

// MatchLanguage resolves a user query (a language key, or a fragment of a
// track label such as "engl") to a language key of the announcement.
func MatchLanguage(query string, announcement Announcement) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", false
	}

	if key, ok := lo.Find(announcement.Languages, func(key string) bool {
		return strings.EqualFold(key, query)
	}); ok {
		return key, true
	}

	labels := lo.Map(announcement.Languages, func(key string, _ int) string {
		return announcement.Locale[key]
	})

	ranks := fuzzy.RankFindNormalizedFold(query, labels)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)

	return announcement.Languages[ranks[0].OriginalIndex], true
}
