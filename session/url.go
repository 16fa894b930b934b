package session

import (
	"strings"

	"github.com/anisan-cli/playnorm/constant"
	"github.com/samber/lo"
)

// NormalizeURL removes every cache-buster parameter from rawURL wherever it
// appears in the query, keeping the remaining parameters in their original
// order. Two urls name the same source iff their normalized forms are equal.
func NormalizeURL(rawURL string) string {
	base, query, found := strings.Cut(rawURL, "?")
	if !found {
		return rawURL
	}

	var fragment string
	if i := strings.IndexByte(query, '#'); i >= 0 {
		query, fragment = query[:i], query[i:]
	}

	params := lo.Reject(strings.Split(query, "&"), func(param string, _ int) bool {
		name, _, _ := strings.Cut(param, "=")
		return param == "" || name == constant.CacheBusterParam
	})

	if len(params) == 0 {
		return base + fragment
	}
	return base + "?" + strings.Join(params, "&") + fragment
}
