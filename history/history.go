// Package history remembers where playback of each source stopped so it can be resumed.
package history

import (
	"time"

	"github.com/anisan-cli/playnorm/filesystem"
	"github.com/anisan-cli/playnorm/session"
	"github.com/anisan-cli/playnorm/where"
	"github.com/metafates/gache"
)

// minPosition is the position below which nothing is worth resuming.
const minPosition = 5

var cacher = gache.New[map[string]*Position](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.CacheStore{},
	},
)

// Get returns every saved position, keyed by normalized source url.
func Get() (map[string]*Position, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Position), nil
	}
	return cached, nil
}

// Lookup returns the saved position for url, if any.
func Lookup(url string) (*Position, bool, error) {
	saved, err := Get()
	if err != nil {
		return nil, false, err
	}

	position, ok := saved[session.NormalizeURL(url)]
	return position, ok, nil
}

// Save records how far playback of url got. Positions too close to either
// end are not worth resuming; one near the end forgets the source instead.
func Save(url, title string, seconds, duration float64) error {
	if seconds < minPosition {
		return nil
	}

	position := &Position{
		URL:       session.NormalizeURL(url),
		Title:     title,
		Seconds:   seconds,
		Duration:  duration,
		UpdatedAt: time.Now(),
	}
	if position.Finished() {
		return Remove(url)
	}

	saved, err := Get()
	if err != nil {
		return err
	}

	saved[position.URL] = position
	return cacher.Set(saved)
}

// Remove forgets the position saved for url.
func Remove(url string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	key := session.NormalizeURL(url)
	if _, ok := saved[key]; !ok {
		return nil
	}

	delete(saved, key)
	return cacher.Set(saved)
}
