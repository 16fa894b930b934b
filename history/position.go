package history

import (
	"fmt"
	"sort"
	"time"

	"github.com/anisan-cli/playnorm/constant"
	"github.com/anisan-cli/playnorm/util"
)

// Position is a saved resume point.
type Position struct {
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Seconds   float64   `json:"seconds"`
	Duration  float64   `json:"duration"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Finished reports whether the position is close enough to the end that the
// source would start over anyway.
func (p *Position) Finished() bool {
	if p.Duration <= 0 || !util.IsFinite(p.Duration) {
		return false
	}
	return p.Duration-p.Seconds < util.Max(constant.SeekToEndThreshold, p.Duration*0.02)
}

func (p *Position) String() string {
	if p.Duration <= 0 {
		return fmt.Sprintf("%s : %s", p.Title, util.Clock(p.Seconds))
	}
	return fmt.Sprintf("%s : %s / %s", p.Title, util.Clock(p.Seconds), util.Clock(p.Duration))
}

// SortByRecent orders positions from the most recently updated.
func SortByRecent(positions []*Position) {
	sort.SliceStable(positions, func(i, j int) bool {
		return positions[i].UpdatedAt.After(positions[j].UpdatedAt)
	})
}
