package player

import (
	"math"
	"strings"
	"time"

	"github.com/anisan-cli/playnorm/log"
	"github.com/anisan-cli/playnorm/seek"
)

// handle translates mpv events and property changes into raw notifications.
func (m *MPV) handle(name string, data interface{}) {
	switch name {
	case "start-file":
		m.stateMu.Lock()
		m.seeking = false
		m.loaded = false
		m.eof = false
		m.stateMu.Unlock()
		m.emit(Raw{Kind: LoadStart})

	case "file-loaded":
		m.stateMu.Lock()
		m.loaded = true
		m.stateMu.Unlock()
		m.emit(Raw{Kind: MetadataReady})

	case "seek":
		m.stateMu.Lock()
		m.seeking = true
		m.stateMu.Unlock()
		m.emit(Raw{Kind: Seeking})

	case "playback-restart":
		m.stateMu.Lock()
		wasSeeking := m.seeking
		m.seeking = false
		m.stateMu.Unlock()
		if wasSeeking {
			m.emit(Raw{Kind: Seeked})
		} else {
			m.emit(Raw{Kind: CanPlay})
		}

	case "end-file":
		m.handleEndFile(data)

	case "time-pos":
		if t, ok := data.(float64); ok {
			m.stateMu.Lock()
			m.timePos = t
			m.stateMu.Unlock()
			m.emit(Raw{Kind: TimeUpdate})
		}

	case "duration":
		m.stateMu.Lock()
		if d, ok := data.(float64); ok {
			m.duration = d
		} else if m.loaded {
			// loaded but no duration: an unbounded live source
			m.duration = math.Inf(1)
		} else {
			m.duration = math.NaN()
		}
		m.stateMu.Unlock()
		m.emit(Raw{Kind: DurationChange})

	case "pause":
		paused, ok := data.(bool)
		if !ok {
			return
		}
		m.stateMu.Lock()
		changed := m.paused != paused
		m.paused = paused
		m.stateMu.Unlock()
		if !changed {
			return
		}
		if paused {
			m.emit(Raw{Kind: Pause})
		} else {
			m.emit(Raw{Kind: Play}, Raw{Kind: Playing})
		}

	case "volume":
		if v, ok := data.(float64); ok {
			m.stateMu.Lock()
			m.volume = v / 100
			m.stateMu.Unlock()
			m.emit(Raw{Kind: VolumeChange})
		}

	case "mute":
		if muted, ok := data.(bool); ok {
			m.stateMu.Lock()
			m.muted = muted
			m.stateMu.Unlock()
			m.emit(Raw{Kind: VolumeChange})
		}

	case "seekable":
		if seekable, ok := data.(bool); ok {
			m.stateMu.Lock()
			m.seekable = seekable
			m.stateMu.Unlock()
		}

	case "paused-for-cache":
		if starving, ok := data.(bool); ok {
			if starving {
				m.emit(Raw{Kind: Waiting})
			} else if !m.Paused() {
				m.emit(Raw{Kind: Playing})
			}
		}

	case "eof-reached":
		if eof, ok := data.(bool); ok {
			m.stateMu.Lock()
			m.eof = eof
			m.stateMu.Unlock()
			if eof {
				m.emit(Raw{Kind: Ended})
			}
		}

	case "fullscreen":
		if fs, ok := data.(bool); ok {
			m.stateMu.Lock()
			changed := m.fullscreen != fs
			m.fullscreen = fs
			m.stateMu.Unlock()
			if changed && fs {
				m.emit(Raw{Kind: FullscreenEnter})
			} else if changed {
				m.emit(Raw{Kind: FullscreenExit})
			}
		}

	case "sid":
		// "no" or false deselects
		var id int64
		if f, ok := data.(float64); ok {
			id = int64(f)
		}

		m.stateMu.Lock()
		stale := m.sidExpected && id != m.sid && time.Now().Before(m.sidDeadline)
		if !stale {
			m.sid = id
			m.sidExpected = false
		}
		m.stateMu.Unlock()

		if stale {
			log.Tracef("mpv: ignoring intermediate sid %d", id)
			return
		}
		m.emit(Raw{Kind: TracksChange})

	case "sub-visibility":
		if visible, ok := data.(bool); ok {
			m.stateMu.Lock()
			m.subVisible = visible
			m.stateMu.Unlock()
			m.emit(Raw{Kind: TracksChange})
		}

	case "sub-text":
		text, _ := data.(string)
		m.deliverCue(text)

	case "track-list":
		if list, ok := data.([]interface{}); ok {
			m.refreshTracks(list)
			m.emit(Raw{Kind: TracksChange})
		}

	case "demuxer-cache-state":
		if state, ok := data.(map[string]interface{}); ok {
			m.updateCache(state)
			m.emit(Raw{Kind: Progress})
		}
	}
}

// handleEndFile maps the end-file reason onto ended or error.
// "stop", "quit" and "redirect" are side effects of our own commands.
func (m *MPV) handleEndFile(data interface{}) {
	event, _ := data.(map[string]interface{})
	reason, _ := event["reason"].(string)

	switch reason {
	case "eof":
		m.stateMu.Lock()
		m.eof = true
		m.stateMu.Unlock()
		m.emit(Raw{Kind: Ended})
	case "error":
		detail, _ := event["file_error"].(string)
		log.Warnf("mpv: playback failed: %s", detail)
		m.emit(Raw{Kind: Error, Code: errorCode(detail)})
	}
}

func errorCode(detail string) int {
	detail = strings.ToLower(detail)
	switch {
	case strings.Contains(detail, "unrecognized"), strings.Contains(detail, "unsupported"), strings.Contains(detail, "loading failed"):
		return ErrCodeSrcNotSupported
	case strings.Contains(detail, "network"), strings.Contains(detail, "http"):
		return ErrCodeNetwork
	case strings.Contains(detail, "abort"):
		return ErrCodeAborted
	default:
		return ErrCodeDecode
	}
}

// updateCache reads the seekable window and buffered end from demuxer-cache-state.
func (m *MPV) updateCache(state map[string]interface{}) {
	var window seek.Range
	if ranges, ok := state["seekable-ranges"].([]interface{}); ok && len(ranges) > 0 {
		first := true
		for _, r := range ranges {
			entry, _ := r.(map[string]interface{})
			start, okStart := entry["start"].(float64)
			end, okEnd := entry["end"].(float64)
			if !okStart || !okEnd {
				continue
			}
			if first {
				window = seek.Range{Start: start, End: end}
				first = false
				continue
			}
			window.Start = math.Min(window.Start, start)
			window.End = math.Max(window.End, end)
		}
	}

	cacheEnd, _ := state["cache-end"].(float64)

	m.stateMu.Lock()
	m.cache = window
	m.cacheEnd = cacheEnd
	m.stateMu.Unlock()
}
