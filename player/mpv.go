package player

import (
	"crypto/rand"
	"fmt"
	"math"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/anisan-cli/playnorm/constant"
	"github.com/anisan-cli/playnorm/log"
	"github.com/anisan-cli/playnorm/seek"
	"github.com/anisan-cli/playnorm/where"
	"github.com/samber/lo"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond

	// sidSettleTimeout bounds how long sid notifications other than the one
	// we asked for are treated as intermediate.
	sidSettleTimeout = time.Second
)

// Options configures the mpv process.
type Options struct {
	Title   string
	Headers map[string]string
}

// MPV implements Primitive and TrackAttacher using mpv's JSON-IPC protocol.
// Observed properties are cached so that the getters never block on the socket.
type MPV struct {
	options    Options
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	listener   *EventListener
	mu         sync.Mutex // Protects socket writes

	stateMu    sync.RWMutex
	source     string
	loaded     bool
	timePos    float64
	duration   float64
	paused     bool
	muted      bool
	volume     float64
	seekable   bool
	seeking    bool
	eof        bool
	fullscreen bool
	cache      seek.Range
	cacheEnd   float64
	sid        int64
	subVisible bool

	// set while a subtitle selection we issued has not been reported back
	sidExpected bool
	sidDeadline time.Time

	tracks     map[int64]*mpvTrack
	order      []int64

	subsMu  sync.Mutex
	subs    map[int]func(Raw)
	nextSub int
}

// NewMPV creates a new MPV player instance (does not start the process).
func NewMPV(options Options) *MPV {
	return &MPV{
		options:    options,
		exited:     make(chan struct{}),
		paused:     true,
		volume:     1,
		duration:   math.NaN(),
		subVisible: true,
		tracks:     make(map[int64]*mpvTrack),
		subs:       make(map[int]func(Raw)),
	}
}

// Start launches an idle, paused mpv and attaches the event listener.
func (m *MPV) Start() error {
	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("mpv-%x.sock", randomBytes))
	}

	// Pass only what the engine relies on and respect the user's mpv.conf otherwise.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		"--force-window=yes",
		"--idle=yes",
		"--pause=yes",
	}

	if title := sanitizeTitle(m.options.Title); title != "" {
		args = append(args, fmt.Sprintf("--force-media-title=%s", title), fmt.Sprintf("--title=%s", title))
	}

	if len(m.options.Headers) > 0 {
		fields := lo.MapToSlice(m.options.Headers, func(k, v string) string {
			return fmt.Sprintf("%s: %s", k, strings.ReplaceAll(v, ",", "%2C"))
		})
		args = append(args, fmt.Sprintf("--http-header-fields=%s", strings.Join(fields, ",")))
	}

	m.cmd = exec.Command(constant.PlayerBinary, args...)

	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	// Background goroutine to reap the process and prevent zombies
	m.exited = make(chan struct{})
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			terminate(m.cmd, m.exited, time.Second)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.listener = NewEventListener(m.socketPath, m.handle)
	if err := m.listener.Start(); err != nil {
		_ = m.Close()
		return err
	}

	return nil
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// SetSource stores the media target; Load hands it to mpv.
func (m *MPV) SetSource(rawURL, encoding string) error {
	if rawURL == "" {
		m.stateMu.Lock()
		m.source = ""
		m.loaded = false
		m.stateMu.Unlock()

		_, err := m.sendCommand("stop")
		return err
	}

	safeURL, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	if encoding != "" {
		log.Debugf("mpv: source %s declared as %s, leaving demuxer detection to mpv", safeURL, encoding)
	}

	m.stateMu.Lock()
	m.source = safeURL
	m.loaded = false
	m.stateMu.Unlock()
	return nil
}

// Load replaces whatever mpv is playing with the stored source.
func (m *MPV) Load() error {
	m.stateMu.RLock()
	source := m.source
	m.stateMu.RUnlock()

	if source == "" {
		return fmt.Errorf("no source assigned")
	}

	_, err := m.sendCommand("loadfile", source, "replace")
	return err
}

// Play unpauses. mpv settles the request synchronously, so the channel is already filled.
// After the end of a file mpv has unloaded it, so the source is loaded again first.
func (m *MPV) Play() <-chan error {
	result := make(chan error, 1)

	m.stateMu.RLock()
	reload := m.eof && m.source != ""
	m.stateMu.RUnlock()

	if reload {
		log.Debugf("mpv: reloading finished source")
		if err := m.Load(); err != nil {
			result <- fmt.Errorf("reload: %w", err)
			return result
		}
	}

	_, err := m.sendCommand("set_property", "pause", false)
	result <- err
	return result
}

func (m *MPV) Pause() error {
	_, err := m.sendCommand("set_property", "pause", true)
	return err
}

// SetSeekTime moves playback to the given absolute position in seconds.
func (m *MPV) SetSeekTime(seconds float64) error {
	m.stateMu.Lock()
	m.seeking = true
	m.stateMu.Unlock()

	_, err := m.sendCommand("seek", seconds, "absolute")
	return err
}

func (m *MPV) SetVolume(level float64) error {
	_, err := m.sendCommand("set_property", "volume", level*100)
	return err
}

func (m *MPV) SetMuted(muted bool) error {
	_, err := m.sendCommand("set_property", "mute", muted)
	return err
}

func (m *MPV) CurrentTime() float64 {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.timePos
}

func (m *MPV) Duration() float64 {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.duration
}

func (m *MPV) Paused() bool {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.paused
}

func (m *MPV) Muted() bool {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.muted
}

func (m *MPV) Volume() float64 {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.volume
}

// Seekable reports the whole file for seekable VOD, and the demuxer's cached
// window otherwise (which is the DVR window for live streams).
func (m *MPV) Seekable() seek.Range {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	if !m.loaded {
		return seek.Range{}
	}
	if m.seekable && m.duration > 0 && !math.IsInf(m.duration, 0) {
		return seek.Range{Start: 0, End: m.duration}
	}
	return m.cache
}

func (m *MPV) Buffered() seek.Range {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	if !m.loaded || m.cacheEnd <= 0 {
		return seek.Range{}
	}
	return seek.Range{Start: m.cache.Start, End: m.cacheEnd}
}

func (m *MPV) TextTracks() []Track {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	return lo.Map(m.order, func(id int64, _ int) Track {
		return m.tracks[id]
	})
}

// Ended reports whether mpv reached the end of the current file.
func (m *MPV) Ended() bool {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.eof
}

// Subscribe registers fn for raw notifications.
func (m *MPV) Subscribe(fn func(Raw)) func() {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn

	return func() {
		m.subsMu.Lock()
		defer m.subsMu.Unlock()
		delete(m.subs, id)
	}
}

func (m *MPV) emit(kinds ...Raw) {
	m.subsMu.Lock()
	subs := lo.Values(m.subs)
	m.subsMu.Unlock()

	for _, raw := range kinds {
		for _, fn := range subs {
			fn(raw)
		}
	}
}

// IsRunning reports whether mpv is responding to IPC commands.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand("get_property", "pid")
	return err == nil
}

// Close shuts down the mpv process and cleans up resources.
func (m *MPV) Close() error {
	if m.listener != nil {
		m.listener.Stop()
	}

	if m.socketPath == "" || m.cmd == nil {
		return nil
	}

	// Try graceful quit via IPC
	_, _ = m.sendCommand("quit")

	select {
	case <-m.exited:
	case <-time.After(3 * time.Second):
		log.Warnf("mpv ignored quit, terminating")
		terminate(m.cmd, m.exited, time.Second)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// Prevent flag injection: URLs must not start with -
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	// Treat as local file path
	return filepath.Clean(l), nil
}

// sanitizeTitle cleans up the title for mpv.
func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}

// MPVVersion reports the first line of `mpv --version`.
func MPVVersion() (string, error) {
	out, err := exec.Command(constant.PlayerBinary, "--version").Output()
	if err != nil {
		return "", fmt.Errorf("mpv --version: %w", err)
	}
	return firstLine(string(out)), nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}

// expectSid records a subtitle selection about to be sent to mpv. The caller
// holds stateMu.
func (m *MPV) expectSid(id int64) {
	m.sid = id
	m.sidExpected = true
	m.sidDeadline = time.Now().Add(sidSettleTimeout)
}

func (m *MPV) forgetExpectedSid() {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	m.sidExpected = false
}
