package player

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/tubecycle/tubecycle/constant"
	"github.com/tubecycle/tubecycle/key"
	"github.com/tubecycle/tubecycle/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	closeTimeout      = 3 * time.Second
)

// MPV implements Player using mpv's JSON-IPC protocol.
type MPV struct {
	binary     string
	ytdlFormat string

	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when the mpv process exits
	tickerStop chan struct{}
	listener   *EventListener
	mu         sync.Mutex // serializes socket commands

	subsMu  sync.Mutex
	subs    map[int]func(State)
	nextSub int
	last    State
}

// NewMPV creates a player instance configured from player.binary and player.ytdl_format.
// Nothing is spawned until Play.
func NewMPV() *MPV {
	exited := make(chan struct{})
	close(exited)

	return &MPV{
		binary:     lo.Ternary(viper.GetString(key.PlayerBinary) != "", viper.GetString(key.PlayerBinary), "mpv"),
		ytdlFormat: viper.GetString(key.PlayerYtdlFormat),
		exited:     exited,
		subs:       make(map[int]func(State)),
	}
}

// Play starts mpv with the given URL, or loads it into the running instance.
func (m *MPV) Play(rawURL string, title string) error {
	safeURL, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}
	safeTitle := sanitizeTitle(title)

	if m.IsRunning() {
		if _, err := m.sendCommand([]any{"loadfile", safeURL, "replace"}); err != nil {
			return fmt.Errorf("load file: %w", err)
		}
		return m.Set("force-media-title", safeTitle)
	}

	if m.socketPath == "" {
		m.socketPath = filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s.sock", constant.App, uuid.NewString()[:8]))
	}

	// Only the socket, title and format are forced. Everything else is left to mpv.conf.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		fmt.Sprintf("--force-media-title=%s", safeTitle),
		fmt.Sprintf("--title=%s", safeTitle),
		"--force-window=yes",
		"--idle=yes",
	}
	if m.ytdlFormat != "" {
		args = append(args, fmt.Sprintf("--ytdl-format=%s", m.ytdlFormat))
	}
	args = append(args, safeURL)

	m.cmd = exec.Command(m.binary, args...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", m.binary, err)
	}

	exited := make(chan struct{})
	m.exited = exited
	go func(cmd *exec.Cmd) {
		_ = cmd.Wait()
		close(exited)
		m.emit(StateStopped)
	}(m.cmd)

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.listener = NewEventListener(m.socketPath, m.emit)
	if err := m.listener.Start(); err != nil {
		log.Warnf("mpv events unavailable: %v", err)
	}

	log.Infof("mpv started on %s", m.socketPath)
	return nil
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return errors.New("mpv exited before socket was ready")
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

// Pause sets the pause property.
func (m *MPV) Pause() error {
	return m.setPaused(true)
}

// Resume clears the pause property.
func (m *MPV) Resume() error {
	return m.setPaused(false)
}

func (m *MPV) setPaused(paused bool) error {
	if m.socketPath == "" {
		return ErrUnavailable
	}

	select {
	case <-m.exited:
		return ErrUnavailable
	default:
	}

	if err := m.Set("pause", paused); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// OnStateChange registers fn for state notifications delivered from the event listener goroutine.
func (m *MPV) OnStateChange(fn func(State)) (unsubscribe func()) {
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

// emit forwards s to subscribers unless it repeats the last state.
func (m *MPV) emit(s State) {
	m.subsMu.Lock()
	if s == m.last {
		m.subsMu.Unlock()
		return
	}
	m.last = s
	fns := lo.Values(m.subs)
	m.subsMu.Unlock()

	log.Debugf("mpv state: %s", s)
	for _, fn := range fns {
		fn(s)
	}
}

// GetTimePos returns the current playback position in seconds.
func (m *MPV) GetTimePos() (float64, error) {
	return m.getFloatProperty("time-pos")
}

// GetDuration returns the duration of the current media in seconds.
func (m *MPV) GetDuration() (float64, error) {
	return m.getFloatProperty("duration")
}

// IsRunning reports whether mpv answers IPC commands.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand([]any{"get_property", "pid"})
	return err == nil
}

// StartIPCTicker polls time-pos and duration every second.
func (m *MPV) StartIPCTicker(callback func(timePos int, duration int)) {
	if m.tickerStop != nil {
		return
	}

	stop := make(chan struct{})
	m.tickerStop = stop
	exited := m.exited

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-exited:
				return
			case <-ticker.C:
				pos, err := m.GetTimePos()
				if err != nil {
					continue
				}

				// streams can have no duration
				dur, err := m.GetDuration()
				if err != nil {
					dur = 0
				}

				callback(int(pos), int(dur))
			}
		}
	}()
}

func (m *MPV) StopIPCTicker() {
	if m.tickerStop != nil {
		close(m.tickerStop)
		m.tickerStop = nil
	}
}

// Close quits mpv, force-killing it when it does not exit in time, and removes the socket.
func (m *MPV) Close() error {
	m.StopIPCTicker()

	if m.listener != nil {
		m.listener.Stop()
		m.listener = nil
	}

	if m.socketPath == "" {
		return nil
	}

	_, _ = m.sendCommand([]any{"quit"})

	select {
	case <-m.exited:
	case <-time.After(closeTimeout):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	return nil
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// Set writes an mpv property.
func (m *MPV) Set(property string, value any) error {
	_, err := m.sendCommand([]any{"set_property", property, value})
	return err
}

func (m *MPV) getFloatProperty(name string) (float64, error) {
	data, err := m.sendCommand([]any{"get_property", name})
	if err != nil {
		return 0, err
	}

	if data == nil {
		return 0, fmt.Errorf("property %s: nil response", name)
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("property %s: expected float64, got %T", name, data)
	}

	return val, nil
}

// sanitizeMediaTarget rejects values mpv would parse as flags and non-http schemes.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", errors.New("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", errors.New("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", errors.New("url must not start with '-'")
	}

	u, err := url.Parse(l)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return l, nil
	default:
		return "", fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
