package player

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/kinogram/kino/log"
	"github.com/kinogram/kino/session"
	"github.com/kinogram/kino/util"
	"github.com/kinogram/kino/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// ErrNotRunning is returned for commands sent before Start or after the player exited.
var ErrNotRunning = errors.New("player is not running")

// MPV controls an mpv process over JSON-IPC. It implements session.Element.
type MPV struct {
	binary string
	args   func(socketPath string, opts Options) []string
	opts   Options

	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when the process exits
	events     chan session.Event
	listener   *EventListener

	mu        sync.Mutex // serializes IPC commands
	closeOnce sync.Once
}

var _ session.Element = (*MPV)(nil)

// NewMPV creates an mpv player. Nothing is launched until Start.
func NewMPV(opts Options) *MPV {
	return &MPV{
		binary: "mpv",
		args:   mpvArgs,
		opts:   opts,
		exited: make(chan struct{}),
		events: make(chan session.Event, 16),
	}
}

// NewIINA creates an IINA player driven through iina-cli.
func NewIINA(opts Options) *MPV {
	m := NewMPV(opts)
	m.binary = "iina-cli"
	m.args = iinaArgs
	return m
}

// Start launches the player idle and paused and subscribes to its events.
func (m *MPV) Start(ctx context.Context) error {
	if m.cmd != nil {
		return nil
	}

	if m.socketPath == "" {
		randomBytes := make([]byte, 4)
		if _, err := rand.Read(randomBytes); err != nil {
			return fmt.Errorf("generate socket name: %w", err)
		}
		m.socketPath = where.Socket(fmt.Sprintf("%s-%x", m.binary, randomBytes))
	}

	m.cmd = exec.Command(m.binary, m.args(m.socketPath, m.opts)...)

	// Detach from the terminal's process group so Ctrl+C reaches only us.
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", m.binary, err)
	}
	log.Infof("player: started %s (pid %d) on %s", m.binary, m.cmd.Process.Pid, m.socketPath)

	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(ctx); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("player: killing %s: socket never became ready", m.binary)
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("%s socket not ready: %w", m.binary, err)
	}

	m.listener = NewEventListener(m.socketPath, m.events)
	if err := m.listener.Start(); err != nil {
		_ = m.Close()
		return err
	}
	return nil
}

// Wait returns a channel that is closed when the player process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

func (m *MPV) waitForSocket(ctx context.Context) error {
	for i := 0; i < socketWaitRetries; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.exited:
			return fmt.Errorf("%s exited before socket was ready", m.binary)
		case <-time.After(socketWaitDelay):
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			_ = conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// Load replaces the current file. Readiness is reported as a session.Ready event.
func (m *MPV) Load(rawURL string) error {
	target, err := sanitizeMediaTarget(rawURL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}
	_, err = m.sendCommand([]any{"loadfile", target, "replace"})
	return err
}

func (m *MPV) Play() error {
	return m.Set("pause", false)
}

func (m *MPV) Pause() error {
	return m.Set("pause", true)
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand([]any{"seek", seconds, "absolute"})
	return err
}

// SetVolume maps [0,1] onto mpv's percentage scale.
func (m *MPV) SetVolume(volume float64) error {
	return m.Set("volume", util.Clamp(volume, 0, 1)*100)
}

func (m *MPV) SetFullscreen(fullscreen bool) error {
	return m.Set("fullscreen", fullscreen)
}

func (m *MPV) SetRate(rate float64) error {
	return m.Set("speed", rate)
}

// Events streams the translated player events. It is closed when the player exits.
func (m *MPV) Events() <-chan session.Event {
	return m.events
}

// Set a property.
func (m *MPV) Set(property string, value any) error {
	_, err := m.sendCommand([]any{"set_property", property, value})
	return err
}

// Binary returns the executable the player launches.
func (m *MPV) Binary() string {
	return m.binary
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// IsRunning reports whether the player process is alive.
func (m *MPV) IsRunning() bool {
	if m.cmd == nil {
		return false
	}
	select {
	case <-m.exited:
		return false
	default:
		return true
	}
}

// Close quits the player and removes its socket. It is safe to call more than once.
func (m *MPV) Close() error {
	m.closeOnce.Do(func() {
		if m.listener != nil {
			m.listener.Stop()
		}
		if m.cmd == nil {
			return
		}

		if m.IsRunning() {
			_, _ = m.sendCommand([]any{"quit"})
		}

		select {
		case <-m.exited:
		case <-time.After(quitTimeout):
			log.Warnf("player: %s did not quit, killing it", m.binary)
			_ = killProcess(m.cmd)
		}

		_ = os.Remove(m.socketPath)
	})
	return nil
}
