package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net"
	"sync"

	"github.com/kinogram/kino/log"
	"github.com/kinogram/kino/session"
)

// observed lists the properties whose changes are translated into session events.
var observed = []string{"time-pos", "duration", "pause", "eof-reached"}

// EventListener reads mpv events from a persistent connection and forwards them, translated,
// to a session event channel. The channel is closed when the connection ends.
type EventListener struct {
	socketPath string
	out        chan<- session.Event

	conn net.Conn
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewEventListener creates a listener for the given socket.
func NewEventListener(socketPath string, out chan<- session.Event) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		out:        out,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start subscribes to the observed properties and starts the read loop.
// Observers are bound to the connection that registers them, so the same connection is read.
func (el *EventListener) Start() error {
	conn, err := net.DialTimeout("unix", el.socketPath, dialTimeout)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for i, name := range observed {
		payload, err := json.Marshal(ipcCommand{Command: []any{"observe_property", i + 1, name}})
		if err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
		if _, err := conn.Write(append(payload, '\n')); err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.conn = conn
	go el.readLoop()

	log.Infof("player: event listener started on %s (observing: %v)", el.socketPath, observed)
	return nil
}

// Stop closes the connection and waits for the read loop to end.
func (el *EventListener) Stop() {
	el.once.Do(func() {
		close(el.stop)
		if el.conn != nil {
			_ = el.conn.Close()
			<-el.done
		}
	})
}

func (el *EventListener) readLoop() {
	defer close(el.done)
	defer close(el.out)

	scanner := bufio.NewScanner(el.conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)

	// mpv reports time-pos every frame; one tick per second of media is enough.
	lastSecond := -1.0

	for scanner.Scan() {
		ev, ok := translate(scanner.Bytes())
		if !ok {
			continue
		}
		if tick, isTick := ev.(session.TimeUpdate); isTick {
			second := math.Floor(tick.Position)
			if second == lastSecond {
				continue
			}
			lastSecond = second
		}

		select {
		case el.out <- ev:
		case <-el.stop:
			return
		}
	}

	if err := scanner.Err(); err != nil {
		select {
		case <-el.stop:
		default:
			log.Warnf("player: event listener read error: %v", err)
		}
	}
}

type mpvEvent struct {
	Event     string          `json:"event"`
	Name      string          `json:"name"`
	Data      json.RawMessage `json:"data"`
	Reason    string          `json:"reason"`
	FileError string          `json:"file_error"`
}

// translate maps one mpv event line onto a session event.
func translate(line []byte) (session.Event, bool) {
	var ev mpvEvent
	if err := json.Unmarshal(line, &ev); err != nil || ev.Event == "" {
		return nil, false
	}

	switch ev.Event {
	case "file-loaded":
		return session.Ready{}, true
	case "end-file":
		if ev.Reason != "error" {
			return nil, false
		}
		reason := ev.FileError
		if reason == "" {
			reason = "playback error"
		}
		return session.Failed{Err: errors.New(reason)}, true
	case "property-change":
		return translateProperty(ev.Name, ev.Data)
	default:
		return nil, false
	}
}

func translateProperty(name string, data json.RawMessage) (session.Event, bool) {
	switch name {
	case "time-pos", "duration":
		var v *float64
		if err := json.Unmarshal(data, &v); err != nil || v == nil {
			return nil, false
		}
		if name == "duration" {
			return session.DurationChange{Duration: *v}, true
		}
		return session.TimeUpdate{Position: *v}, true
	case "pause", "eof-reached":
		var v *bool
		if err := json.Unmarshal(data, &v); err != nil || v == nil {
			return nil, false
		}
		switch {
		case name == "eof-reached" && *v:
			return session.EndOfFile{}, true
		case name == "eof-reached":
			return nil, false
		case *v:
			return session.Stopped{}, true
		default:
			return session.Started{}, true
		}
	default:
		return nil, false
	}
}
