package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync/atomic"
	"time"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id,omitempty"`
}

// ipcMessage is any line received from mpv: a command reply or an event.
type ipcMessage struct {
	Data      any    `json:"data"`
	Error     string `json:"error"`
	RequestID int64  `json:"request_id"`
	Event     string `json:"event"`
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	dialTimeout  = time.Second
	readDeadline = time.Second
)

var requestIDs atomic.Int64

// sendCommand sends a JSON-IPC command, retrying transient connection errors.
func (m *MPV) sendCommand(command []any) (any, error) {
	if m.socketPath == "" {
		return nil, ErrNotRunning
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := doSendCommand(m.socketPath, command)
		if err == nil {
			return result, nil
		}
		if _, ok := err.(*replyError); ok {
			// mpv understood and rejected the command; retrying will not help.
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("ipc command %v failed after %d attempts: %w", command[0], maxRetries, lastErr)
}

type replyError struct {
	command any
	reason  string
}

func (e *replyError) Error() string {
	return fmt.Sprintf("mpv %v: %s", e.command, e.reason)
}

// doSendCommand performs a single command on a fresh connection and waits for the reply
// carrying its request id. mpv broadcasts events to every client, so they are skipped.
func doSendCommand(socketPath string, command []any) (any, error) {
	conn, err := net.DialTimeout("unix", socketPath, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	id := requestIDs.Add(1)
	payload, err := json.Marshal(ipcCommand{Command: command, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	// mpv requires newline-delimited JSON.
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}

		var msg ipcMessage
		if err := json.Unmarshal(line, &msg); err != nil {
			continue
		}
		if msg.Event != "" || msg.RequestID != id {
			continue
		}

		if msg.Error != "" && msg.Error != "success" {
			return nil, &replyError{command: command[0], reason: msg.Error}
		}
		return msg.Data, nil
	}
}
