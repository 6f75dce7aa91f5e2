package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/tubecycle/tubecycle/log"
)

// observed lists the mpv properties the listener subscribes to, keyed by observer id.
var observed = []struct {
	id   int
	name string
}{
	{1, "pause"},
	{2, "eof-reached"},
	{3, "idle-active"},
}

// EventListener turns mpv property changes into State notifications.
// Observers are registered on the listener's own persistent connection,
// since mpv only delivers property-change events to the client that observed them.
type EventListener struct {
	socketPath string
	onState    func(State)

	mu        sync.Mutex
	conn      net.Conn
	listening bool
	paused    bool
	done      chan struct{}
}

func NewEventListener(socketPath string, onState func(State)) *EventListener {
	return &EventListener{
		socketPath: socketPath,
		onState:    onState,
	}
}

// Start connects, registers observers and launches the read loop.
func (el *EventListener) Start() error {
	el.mu.Lock()
	defer el.mu.Unlock()

	if el.listening {
		return nil
	}

	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	for _, prop := range observed {
		if err := writeCommand(conn, []any{"observe_property", prop.id, prop.name}); err != nil {
			conn.Close()
			return fmt.Errorf("observe %s: %w", prop.name, err)
		}
	}

	el.conn = conn
	el.listening = true
	el.done = make(chan struct{})

	go el.readLoop(conn, el.done)

	log.Debugf("mpv event listener started on %s", el.socketPath)
	return nil
}

// Stop closes the connection and waits for the read loop to finish.
func (el *EventListener) Stop() {
	el.mu.Lock()
	if !el.listening {
		el.mu.Unlock()
		return
	}
	el.listening = false
	conn, done := el.conn, el.done
	el.mu.Unlock()

	_ = conn.Close()
	<-done
}

func (el *EventListener) readLoop(conn net.Conn, done chan struct{}) {
	defer close(done)

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			el.process(line)
		}

		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				log.Warnf("event listener read error: %v", err)
			}
			el.mu.Lock()
			el.listening = false
			el.mu.Unlock()
			return
		}
	}
}

// process parses one line and dispatches the state it implies, if any.
func (el *EventListener) process(line []byte) {
	var msg ipcMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		return
	}

	state, ok := el.translate(msg)
	if ok && el.onState != nil {
		el.onState(state)
	}
}

func (el *EventListener) translate(msg ipcMessage) (State, bool) {
	switch msg.Event {
	case "property-change":
		value, _ := msg.Data.(bool)
		switch msg.Name {
		case "pause":
			el.paused = value
			if value {
				return StatePaused, true
			}
			return StatePlaying, true
		case "eof-reached", "idle-active":
			if value {
				return StateStopped, true
			}
		}
	case "end-file":
		return StateStopped, true
	case "playback-restart", "file-loaded":
		if !el.paused {
			return StatePlaying, true
		}
	}

	return StateUnknown, false
}
