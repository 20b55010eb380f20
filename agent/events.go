package agent

import (
	"slices"
	"sync"

	"github.com/tbxark/tripagent/types"
)

type EventKind string

const (
	EventTurnStarted     EventKind = "turn_started"
	EventTurnFinished    EventKind = "turn_finished"
	EventMessageAppended EventKind = "message_appended"
	EventStateChanged    EventKind = "state_changed"
)

// Event is published by a session's Emitter. StateChanged carries the JSON merge
// patch from the previous session snapshot.
type Event struct {
	Kind      EventKind      `json:"kind"`
	SessionID string         `json:"session_id"`
	Message   *types.Message `json:"message,omitempty"`
	Patch     []byte         `json:"patch,omitempty"`
}

type Listener func(Event)

// Emitter fans events out to the listeners of one session. Listeners run on the
// publishing goroutine and must not call back into the session.
type Emitter struct {
	mu        sync.RWMutex
	next      int
	listeners map[int]Listener
}

func NewEmitter() *Emitter {
	return &Emitter{listeners: map[int]Listener{}}
}

// Subscribe registers l and returns a function that removes it.
func (e *Emitter) Subscribe(l Listener) func() {
	e.mu.Lock()
	id := e.next
	e.next++
	e.listeners[id] = l
	e.mu.Unlock()
	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

func (e *Emitter) Emit(ev Event) {
	e.mu.RLock()
	ids := make([]int, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	e.mu.RUnlock()
	slices.Sort(ids)
	for _, id := range ids {
		e.mu.RLock()
		l, ok := e.listeners[id]
		e.mu.RUnlock()
		if ok {
			l(ev)
		}
	}
}
