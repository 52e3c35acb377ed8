package realtime

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// emitter is the listener registry behind Conn. Handlers are invoked in
// registration order; dispatch iterates over a copy of the handler list so
// On/Off during an in-progress emit never panics or skips unrelated
// listeners.
type emitter struct {
	mu       sync.Mutex
	next     ports.Subscription
	handlers map[domain.EventType][]handlerEntry
}

type handlerEntry struct {
	id ports.Subscription
	fn ports.Handler
}

func newEmitter() *emitter {
	return &emitter{handlers: make(map[domain.EventType][]handlerEntry)}
}

func (e *emitter) on(event domain.EventType, fn ports.Handler) ports.Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.next++
	e.handlers[event] = append(e.handlers[event], handlerEntry{id: e.next, fn: fn})
	return e.next
}

func (e *emitter) off(event domain.EventType, sub ports.Subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()
	entries := e.handlers[event]
	for i, entry := range entries {
		if entry.id == sub {
			e.handlers[event] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

func (e *emitter) emit(event domain.EventType, data json.RawMessage) {
	e.mu.Lock()
	entries := make([]handlerEntry, len(e.handlers[event]))
	copy(entries, e.handlers[event])
	e.mu.Unlock()

	for _, entry := range entries {
		entry.fn(data)
	}
}

// events returns the event types with at least one registered handler,
// sorted for deterministic logging.
func (e *emitter) events() []domain.EventType {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]domain.EventType, 0, len(e.handlers))
	for event, entries := range e.handlers {
		if len(entries) > 0 {
			out = append(out, event)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
