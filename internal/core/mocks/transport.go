package mocks

import (
	"encoding/json"
	"sync"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// FakeTransport implements ports.Transport without a socket. Tests drive it
// directly: SetConnected flips the reported state, Emit delivers events to
// registered handlers, and every frame passed to Send is recorded.
type FakeTransport struct {
	mu        sync.Mutex
	connected bool
	sent      []any
	next      ports.Subscription
	handlers  map[domain.EventType]map[ports.Subscription]ports.Handler
}

var _ ports.Transport = (*FakeTransport)(nil)

// NewFakeTransport creates a disconnected fake.
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{
		handlers: make(map[domain.EventType]map[ports.Subscription]ports.Handler),
	}
}

func (t *FakeTransport) Send(frame any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.connected {
		return
	}
	t.sent = append(t.sent, frame)
}

func (t *FakeTransport) On(event domain.EventType, fn ports.Handler) ports.Subscription {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	if t.handlers[event] == nil {
		t.handlers[event] = make(map[ports.Subscription]ports.Handler)
	}
	t.handlers[event][t.next] = fn
	return t.next
}

func (t *FakeTransport) Off(event domain.EventType, sub ports.Subscription) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.handlers[event], sub)
}

func (t *FakeTransport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// SetConnected flips the reported connection state without emitting
// anything.
func (t *FakeTransport) SetConnected(connected bool) {
	t.mu.Lock()
	t.connected = connected
	t.mu.Unlock()
}

// Connect marks the transport connected and emits connection_established,
// like a successful dial would.
func (t *FakeTransport) Connect() {
	t.SetConnected(true)
	t.Emit(domain.EventConnectionEstablished, nil)
}

// Disconnect marks the transport disconnected and emits connection_lost.
func (t *FakeTransport) Disconnect() {
	t.SetConnected(false)
	t.Emit(domain.EventConnectionLost, nil)
}

// Emit delivers an event payload to every registered handler.
func (t *FakeTransport) Emit(event domain.EventType, data json.RawMessage) {
	t.mu.Lock()
	fns := make([]ports.Handler, 0, len(t.handlers[event]))
	for _, fn := range t.handlers[event] {
		fns = append(fns, fn)
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(data)
	}
}

// EmitJSON marshals v and delivers it as the event payload.
func (t *FakeTransport) EmitJSON(event domain.EventType, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	t.Emit(event, data)
}

// Sent returns a copy of all recorded frames.
func (t *FakeTransport) Sent() []any {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]any, len(t.sent))
	copy(out, t.sent)
	return out
}

// SentSince returns frames recorded after the given index.
func (t *FakeTransport) SentSince(n int) []any {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n >= len(t.sent) {
		return nil
	}
	out := make([]any, len(t.sent)-n)
	copy(out, t.sent[n:])
	return out
}

// Reset clears the recorded frames.
func (t *FakeTransport) Reset() {
	t.mu.Lock()
	t.sent = nil
	t.mu.Unlock()
}
