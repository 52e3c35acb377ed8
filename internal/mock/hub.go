package mock

import (
	"log/slog"
	"sync"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
)

// push is an event plus the rooms it is scoped to. A client receives the
// event when it has joined at least one of the target rooms.
type push struct {
	rooms []string
	event domain.Event
}

// Hub maintains the set of active websocket clients and their room
// memberships, and fans events out to the rooms they target.
type Hub struct {
	rooms map[string]map[*client]bool

	broadcast  chan push
	register   chan *client
	unregister chan *client
	done       chan struct{}

	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHub creates a hub. Run must be started as a goroutine before clients
// attach.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:      make(map[string]map[*client]bool),
		broadcast:  make(chan push, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		logger:     logger.With("component", "mock_hub"),
	}
}

// Run is the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.registerClient(c)

		case c := <-h.unregister:
			h.unregisterClient(c)

		case p := <-h.broadcast:
			h.broadcastPush(p)

		case <-h.done:
			return
		}
	}
}

// Stop terminates the event loop.
func (h *Hub) Stop() {
	close(h.done)
}

// Broadcast queues an event for every client in any of the given rooms.
func (h *Hub) Broadcast(event domain.Event, rooms ...string) {
	select {
	case h.broadcast <- push{rooms: rooms, event: event}:
	default:
		h.logger.Warn("broadcast channel full, dropping event", "event_type", event.Type)
	}
}

func (h *Hub) registerClient(c *client) {
	h.logger.Info("client registered", "agent_id", c.agentID)
}

func (h *Hub) unregisterClient(c *client) {
	h.mu.Lock()
	for _, room := range c.joinedRooms() {
		if members, ok := h.rooms[room]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	h.mu.Unlock()

	c.closeSend()
	h.logger.Info("client unregistered", "agent_id", c.agentID)
}

func (h *Hub) broadcastPush(p push) {
	h.mu.RLock()
	seen := make(map[*client]bool)
	targets := make([]*client, 0)
	for _, room := range p.rooms {
		for c := range h.rooms[room] {
			if !seen[c] {
				seen[c] = true
				targets = append(targets, c)
			}
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- p.event:
		default:
			h.logger.Warn("client send buffer full, unregistering", "agent_id", c.agentID)
			h.unregister <- c
		}
	}
}

func (h *Hub) joinRoom(c *client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*client]bool)
	}
	h.rooms[room][c] = true
	c.addRoom(room)

	h.logger.Debug("client joined room", "agent_id", c.agentID, "room", room)
}

func (h *Hub) leaveRoom(c *client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	c.removeRoom(room)

	h.logger.Debug("client left room", "agent_id", c.agentID, "room", room)
}

// ClientsInRoom returns the number of clients currently in a room.
func (h *Hub) ClientsInRoom(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
