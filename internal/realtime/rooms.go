package realtime

import (
	"encoding/json"
	"log/slog"
	"sort"
	"sync"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// RoomManager makes the set of rooms this client cares about survive
// reconnects. The transport has no memory of prior joins, so the manager
// keeps a wanted-set and replays a join frame for every wanted room each
// time the connection is (re)established.
type RoomManager struct {
	transport ports.Transport
	logger    *slog.Logger

	mu     sync.Mutex
	wanted map[string]struct{}

	sub ports.Subscription
}

// NewRoomManager creates a manager bound to the transport and registers its
// replay hook.
func NewRoomManager(transport ports.Transport, logger *slog.Logger) *RoomManager {
	m := &RoomManager{
		transport: transport,
		logger:    logger.With("component", "room_manager"),
		wanted:    make(map[string]struct{}),
	}
	m.sub = transport.On(domain.EventConnectionEstablished, func(json.RawMessage) {
		m.replay()
	})
	return m
}

// Close unhooks the manager from the transport.
func (m *RoomManager) Close() {
	m.transport.Off(domain.EventConnectionEstablished, m.sub)
}

// JoinRoom records the room in the wanted-set and, when connected, sends a
// join frame. Re-joining a wanted room is a no-op for the set but still
// sends a frame; joins are idempotent on the backend.
func (m *RoomManager) JoinRoom(room string) {
	m.mu.Lock()
	m.wanted[room] = struct{}{}
	m.mu.Unlock()

	if m.transport.IsConnected() {
		m.transport.Send(domain.JoinRoom(room))
	} else {
		m.logger.Debug("join deferred until reconnect", "room", room)
	}
}

// LeaveRoom removes the room from the wanted-set and, when connected, sends
// a leave frame.
func (m *RoomManager) LeaveRoom(room string) {
	m.mu.Lock()
	delete(m.wanted, room)
	m.mu.Unlock()

	if m.transport.IsConnected() {
		m.transport.Send(domain.LeaveRoom(room))
	}
}

// Wanted returns the current wanted-set, sorted.
func (m *RoomManager) Wanted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	rooms := make([]string, 0, len(m.wanted))
	for room := range m.wanted {
		rooms = append(rooms, room)
	}
	sort.Strings(rooms)
	return rooms
}

// replay sends a join frame for every wanted room. Order is not part of the
// backend contract.
func (m *RoomManager) replay() {
	rooms := m.Wanted()
	for _, room := range rooms {
		m.transport.Send(domain.JoinRoom(room))
	}
	if len(rooms) > 0 {
		m.logger.Info("replayed room joins", "count", len(rooms))
	}
}

// Convenience joins over the fixed room naming convention.

func (m *RoomManager) JoinGlobal() { m.JoinRoom(domain.RoomGlobal) }

func (m *RoomManager) JoinAllGroups() { m.JoinRoom(domain.RoomAllGroups) }

func (m *RoomManager) JoinContactRoom(id string) { m.JoinRoom(domain.ContactRoom(id)) }

func (m *RoomManager) JoinSessionRoom(id string) { m.JoinRoom(domain.SessionRoom(id)) }

func (m *RoomManager) JoinTicketRoom(id string) { m.JoinRoom(domain.TicketRoom(id)) }

func (m *RoomManager) JoinAdminRoom(id string) { m.JoinRoom(domain.AdminRoom(id)) }

func (m *RoomManager) JoinGroupRoom(id string) { m.JoinRoom(domain.GroupRoom(id)) }

func (m *RoomManager) LeaveContactRoom(id string) { m.LeaveRoom(domain.ContactRoom(id)) }

func (m *RoomManager) LeaveSessionRoom(id string) { m.LeaveRoom(domain.SessionRoom(id)) }

func (m *RoomManager) LeaveTicketRoom(id string) { m.LeaveRoom(domain.TicketRoom(id)) }

func (m *RoomManager) LeaveGroupRoom(id string) { m.LeaveRoom(domain.GroupRoom(id)) }
