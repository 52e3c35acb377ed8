package mock

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// client is one websocket connection attached to the hub.
type client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan domain.Event
	agentID string
	state   *State

	mu        sync.RWMutex
	rooms     map[string]bool
	closeOnce sync.Once

	logger *slog.Logger
}

func newClient(hub *Hub, conn *websocket.Conn, agentID string, state *State, logger *slog.Logger) *client {
	return &client{
		hub:     hub,
		conn:    conn,
		send:    make(chan domain.Event, 256),
		agentID: agentID,
		state:   state,
		rooms:   make(map[string]bool),
		logger:  logger.With("agent_id", agentID),
	}
}

func (c *client) closeSend() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

func (c *client) addRoom(room string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rooms[room] = true
}

func (c *client) removeRoom(room string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.rooms, room)
}

func (c *client) joinedRooms() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	rooms := make([]string, 0, len(c.rooms))
	for room := range c.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// readPump pumps control frames from the websocket into the hub.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			break
		}

		c.handleFrame(message)
	}
}

// writePump pumps queued events out to the websocket.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(event); err != nil {
				c.logger.Error("failed to write event", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// controlFrame is the envelope of client-to-server frames; the type field
// selects which other fields are meaningful.
type controlFrame struct {
	Type      string `json:"type"`
	Room      string `json:"room,omitempty"`
	ContactID string `json:"contact_id,omitempty"`
	MessageID string `json:"message_id,omitempty"`
}

func (c *client) handleFrame(message []byte) {
	var frame controlFrame
	if err := json.Unmarshal(message, &frame); err != nil {
		c.logger.Warn("failed to unmarshal client frame", "error", err)
		return
	}

	switch frame.Type {
	case domain.FrameJoinRoom:
		if frame.Room == "" {
			c.logger.Warn("join_room frame without room")
			return
		}
		c.hub.joinRoom(c, frame.Room)

	case domain.FrameLeaveRoom:
		if frame.Room == "" {
			return
		}
		c.hub.leaveRoom(c, frame.Room)

	case domain.FrameTypingStart, domain.FrameTypingStop:
		// Typing indicators are fan-out only; the mock has no other
		// agents to show them to.
		c.logger.Debug("typing frame", "type", frame.Type, "contact_id", frame.ContactID)

	case domain.FrameUserOnline:
		c.state.SetAgentPresence(c.agentID, true)

	case domain.FrameUserOffline:
		c.state.SetAgentPresence(c.agentID, false)

	case domain.FrameMessageRead:
		c.state.MarkMessageRead(frame.MessageID)

	default:
		c.logger.Debug("received unknown frame type", "type", frame.Type)
	}
}
