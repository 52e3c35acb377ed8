package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gorilla/websocket"

	"github.com/lorrc/chatdesk-client/internal/auth"
	"github.com/lorrc/chatdesk-client/internal/config"
	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

const (
	// Time allowed to write a message to the backend.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the backend.
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size.
	maxMessageSize = 64 * 1024
)

// Conn owns the single live WebSocket connection to the backend. It is
// created once at bootstrap and passed by reference to the room manager and
// every store; there is no package-level instance.
//
// Send never returns an error to the caller: frames sent while disconnected
// are dropped, and callers that need delivery rely on the room manager's
// replay or check IsConnected first.
type Conn struct {
	cfg     config.WebSocketConfig
	tokens  *auth.TokenHolder
	emitter *emitter
	logger  *slog.Logger

	mu           sync.Mutex
	ws           *websocket.Conn
	done         chan struct{}
	connected    bool
	connecting   bool
	manualClose  bool
	reconnecting bool

	// writeMu serializes writes; gorilla allows one concurrent writer.
	writeMu sync.Mutex
}

var _ ports.Transport = (*Conn)(nil)

// NewConn creates a disconnected transport. tokens may be nil when the
// backend does not require authentication (mock mode, tests).
func NewConn(cfg config.WebSocketConfig, tokens *auth.TokenHolder, logger *slog.Logger) *Conn {
	return &Conn{
		cfg:     cfg,
		tokens:  tokens,
		emitter: newEmitter(),
		logger:  logger.With("component", "realtime_conn"),
	}
}

// Connect dials the backend. It is a no-op when already connected or while
// a connect is in progress. On success it emits connection_established; on
// failure it emits connection_error and leaves the state disconnected.
func (c *Conn) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.connected || c.connecting {
		c.mu.Unlock()
		return nil
	}
	c.connecting = true
	c.manualClose = false
	c.mu.Unlock()

	dialer := &websocket.Dialer{HandshakeTimeout: c.cfg.HandshakeTimeout}
	ws, _, err := dialer.DialContext(ctx, c.dialURL(), nil)
	if err != nil {
		c.mu.Lock()
		c.connecting = false
		c.mu.Unlock()
		c.logger.Warn("websocket dial failed", "url", c.cfg.URL, "error", err)
		c.emitConnection(domain.EventConnectionError, err.Error())
		return err
	}

	done := make(chan struct{})
	c.mu.Lock()
	c.ws = ws
	c.done = done
	c.connected = true
	c.connecting = false
	c.mu.Unlock()

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.readPump(ws)
	go c.pingLoop(ws, done)

	c.logger.Info("websocket connected", "url", c.cfg.URL)
	c.emitConnection(domain.EventConnectionEstablished, "")
	return nil
}

// Disconnect closes the connection and emits connection_lost with the given
// reason. Auto-reconnect is suppressed until the next Connect call.
func (c *Conn) Disconnect(reason string) {
	c.mu.Lock()
	c.manualClose = true
	if !c.connected {
		c.mu.Unlock()
		return
	}
	ws := c.ws
	c.connected = false
	c.ws = nil
	close(c.done)
	c.mu.Unlock()

	c.writeMu.Lock()
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = ws.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
	c.writeMu.Unlock()
	_ = ws.Close()

	c.logger.Info("websocket disconnected", "reason", reason)
	c.emitConnection(domain.EventConnectionLost, reason)
}

// Send marshals the frame and transmits it as a JSON text message. Frames
// sent while disconnected are dropped with a debug log.
func (c *Conn) Send(frame any) {
	payload, err := json.Marshal(frame)
	if err != nil {
		c.logger.Warn("failed to marshal outbound frame", "error", err)
		return
	}

	c.mu.Lock()
	ws := c.ws
	connected := c.connected
	c.mu.Unlock()

	if !connected {
		c.logger.Debug("dropping frame, not connected", "frame", string(payload))
		return
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	if err := ws.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.logger.Warn("websocket write failed", "error", err)
	}
}

// On registers a handler for the event. Handlers run on the read-pump
// goroutine in registration order.
func (c *Conn) On(event domain.EventType, fn ports.Handler) ports.Subscription {
	return c.emitter.on(event, fn)
}

// Off removes a previously registered handler.
func (c *Conn) Off(event domain.EventType, sub ports.Subscription) {
	c.emitter.off(event, sub)
}

// IsConnected reports the current connection state.
func (c *Conn) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Conn) dialURL() string {
	if c.tokens == nil {
		return c.cfg.URL
	}
	token, err := c.tokens.Token()
	if err != nil {
		return c.cfg.URL
	}
	u, err := url.Parse(c.cfg.URL)
	if err != nil {
		return c.cfg.URL
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// readPump reads frames until the connection dies, then reports the loss
// and kicks off reconnection when enabled.
func (c *Conn) readPump(ws *websocket.Conn) {
	var reason string
	for {
		_, message, err := ws.ReadMessage()
		if err != nil {
			reason = err.Error()
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			break
		}
		c.handleFrame(message)
	}

	if !c.markDisconnected(ws) {
		// Disconnect already reported the loss (manual close).
		return
	}
	_ = ws.Close()
	c.emitConnection(domain.EventConnectionLost, reason)

	c.mu.Lock()
	shouldReconnect := c.cfg.AutoReconnect && !c.manualClose && !c.reconnecting
	if shouldReconnect {
		c.reconnecting = true
	}
	c.mu.Unlock()

	if shouldReconnect {
		go c.reconnectLoop()
	}
}

// markDisconnected transitions to the disconnected state if ws is still the
// live connection. Returns false when a Disconnect call or a newer
// connection already superseded it.
func (c *Conn) markDisconnected(ws *websocket.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected || c.ws != ws {
		return false
	}
	c.connected = false
	c.ws = nil
	close(c.done)
	return true
}

func (c *Conn) pingLoop(ws *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// reconnectLoop re-dials with exponential backoff until the connection is
// back or Disconnect is called. Room replay is not handled here: the room
// manager listens for connection_established.
func (c *Conn) reconnectLoop() {
	defer func() {
		c.mu.Lock()
		c.reconnecting = false
		c.mu.Unlock()
	}()

	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = c.cfg.MaxReconnectWait
	bo.MaxElapsedTime = 0

	operation := func() error {
		c.mu.Lock()
		if c.manualClose {
			c.mu.Unlock()
			return nil
		}
		c.mu.Unlock()
		return c.Connect(context.Background())
	}

	if err := backoff.Retry(operation, bo); err != nil {
		c.logger.Warn("reconnect abandoned", "error", err)
	}
}

// handleFrame parses an inbound frame and dispatches it. The event name may
// arrive under either the "event" or the "type" key; malformed frames are
// logged and dropped.
func (c *Conn) handleFrame(raw []byte) {
	var frame struct {
		Event domain.EventType `json:"event"`
		Type  domain.EventType `json:"type"`
		Data  json.RawMessage  `json:"data"`
	}
	if err := json.Unmarshal(raw, &frame); err != nil {
		c.logger.Warn("dropping malformed frame", "error", err)
		return
	}

	event := frame.Event
	if event == "" {
		event = frame.Type
	}
	if event == "" {
		c.logger.Debug("dropping frame without event discriminator")
		return
	}

	c.emitter.emit(event, frame.Data)
}

func (c *Conn) emitConnection(event domain.EventType, reason string) {
	data, _ := json.Marshal(domain.ConnectionStatusData{Reason: reason})
	c.emitter.emit(event, data)
}
