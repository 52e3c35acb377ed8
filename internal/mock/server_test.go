package mock

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/chatdesk-client/internal/auth"
	"github.com/lorrc/chatdesk-client/internal/config"
	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
	"github.com/lorrc/chatdesk-client/internal/realtime"
	"github.com/lorrc/chatdesk-client/internal/rest"
	"github.com/lorrc/chatdesk-client/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startServer(t *testing.T) (*Server, *auth.TokenHolder) {
	t.Helper()
	srv := NewServer(testLogger())
	t.Cleanup(srv.Close)

	token, err := DemoToken("agent-1", domain.RoleAdmin)
	require.NoError(t, err)
	return srv, auth.NewTokenHolder(token)
}

func restClient(srv *Server, tokens *auth.TokenHolder) *rest.Client {
	return rest.New(config.APIConfig{
		BaseURL: srv.URL(),
		Timeout: 5 * time.Second,
	}, tokens, testLogger())
}

func TestServer_ServesSeededData(t *testing.T) {
	srv, tokens := startServer(t)
	c := restClient(srv, tokens)

	conversations, err := c.Conversations().List(context.Background(), ports.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, conversations.Items, 3)

	agents, err := c.Agents().List(context.Background(), ports.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, agents.Items, 3)

	tickets, err := c.Tickets().List(context.Background(), ports.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, tickets.Items, 2)
}

func TestServer_ListFilters(t *testing.T) {
	srv, tokens := startServer(t)
	c := restClient(srv, tokens)

	open, err := c.Tickets().List(context.Background(), ports.ListOptions{
		Filters: map[string]string{"status": "open"},
	})
	require.NoError(t, err)
	require.Len(t, open.Items, 1)
	assert.Equal(t, domain.TicketOpen, open.Items[0].Status)
}

func TestServer_ErrorMapping(t *testing.T) {
	srv, tokens := startServer(t)
	c := restClient(srv, tokens)

	t.Run("unknown id is 404", func(t *testing.T) {
		err := c.Conversations().Block(context.Background(), "ghost")
		assert.Error(t, err)
	})

	t.Run("forbidden status transition is 409", func(t *testing.T) {
		// ticket-1 is open; open -> open is not a transition.
		_, err := c.Tickets().SetStatus(context.Background(), "ticket-1", domain.TicketOpen)
		assert.Error(t, err)
	})
}

func TestServer_PushReachesStoreThroughConn(t *testing.T) {
	srv, tokens := startServer(t)
	c := restClient(srv, tokens)

	conn := realtime.NewConn(config.WebSocketConfig{
		URL:              srv.WSURL(),
		HandshakeTimeout: 5 * time.Second,
		AutoReconnect:    false,
	}, tokens, testLogger())
	require.NoError(t, conn.Connect(context.Background()))
	defer conn.Disconnect("test done")

	rooms := realtime.NewRoomManager(conn, testLogger())
	defer rooms.Close()
	rooms.JoinGlobal()

	conversations := store.NewConversations(c.Conversations(), conn, testLogger())
	defer conversations.Close()
	require.NoError(t, conversations.Fetch(context.Background()))

	// A REST mutation from this same client comes back as a push and lands
	// in the store.
	require.NoError(t, c.Conversations().Block(context.Background(), "conv-2"))

	require.Eventually(t, func() bool {
		conv, ok := conversations.Get("conv-2")
		return ok && conv.Blocked
	}, 3*time.Second, 20*time.Millisecond)
}

func TestServer_SessionLifecycleAndQR(t *testing.T) {
	srv, tokens := startServer(t)
	c := restClient(srv, tokens)

	conn := realtime.NewConn(config.WebSocketConfig{
		URL:              srv.WSURL(),
		HandshakeTimeout: 5 * time.Second,
		AutoReconnect:    false,
	}, tokens, testLogger())
	require.NoError(t, conn.Connect(context.Background()))
	defer conn.Disconnect("test done")

	rooms := realtime.NewRoomManager(conn, testLogger())
	defer rooms.Close()
	rooms.JoinGlobal()
	rooms.JoinSessionRoom("session-2")

	sessions := store.NewSessions(c.Sessions(), conn, testLogger())
	defer sessions.Close()
	require.NoError(t, sessions.Fetch(context.Background()))

	// session-2 is seeded disconnected; starting it moves it to qr_pending
	// and pushes a QR code to its room.
	require.NoError(t, sessions.Start(context.Background(), "session-2"))

	require.Eventually(t, func() bool {
		sess, ok := sessions.Get("session-2")
		return ok && sess.Status == domain.SessionQRPending && sess.QRCode != ""
	}, 3*time.Second, 20*time.Millisecond)
}

func TestServer_RejectsBadWSToken(t *testing.T) {
	srv, _ := startServer(t)

	conn := realtime.NewConn(config.WebSocketConfig{
		URL:              srv.WSURL(),
		HandshakeTimeout: 5 * time.Second,
		AutoReconnect:    false,
	}, auth.NewTokenHolder("not-a-jwt"), testLogger())

	err := conn.Connect(context.Background())
	assert.Error(t, err)
}
