package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lorrc/chatdesk-client/internal/auth"
	"github.com/lorrc/chatdesk-client/internal/config"
	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/infrastructure/logging"
	"github.com/lorrc/chatdesk-client/internal/mock"
	"github.com/lorrc/chatdesk-client/internal/realtime"
	"github.com/lorrc/chatdesk-client/internal/rest"
	"github.com/lorrc/chatdesk-client/internal/store"
)

// app bundles the wired client layers the subcommands run against.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	tokens *auth.TokenHolder
	rest   *rest.Client

	// mockSrv is set only in mock mode; close() tears it down.
	mockSrv *mock.Server
}

func wireApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stderr,
		ServiceName: cfg.App.Name,
	})

	tokens := auth.NewTokenHolder(cfg.API.Token)

	a := &app{
		cfg:    cfg,
		logger: logger,
		tokens: tokens,
	}

	if cfg.IsMock() {
		a.mockSrv = mock.NewServer(logger)
		cfg.API.BaseURL = a.mockSrv.URL()
		cfg.WebSocket.URL = a.mockSrv.WSURL()

		token, err := mock.DemoToken("agent-1", domain.RoleAdmin)
		if err != nil {
			a.mockSrv.Close()
			return nil, fmt.Errorf("sign demo token: %w", err)
		}
		tokens.SetToken(token)
		logger.Info("mock backend started", "url", cfg.API.BaseURL)
	}

	a.rest = rest.New(cfg.API, tokens, logger)
	return a, nil
}

func (a *app) close() {
	if a.mockSrv != nil {
		a.mockSrv.Close()
	}
}

// liveSession is the realtime side: connected transport, room manager and
// domain stores. Commands that need pushes open one and close it when done.
type liveSession struct {
	conn  *realtime.Conn
	rooms *realtime.RoomManager

	conversations *store.Conversations
	sessions      *store.Sessions
	tickets       *store.Tickets
	labels        *store.Labels
	agents        *store.Agents
	groups        *store.Groups
}

// connect dials the websocket and wires the stores. The global room is
// joined immediately; callers add narrower rooms as needed.
func (a *app) connect(ctx context.Context) (*liveSession, error) {
	conn := realtime.NewConn(a.cfg.WebSocket, a.tokens, a.logger)
	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect websocket: %w", err)
	}

	rooms := realtime.NewRoomManager(conn, a.logger)
	rooms.JoinGlobal()

	return &liveSession{
		conn:          conn,
		rooms:         rooms,
		conversations: store.NewConversations(a.rest.Conversations(), conn, a.logger),
		sessions:      store.NewSessions(a.rest.Sessions(), conn, a.logger),
		tickets:       store.NewTickets(a.rest.Tickets(), conn, a.logger),
		labels:        store.NewLabels(a.rest.Labels(), conn, a.logger),
		agents:        store.NewAgents(a.rest.Agents(), conn, a.logger),
		groups:        store.NewGroups(a.rest.Groups(), conn, a.logger),
	}, nil
}

func (s *liveSession) close() {
	s.conversations.Close()
	s.sessions.Close()
	s.tickets.Close()
	s.labels.Close()
	s.agents.Close()
	s.groups.Close()
	s.rooms.Close()
	s.conn.Disconnect("shutdown")
}

// writeJSON pretty-prints v to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table writes aligned columns to the command's stdout.
func table(cmd *cobra.Command, header []string, rows [][]string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for i, col := range header {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, col)
	}
	fmt.Fprintln(w)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
