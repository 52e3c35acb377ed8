package rest

import (
	"context"
	"net/http"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// SessionClient implements ports.SessionAPI.
type SessionClient struct {
	c *Client
}

var _ ports.SessionAPI = (*SessionClient)(nil)

// Sessions returns the session API surface.
func (c *Client) Sessions() *SessionClient {
	return &SessionClient{c: c}
}

func (a *SessionClient) List(ctx context.Context, opts ports.ListOptions) (ports.Page[domain.Session], error) {
	return list[domain.Session](ctx, a.c, "/sessions", opts)
}

func (a *SessionClient) Create(ctx context.Context, params ports.CreateSessionParams) (*domain.Session, error) {
	var session domain.Session
	if _, err := a.c.do(ctx, http.MethodPost, "/sessions", nil, params, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (a *SessionClient) Delete(ctx context.Context, id string) error {
	_, err := a.c.do(ctx, http.MethodDelete, "/sessions/"+id, nil, nil, nil)
	return err
}

func (a *SessionClient) Start(ctx context.Context, id string) (*domain.Session, error) {
	return a.action(ctx, id, "start")
}

func (a *SessionClient) Stop(ctx context.Context, id string) (*domain.Session, error) {
	return a.action(ctx, id, "stop")
}

func (a *SessionClient) Restart(ctx context.Context, id string) (*domain.Session, error) {
	return a.action(ctx, id, "restart")
}

// action posts a lifecycle action. The backend echoes the updated session
// when it can; a missing echo is tolerated.
func (a *SessionClient) action(ctx context.Context, id, name string) (*domain.Session, error) {
	var session domain.Session
	if _, err := a.c.do(ctx, http.MethodPost, "/sessions/"+id+"/"+name, nil, nil, &session); err != nil {
		return nil, err
	}
	if session.ID == "" {
		return nil, nil
	}
	return &session, nil
}
