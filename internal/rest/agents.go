package rest

import (
	"context"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// AgentClient implements ports.AgentAPI.
type AgentClient struct {
	c *Client
}

var _ ports.AgentAPI = (*AgentClient)(nil)

// Agents returns the agent API surface.
func (c *Client) Agents() *AgentClient {
	return &AgentClient{c: c}
}

func (a *AgentClient) List(ctx context.Context, opts ports.ListOptions) (ports.Page[domain.Agent], error) {
	return list[domain.Agent](ctx, a.c, "/agents", opts)
}
