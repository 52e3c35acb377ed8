package rest

import (
	"context"
	"net/http"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// GroupClient implements ports.GroupAPI.
type GroupClient struct {
	c *Client
}

var _ ports.GroupAPI = (*GroupClient)(nil)

// Groups returns the agent-group API surface.
func (c *Client) Groups() *GroupClient {
	return &GroupClient{c: c}
}

func (a *GroupClient) List(ctx context.Context, opts ports.ListOptions) (ports.Page[domain.AgentGroup], error) {
	return list[domain.AgentGroup](ctx, a.c, "/groups", opts)
}

func (a *GroupClient) Create(ctx context.Context, params ports.GroupParams) (*domain.AgentGroup, error) {
	var group domain.AgentGroup
	if _, err := a.c.do(ctx, http.MethodPost, "/groups", nil, params, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (a *GroupClient) Update(ctx context.Context, id string, params ports.GroupParams) (*domain.AgentGroup, error) {
	var group domain.AgentGroup
	if _, err := a.c.do(ctx, http.MethodPatch, "/groups/"+id, nil, params, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

func (a *GroupClient) Delete(ctx context.Context, id string) error {
	_, err := a.c.do(ctx, http.MethodDelete, "/groups/"+id, nil, nil, nil)
	return err
}

func (a *GroupClient) AddMember(ctx context.Context, groupID, agentID string) error {
	_, err := a.c.do(ctx, http.MethodPost, "/groups/"+groupID+"/members/"+agentID, nil, nil, nil)
	return err
}

func (a *GroupClient) RemoveMember(ctx context.Context, groupID, agentID string) error {
	_, err := a.c.do(ctx, http.MethodDelete, "/groups/"+groupID+"/members/"+agentID, nil, nil, nil)
	return err
}
