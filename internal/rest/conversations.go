package rest

import (
	"context"
	"net/http"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// ConversationClient implements ports.ConversationAPI.
type ConversationClient struct {
	c *Client
}

var _ ports.ConversationAPI = (*ConversationClient)(nil)

// Conversations returns the conversation API surface.
func (c *Client) Conversations() *ConversationClient {
	return &ConversationClient{c: c}
}

func (a *ConversationClient) List(ctx context.Context, opts ports.ListOptions) (ports.Page[domain.Conversation], error) {
	return list[domain.Conversation](ctx, a.c, "/conversations", opts)
}

func (a *ConversationClient) Block(ctx context.Context, id string) error {
	_, err := a.c.do(ctx, http.MethodPost, "/conversations/"+id+"/block", nil, nil, nil)
	return err
}

func (a *ConversationClient) Unblock(ctx context.Context, id string) error {
	_, err := a.c.do(ctx, http.MethodPost, "/conversations/"+id+"/unblock", nil, nil, nil)
	return err
}

func (a *ConversationClient) AddLabel(ctx context.Context, conversationID, labelID string) error {
	_, err := a.c.do(ctx, http.MethodPost, "/conversations/"+conversationID+"/labels/"+labelID, nil, nil, nil)
	return err
}

func (a *ConversationClient) RemoveLabel(ctx context.Context, conversationID, labelID string) error {
	_, err := a.c.do(ctx, http.MethodDelete, "/conversations/"+conversationID+"/labels/"+labelID, nil, nil, nil)
	return err
}
