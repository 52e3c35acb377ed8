package rest

import (
	"context"
	"net/http"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// TicketClient implements ports.TicketAPI.
type TicketClient struct {
	c *Client
}

var _ ports.TicketAPI = (*TicketClient)(nil)

// Tickets returns the ticket API surface.
func (c *Client) Tickets() *TicketClient {
	return &TicketClient{c: c}
}

func (a *TicketClient) List(ctx context.Context, opts ports.ListOptions) (ports.Page[domain.Ticket], error) {
	return list[domain.Ticket](ctx, a.c, "/tickets", opts)
}

func (a *TicketClient) Create(ctx context.Context, params ports.CreateTicketParams) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if _, err := a.c.do(ctx, http.MethodPost, "/tickets", nil, params, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (a *TicketClient) Update(ctx context.Context, id string, params ports.UpdateTicketParams) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if _, err := a.c.do(ctx, http.MethodPatch, "/tickets/"+id, nil, params, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (a *TicketClient) Delete(ctx context.Context, id string) error {
	_, err := a.c.do(ctx, http.MethodDelete, "/tickets/"+id, nil, nil, nil)
	return err
}

func (a *TicketClient) Assign(ctx context.Context, id, agentID string) error {
	body := map[string]string{"agent_id": agentID}
	_, err := a.c.do(ctx, http.MethodPost, "/tickets/"+id+"/assign", nil, body, nil)
	return err
}

func (a *TicketClient) SetStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	body := map[string]domain.TicketStatus{"status": status}
	var ticket domain.Ticket
	if _, err := a.c.do(ctx, http.MethodPatch, "/tickets/"+id+"/status", nil, body, &ticket); err != nil {
		return nil, err
	}
	if ticket.ID == "" {
		return nil, nil
	}
	return &ticket, nil
}
