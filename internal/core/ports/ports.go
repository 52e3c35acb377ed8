package ports

import (
	"context"
	"encoding/json"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
)

// Handler consumes the data payload of a real-time event.
type Handler func(data json.RawMessage)

// Subscription identifies a registered handler so it can be removed. Go
// funcs are not comparable, so Off takes the token On returned.
type Subscription int

// Transport is the realtime connection as the stores and the room manager
// see it. Send must never fail into the caller: frames sent while
// disconnected are dropped (the room manager replays joins on reconnect).
type Transport interface {
	Send(frame any)
	On(event domain.EventType, fn Handler) Subscription
	Off(event domain.EventType, sub Subscription)
	IsConnected() bool
}

// ListOptions carries pagination and filter parameters for list calls.
type ListOptions struct {
	Page    int
	Limit   int
	Filters map[string]string
}

// Page is one page of a list response plus the backend's total count.
type Page[T any] struct {
	Items []T
	Total int64
}

// ConversationAPI is the REST surface for conversations.
type ConversationAPI interface {
	List(ctx context.Context, opts ListOptions) (Page[domain.Conversation], error)
	Block(ctx context.Context, id string) error
	Unblock(ctx context.Context, id string) error
	AddLabel(ctx context.Context, conversationID, labelID string) error
	RemoveLabel(ctx context.Context, conversationID, labelID string) error
}

// SessionAPI is the REST surface for WhatsApp sessions.
type SessionAPI interface {
	List(ctx context.Context, opts ListOptions) (Page[domain.Session], error)
	Create(ctx context.Context, params CreateSessionParams) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	Start(ctx context.Context, id string) (*domain.Session, error)
	Stop(ctx context.Context, id string) (*domain.Session, error)
	Restart(ctx context.Context, id string) (*domain.Session, error)
}

// CreateSessionParams are the fields needed to register a new session.
type CreateSessionParams struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// TicketAPI is the REST surface for tickets.
type TicketAPI interface {
	List(ctx context.Context, opts ListOptions) (Page[domain.Ticket], error)
	Create(ctx context.Context, params CreateTicketParams) (*domain.Ticket, error)
	Update(ctx context.Context, id string, params UpdateTicketParams) (*domain.Ticket, error)
	Delete(ctx context.Context, id string) error
	Assign(ctx context.Context, id, agentID string) error
	SetStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error)
}

// CreateTicketParams are the fields needed to open a ticket.
type CreateTicketParams struct {
	ConversationID string                `json:"conversation_id"`
	Subject        string                `json:"subject"`
	Priority       domain.TicketPriority `json:"priority"`
}

// UpdateTicketParams are the editable ticket fields.
type UpdateTicketParams struct {
	Subject  *string                `json:"subject,omitempty"`
	Priority *domain.TicketPriority `json:"priority,omitempty"`
}

// LabelAPI is the REST surface for labels.
type LabelAPI interface {
	List(ctx context.Context, opts ListOptions) (Page[domain.Label], error)
	Create(ctx context.Context, params LabelParams) (*domain.Label, error)
	Update(ctx context.Context, id string, params LabelParams) (*domain.Label, error)
	Delete(ctx context.Context, id string) error
}

// LabelParams are the editable label fields.
type LabelParams struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}

// AgentAPI is the REST surface for agents.
type AgentAPI interface {
	List(ctx context.Context, opts ListOptions) (Page[domain.Agent], error)
}

// GroupAPI is the REST surface for agent groups.
type GroupAPI interface {
	List(ctx context.Context, opts ListOptions) (Page[domain.AgentGroup], error)
	Create(ctx context.Context, params GroupParams) (*domain.AgentGroup, error)
	Update(ctx context.Context, id string, params GroupParams) (*domain.AgentGroup, error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, groupID, agentID string) error
	RemoveMember(ctx context.Context, groupID, agentID string) error
}

// GroupParams are the editable group fields.
type GroupParams struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
}
