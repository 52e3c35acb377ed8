package domain

import (
	"errors"
	"time"
)

// ErrInvalidStatusTransition is returned when a ticket status change is not
// allowed by the workflow.
var ErrInvalidStatusTransition = errors.New("invalid ticket status transition")

// TicketStatus represents the workflow state of a ticket.
type TicketStatus string

const (
	TicketOpen     TicketStatus = "open"
	TicketPending  TicketStatus = "pending"
	TicketResolved TicketStatus = "resolved"
	TicketClosed   TicketStatus = "closed"
)

// TicketPriority represents the urgency of a ticket.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
)

// Ticket is a support case opened from a conversation.
type Ticket struct {
	ID              string         `json:"id"`
	ConversationID  string         `json:"conversation_id"`
	Subject         string         `json:"subject"`
	Status          TicketStatus   `json:"status"`
	Priority        TicketPriority `json:"priority"`
	AssignedAgentID string         `json:"assigned_agent_id,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       *time.Time     `json:"updated_at,omitempty"`
}

// EntityID implements the store entity contract.
func (t Ticket) EntityID() string { return t.ID }

// CanTransition reports whether the status change is allowed. Closed is
// terminal.
func (t Ticket) CanTransition(to TicketStatus) bool {
	transitions := map[TicketStatus][]TicketStatus{
		TicketOpen:     {TicketPending, TicketResolved, TicketClosed},
		TicketPending:  {TicketOpen, TicketResolved, TicketClosed},
		TicketResolved: {TicketOpen, TicketClosed},
		TicketClosed:   {},
	}
	for _, s := range transitions[t.Status] {
		if s == to {
			return true
		}
	}
	return false
}

// TicketPatch carries the fields a ticket_updated push may change.
type TicketPatch struct {
	ID              string          `json:"id"`
	Subject         *string         `json:"subject,omitempty"`
	Status          *TicketStatus   `json:"status,omitempty"`
	Priority        *TicketPriority `json:"priority,omitempty"`
	AssignedAgentID *string         `json:"assigned_agent_id,omitempty"`
	UpdatedAt       *time.Time      `json:"updated_at,omitempty"`
}

// Apply merges the patch into the ticket.
func (p TicketPatch) Apply(t *Ticket) {
	if p.Subject != nil {
		t.Subject = *p.Subject
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.AssignedAgentID != nil {
		t.AssignedAgentID = *p.AssignedAgentID
	}
	if p.UpdatedAt != nil {
		t.UpdatedAt = p.UpdatedAt
	}
}
