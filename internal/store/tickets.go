package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// Tickets is the domain store for support tickets. Assignment is the one
// optimistic edit here: the tentative assignee lives in a pending overlay,
// never in the canonical snapshot, until the backend confirms.
type Tickets struct {
	*Store[domain.Ticket]

	api       ports.TicketAPI
	transport ports.Transport
	coord     *Coordinator

	// overlayMu guards pendingAssign, the optimistic assignment overlay
	// keyed by ticket id.
	overlayMu     sync.Mutex
	pendingAssign map[string]string

	subs []eventSub
}

// NewTickets creates the store and hooks it to ticket events.
func NewTickets(api ports.TicketAPI, transport ports.Transport, logger *slog.Logger) *Tickets {
	s := &Tickets{
		Store:         newStore[domain.Ticket]("tickets", logger),
		api:           api,
		transport:     transport,
		coord:         NewCoordinator(logger),
		pendingAssign: make(map[string]string),
	}
	s.subs = []eventSub{
		{domain.EventTicketCreated, transport.On(domain.EventTicketCreated, s.handleCreated)},
		{domain.EventTicketUpdated, transport.On(domain.EventTicketUpdated, s.handleUpdated)},
		{domain.EventTicketDeleted, transport.On(domain.EventTicketDeleted, s.handleDeleted)},
	}
	return s
}

// Close unhooks the store from the transport.
func (s *Tickets) Close() {
	for _, es := range s.subs {
		s.transport.Off(es.event, es.sub)
	}
}

// Fetch loads the ticket list with the current filters.
func (s *Tickets) Fetch(ctx context.Context) error {
	gen := s.beginFetch()
	page, err := s.api.List(ctx, s.listOptions())
	return s.completeFetch(gen, page.Items, page.Total, err)
}

// SetFilters replaces the filter state and refetches.
func (s *Tickets) SetFilters(ctx context.Context, filters map[string]string, page, limit int) error {
	s.setFilters(filters, page, limit)
	return s.Fetch(ctx)
}

// ClearFilters resets the filter state and refetches.
func (s *Tickets) ClearFilters(ctx context.Context) error {
	s.clearFilters()
	return s.Fetch(ctx)
}

// Create opens a ticket. Non-optimistic.
func (s *Tickets) Create(ctx context.Context, params ports.CreateTicketParams) (*domain.Ticket, error) {
	ticket, err := s.api.Create(ctx, params)
	if err != nil {
		s.setError(err)
		return nil, err
	}
	s.Upsert(*ticket)
	return ticket, nil
}

// Update edits a ticket's subject or priority. Non-optimistic.
func (s *Tickets) Update(ctx context.Context, id string, params ports.UpdateTicketParams) error {
	ticket, err := s.api.Update(ctx, id, params)
	if err != nil {
		s.setError(err)
		return err
	}
	s.Upsert(*ticket)
	return nil
}

// Delete removes a ticket. Non-optimistic.
func (s *Tickets) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, id); err != nil {
		s.setError(err)
		return err
	}
	s.Remove(id)
	return nil
}

// SetStatus changes the ticket's workflow status, REST first. Transitions
// the workflow forbids are rejected locally without a backend call.
func (s *Tickets) SetStatus(ctx context.Context, id string, status domain.TicketStatus) error {
	if ticket, ok := s.Get(id); ok && !ticket.CanTransition(status) {
		s.setError(domain.ErrInvalidStatusTransition)
		return domain.ErrInvalidStatusTransition
	}

	var echo *domain.Ticket
	err := s.coord.Run(ctx, Mutation{
		EntityID:   id,
		Kind:       KindStatus,
		Optimistic: false,
		Call: func(ctx context.Context) error {
			var err error
			echo, err = s.api.SetStatus(ctx, id, status)
			return err
		},
		Commit: func() {
			if echo != nil {
				s.Upsert(*echo)
				return
			}
			s.ApplyPatch(id, func() domain.Ticket {
				return domain.Ticket{ID: id}
			}, func(t *domain.Ticket) {
				t.Status = status
			})
		},
	})
	if err != nil {
		s.setError(err)
	}
	return err
}

// Assign stages the new assignee in the pending overlay, then asks the
// backend. On success the snapshot's assignment field is patched and the
// overlay cleared; on failure the overlay is retained so the operator can
// retry or cancel. A concurrent re-assign of the same ticket supersedes
// this one.
func (s *Tickets) Assign(ctx context.Context, id, agentID string) error {
	err := s.coord.Run(ctx, Mutation{
		EntityID:   id,
		Kind:       KindAssign,
		Optimistic: true,
		Stage: func() {
			s.overlayMu.Lock()
			s.pendingAssign[id] = agentID
			s.overlayMu.Unlock()
			s.notify()
		},
		Call: func(ctx context.Context) error {
			return s.api.Assign(ctx, id, agentID)
		},
		Commit: func() {
			s.overlayMu.Lock()
			delete(s.pendingAssign, id)
			s.overlayMu.Unlock()
			s.ApplyPatch(id, func() domain.Ticket {
				return domain.Ticket{ID: id}
			}, func(t *domain.Ticket) {
				t.AssignedAgentID = agentID
			})
		},
	})
	if err != nil {
		s.setError(err)
	}
	return err
}

// PendingAssignment returns the staged assignee for a ticket, if any.
func (s *Tickets) PendingAssignment(id string) (string, bool) {
	s.overlayMu.Lock()
	defer s.overlayMu.Unlock()
	agentID, ok := s.pendingAssign[id]
	return agentID, ok
}

// CancelAssignment discards a staged assignee explicitly.
func (s *Tickets) CancelAssignment(id string) {
	s.overlayMu.Lock()
	delete(s.pendingAssign, id)
	s.overlayMu.Unlock()
	s.notify()
}

// EffectiveAssignee returns the assignee the UI should show: the pending
// overlay when present, the canonical value otherwise.
func (s *Tickets) EffectiveAssignee(id string) string {
	if agentID, ok := s.PendingAssignment(id); ok {
		return agentID
	}
	if ticket, ok := s.Get(id); ok {
		return ticket.AssignedAgentID
	}
	return ""
}

func (s *Tickets) handleCreated(data json.RawMessage) {
	var ticket domain.Ticket
	if err := json.Unmarshal(data, &ticket); err != nil || ticket.ID == "" {
		s.logger.Warn("dropping ticket_created payload", "error", err)
		return
	}
	s.Upsert(ticket)
}

func (s *Tickets) handleUpdated(data json.RawMessage) {
	var patch domain.TicketPatch
	if err := json.Unmarshal(data, &patch); err != nil || patch.ID == "" {
		s.logger.Warn("dropping ticket_updated payload", "error", err)
		return
	}
	// A confirmed assignment push supersedes any stale overlay.
	if patch.AssignedAgentID != nil {
		s.overlayMu.Lock()
		delete(s.pendingAssign, patch.ID)
		s.overlayMu.Unlock()
	}
	s.ApplyPatch(patch.ID, func() domain.Ticket {
		return domain.Ticket{ID: patch.ID}
	}, patch.Apply)
}

func (s *Tickets) handleDeleted(data json.RawMessage) {
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.ID == "" {
		s.logger.Warn("dropping ticket_deleted payload", "error", err)
		return
	}
	s.Remove(payload.ID)
}
