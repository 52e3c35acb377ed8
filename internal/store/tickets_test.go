package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	apperrors "github.com/lorrc/chatdesk-client/internal/core/errors"
	"github.com/lorrc/chatdesk-client/internal/core/mocks"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

func newTicketsStore(t *testing.T) (*Tickets, *mocks.MockTicketAPI, *mocks.FakeTransport) {
	t.Helper()
	api := mocks.NewMockTicketAPI()
	transport := mocks.NewFakeTransport()
	transport.SetConnected(true)
	s := NewTickets(api, transport, testLogger())
	t.Cleanup(s.Close)
	return s, api, transport
}

func ticketPage(tickets ...domain.Ticket) ports.Page[domain.Ticket] {
	return ports.Page[domain.Ticket]{Items: tickets, Total: int64(len(tickets))}
}

func TestTickets_AssignFailureKeepsOverlay(t *testing.T) {
	s, api, _ := newTicketsStore(t)
	api.On("List", mock.Anything, mock.Anything).
		Return(ticketPage(domain.Ticket{ID: "t1", Status: domain.TicketOpen, AssignedAgentID: "old"}), nil)
	require.NoError(t, s.Fetch(context.Background()))

	api.On("Assign", mock.Anything, "t1", "new").
		Return(apperrors.NewAPIError(409, "agent offline")).Once()

	require.Error(t, s.Assign(context.Background(), "t1", "new"))

	// The canonical snapshot never saw the tentative assignee; the overlay
	// keeps it for retry.
	ticket, _ := s.Get("t1")
	assert.Equal(t, "old", ticket.AssignedAgentID)
	pending, ok := s.PendingAssignment("t1")
	require.True(t, ok)
	assert.Equal(t, "new", pending)
	assert.Equal(t, "new", s.EffectiveAssignee("t1"))
	assert.Equal(t, "agent offline", s.Error())

	s.CancelAssignment("t1")
	_, ok = s.PendingAssignment("t1")
	assert.False(t, ok)
	assert.Equal(t, "old", s.EffectiveAssignee("t1"))
}

func TestTickets_AssignSuccessClearsOverlay(t *testing.T) {
	s, api, _ := newTicketsStore(t)
	api.On("List", mock.Anything, mock.Anything).
		Return(ticketPage(domain.Ticket{ID: "t1", Status: domain.TicketOpen}), nil)
	require.NoError(t, s.Fetch(context.Background()))

	api.On("Assign", mock.Anything, "t1", "agent-2").Return(nil).Once()

	require.NoError(t, s.Assign(context.Background(), "t1", "agent-2"))

	ticket, _ := s.Get("t1")
	assert.Equal(t, "agent-2", ticket.AssignedAgentID)
	_, ok := s.PendingAssignment("t1")
	assert.False(t, ok)
	assert.Equal(t, "agent-2", s.EffectiveAssignee("t1"))
}

func TestTickets_SetStatusRejectsForbiddenTransitionLocally(t *testing.T) {
	s, api, _ := newTicketsStore(t)
	api.On("List", mock.Anything, mock.Anything).
		Return(ticketPage(domain.Ticket{ID: "t1", Status: domain.TicketClosed}), nil)
	require.NoError(t, s.Fetch(context.Background()))

	// Closed is terminal; no backend call is issued.
	err := s.SetStatus(context.Background(), "t1", domain.TicketOpen)
	require.ErrorIs(t, err, domain.ErrInvalidStatusTransition)
	api.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)

	ticket, _ := s.Get("t1")
	assert.Equal(t, domain.TicketClosed, ticket.Status)
}

func TestTickets_SetStatusUsesBackendEcho(t *testing.T) {
	s, api, _ := newTicketsStore(t)
	api.On("List", mock.Anything, mock.Anything).
		Return(ticketPage(domain.Ticket{ID: "t1", Status: domain.TicketOpen}), nil)
	require.NoError(t, s.Fetch(context.Background()))

	api.On("SetStatus", mock.Anything, "t1", domain.TicketResolved).
		Return(&domain.Ticket{ID: "t1", Status: domain.TicketResolved, Subject: "echoed"}, nil).Once()

	require.NoError(t, s.SetStatus(context.Background(), "t1", domain.TicketResolved))
	ticket, _ := s.Get("t1")
	assert.Equal(t, domain.TicketResolved, ticket.Status)
	assert.Equal(t, "echoed", ticket.Subject)
}

func TestTickets_PushedAssignmentSupersedesOverlay(t *testing.T) {
	s, api, transport := newTicketsStore(t)
	api.On("List", mock.Anything, mock.Anything).
		Return(ticketPage(domain.Ticket{ID: "t1", Status: domain.TicketOpen}), nil)
	require.NoError(t, s.Fetch(context.Background()))

	api.On("Assign", mock.Anything, "t1", "mine").
		Return(apperrors.NewAPIError(500, "boom")).Once()
	_ = s.Assign(context.Background(), "t1", "mine")
	_, ok := s.PendingAssignment("t1")
	require.True(t, ok)

	// Another admin's confirmed assignment arrives over the socket. The
	// stale overlay must not shadow it.
	agentID := "theirs"
	transport.EmitJSON(domain.EventTicketUpdated, domain.TicketPatch{
		ID:              "t1",
		AssignedAgentID: &agentID,
	})

	_, ok = s.PendingAssignment("t1")
	assert.False(t, ok)
	assert.Equal(t, "theirs", s.EffectiveAssignee("t1"))
}

func TestTickets_CreatedAndDeletedPushes(t *testing.T) {
	s, _, transport := newTicketsStore(t)

	transport.EmitJSON(domain.EventTicketCreated, domain.Ticket{
		ID:      "t1",
		Subject: "printer on fire",
		Status:  domain.TicketOpen,
	})
	require.Equal(t, 1, s.Len())

	transport.EmitJSON(domain.EventTicketDeleted, map[string]string{"id": "t1"})
	assert.Zero(t, s.Len())
}
