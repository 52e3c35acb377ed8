package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// MockConversationAPI is a mock implementation of ports.ConversationAPI.
type MockConversationAPI struct {
	mock.Mock
}

func NewMockConversationAPI() *MockConversationAPI {
	return &MockConversationAPI{}
}

func (m *MockConversationAPI) List(ctx context.Context, opts ports.ListOptions) (ports.Page[domain.Conversation], error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(ports.Page[domain.Conversation]), args.Error(1)
}

func (m *MockConversationAPI) Block(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockConversationAPI) Unblock(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockConversationAPI) AddLabel(ctx context.Context, conversationID, labelID string) error {
	return m.Called(ctx, conversationID, labelID).Error(0)
}

func (m *MockConversationAPI) RemoveLabel(ctx context.Context, conversationID, labelID string) error {
	return m.Called(ctx, conversationID, labelID).Error(0)
}

// MockSessionAPI is a mock implementation of ports.SessionAPI.
type MockSessionAPI struct {
	mock.Mock
}

func NewMockSessionAPI() *MockSessionAPI {
	return &MockSessionAPI{}
}

func (m *MockSessionAPI) List(ctx context.Context, opts ports.ListOptions) (ports.Page[domain.Session], error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(ports.Page[domain.Session]), args.Error(1)
}

func (m *MockSessionAPI) Create(ctx context.Context, params ports.CreateSessionParams) (*domain.Session, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionAPI) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSessionAPI) Start(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionAPI) Stop(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionAPI) Restart(ctx context.Context, id string) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

// MockTicketAPI is a mock implementation of ports.TicketAPI.
type MockTicketAPI struct {
	mock.Mock
}

func NewMockTicketAPI() *MockTicketAPI {
	return &MockTicketAPI{}
}

func (m *MockTicketAPI) List(ctx context.Context, opts ports.ListOptions) (ports.Page[domain.Ticket], error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(ports.Page[domain.Ticket]), args.Error(1)
}

func (m *MockTicketAPI) Create(ctx context.Context, params ports.CreateTicketParams) (*domain.Ticket, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketAPI) Update(ctx context.Context, id string, params ports.UpdateTicketParams) (*domain.Ticket, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

func (m *MockTicketAPI) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTicketAPI) Assign(ctx context.Context, id, agentID string) error {
	return m.Called(ctx, id, agentID).Error(0)
}

func (m *MockTicketAPI) SetStatus(ctx context.Context, id string, status domain.TicketStatus) (*domain.Ticket, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Ticket), args.Error(1)
}

// MockLabelAPI is a mock implementation of ports.LabelAPI.
type MockLabelAPI struct {
	mock.Mock
}

func NewMockLabelAPI() *MockLabelAPI {
	return &MockLabelAPI{}
}

func (m *MockLabelAPI) List(ctx context.Context, opts ports.ListOptions) (ports.Page[domain.Label], error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(ports.Page[domain.Label]), args.Error(1)
}

func (m *MockLabelAPI) Create(ctx context.Context, params ports.LabelParams) (*domain.Label, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Label), args.Error(1)
}

func (m *MockLabelAPI) Update(ctx context.Context, id string, params ports.LabelParams) (*domain.Label, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Label), args.Error(1)
}

func (m *MockLabelAPI) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// MockAgentAPI is a mock implementation of ports.AgentAPI.
type MockAgentAPI struct {
	mock.Mock
}

func NewMockAgentAPI() *MockAgentAPI {
	return &MockAgentAPI{}
}

func (m *MockAgentAPI) List(ctx context.Context, opts ports.ListOptions) (ports.Page[domain.Agent], error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(ports.Page[domain.Agent]), args.Error(1)
}

// MockGroupAPI is a mock implementation of ports.GroupAPI.
type MockGroupAPI struct {
	mock.Mock
}

func NewMockGroupAPI() *MockGroupAPI {
	return &MockGroupAPI{}
}

func (m *MockGroupAPI) List(ctx context.Context, opts ports.ListOptions) (ports.Page[domain.AgentGroup], error) {
	args := m.Called(ctx, opts)
	return args.Get(0).(ports.Page[domain.AgentGroup]), args.Error(1)
}

func (m *MockGroupAPI) Create(ctx context.Context, params ports.GroupParams) (*domain.AgentGroup, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgentGroup), args.Error(1)
}

func (m *MockGroupAPI) Update(ctx context.Context, id string, params ports.GroupParams) (*domain.AgentGroup, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgentGroup), args.Error(1)
}

func (m *MockGroupAPI) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGroupAPI) AddMember(ctx context.Context, groupID, agentID string) error {
	return m.Called(ctx, groupID, agentID).Error(0)
}

func (m *MockGroupAPI) RemoveMember(ctx context.Context, groupID, agentID string) error {
	return m.Called(ctx, groupID, agentID).Error(0)
}
