package mock

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

var (
	errNotFound = errors.New("not found")
	errInvalid  = errors.New("invalid request")
)

// State is the in-memory dataset behind the mock backend. Every mutation
// broadcasts the matching real-time event so attached websocket clients see
// the same changes a REST caller does.
type State struct {
	hub *Hub

	mu            sync.RWMutex
	conversations map[string]*domain.Conversation
	sessions      map[string]*domain.Session
	tickets       map[string]*domain.Ticket
	labels        map[string]*domain.Label
	agents        map[string]*domain.Agent
	groups        map[string]*domain.AgentGroup

	// messages maps message IDs to their conversation, so message_read
	// frames can clear the right unread counter.
	messages map[string]string
}

// NewState builds a seeded dataset wired to the hub.
func NewState(hub *Hub) *State {
	s := &State{
		hub:           hub,
		conversations: make(map[string]*domain.Conversation),
		sessions:      make(map[string]*domain.Session),
		tickets:       make(map[string]*domain.Ticket),
		labels:        make(map[string]*domain.Label),
		agents:        make(map[string]*domain.Agent),
		groups:        make(map[string]*domain.AgentGroup),
		messages:      make(map[string]string),
	}
	s.seed()
	return s
}

func (s *State) seed() {
	now := time.Now().UTC()

	for _, a := range []*domain.Agent{
		{ID: "agent-1", Name: "Maria Santos", Email: "maria@chatdesk.dev", Role: domain.RoleAdmin},
		{ID: "agent-2", Name: "Joao Lima", Email: "joao@chatdesk.dev", Role: domain.RoleSupervisor},
		{ID: "agent-3", Name: "Ana Costa", Email: "ana@chatdesk.dev", Role: domain.RoleAgent},
	} {
		s.agents[a.ID] = a
	}

	for _, l := range []*domain.Label{
		{ID: "label-1", Name: "billing", Color: "#e74c3c", ConversationCount: 1},
		{ID: "label-2", Name: "onboarding", Color: "#2ecc71", ConversationCount: 1},
		{ID: "label-3", Name: "vip", Color: "#f1c40f"},
	} {
		s.labels[l.ID] = l
	}

	for _, g := range []*domain.AgentGroup{
		{ID: "group-1", Name: "Support", Color: "#3498db", Members: []string{"agent-1", "agent-3"}, MemberCount: 2},
		{ID: "group-2", Name: "Sales", Color: "#9b59b6", Members: []string{"agent-2"}, MemberCount: 1},
	} {
		s.groups[g.ID] = g
	}

	for _, sess := range []*domain.Session{
		{ID: "session-1", Name: "Main line", Phone: "+5511999990001", Status: domain.SessionConnected, CreatedAt: now.Add(-48 * time.Hour)},
		{ID: "session-2", Name: "Sales line", Phone: "+5511999990002", Status: domain.SessionDisconnected, CreatedAt: now.Add(-24 * time.Hour)},
	} {
		s.sessions[sess.ID] = sess
	}

	lastAt := now.Add(-10 * time.Minute)
	for _, c := range []*domain.Conversation{
		{ID: "conv-1", ContactID: "contact-1", ContactName: "Carlos Pereira", Phone: "+5511988880001", SessionID: "session-1", Status: domain.ConversationOpen, AssignedAgentID: "agent-1", LabelIDs: []string{"label-1"}, LastMessage: "My invoice looks wrong", LastMessageAt: &lastAt, UnreadCount: 2},
		{ID: "conv-2", ContactID: "contact-2", ContactName: "Beatriz Alves", Phone: "+5511988880002", SessionID: "session-1", Status: domain.ConversationPending, LabelIDs: []string{"label-2"}, LastMessage: "How do I set up my account?"},
		{ID: "conv-3", ContactID: "contact-3", ContactName: "Rafael Souza", Phone: "+5511988880003", SessionID: "session-2", Status: domain.ConversationResolved, AssignedAgentID: "agent-3"},
	} {
		s.conversations[c.ID] = c
	}
	s.messages["msg-1"] = "conv-1"

	for _, t := range []*domain.Ticket{
		{ID: "ticket-1", ConversationID: "conv-1", Subject: "Incorrect invoice amount", Status: domain.TicketOpen, Priority: domain.PriorityHigh, AssignedAgentID: "agent-1", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "ticket-2", ConversationID: "conv-2", Subject: "Account setup help", Status: domain.TicketPending, Priority: domain.PriorityLow, CreatedAt: now.Add(-1 * time.Hour)},
	} {
		s.tickets[t.ID] = t
	}
}

// event marshals a payload into a domain.Event. Marshalling our own types
// cannot fail.
func event(t domain.EventType, v any) domain.Event {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return domain.Event{Type: t, Data: data}
}

func paginate[T any](items []T, opts ports.ListOptions) []T {
	if opts.Limit <= 0 {
		return items
	}
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * opts.Limit
	if start >= len(items) {
		return nil
	}
	end := start + opts.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func sortedValues[T any](m map[string]*T) []T {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]T, 0, len(m))
	for _, k := range keys {
		out = append(out, *m[k])
	}
	return out
}

// --- conversations ---

func (s *State) Conversations(opts ports.ListOptions) ([]domain.Conversation, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := sortedValues(s.conversations)
	filtered := all[:0:0]
	for _, c := range all {
		if status := opts.Filters["status"]; status != "" && string(c.Status) != status {
			continue
		}
		if sessionID := opts.Filters["session_id"]; sessionID != "" && c.SessionID != sessionID {
			continue
		}
		if agentID := opts.Filters["assigned_agent_id"]; agentID != "" && c.AssignedAgentID != agentID {
			continue
		}
		filtered = append(filtered, c)
	}
	return paginate(filtered, opts), int64(len(filtered))
}

func (s *State) SetConversationBlocked(id string, blocked bool) error {
	s.mu.Lock()
	c, ok := s.conversations[id]
	if !ok {
		s.mu.Unlock()
		return errNotFound
	}
	c.Blocked = blocked
	contactID := c.ContactID
	s.mu.Unlock()

	s.hub.Broadcast(event(domain.EventConversationUpdated, domain.ConversationPatch{
		ID:      id,
		Blocked: &blocked,
	}), domain.RoomGlobal, domain.ContactRoom(contactID))
	return nil
}

func (s *State) SetConversationLabel(conversationID, labelID string, attached bool) error {
	s.mu.Lock()
	c, ok := s.conversations[conversationID]
	if !ok {
		s.mu.Unlock()
		return errNotFound
	}
	if _, ok := s.labels[labelID]; !ok {
		s.mu.Unlock()
		return errNotFound
	}

	labels := make([]string, 0, len(c.LabelIDs)+1)
	for _, id := range c.LabelIDs {
		if id != labelID {
			labels = append(labels, id)
		}
	}
	if attached {
		labels = append(labels, labelID)
	}
	c.LabelIDs = labels
	contactID := c.ContactID
	s.mu.Unlock()

	s.hub.Broadcast(event(domain.EventConversationUpdated, domain.ConversationPatch{
		ID:       conversationID,
		LabelIDs: &labels,
	}), domain.RoomGlobal, domain.ContactRoom(contactID))
	return nil
}

// IncomingMessage simulates a contact message arriving on a conversation.
func (s *State) IncomingMessage(conversationID, body string) (string, error) {
	s.mu.Lock()
	c, ok := s.conversations[conversationID]
	if !ok {
		s.mu.Unlock()
		return "", errNotFound
	}
	messageID := uuid.NewString()
	now := time.Now().UTC()
	c.LastMessage = body
	c.LastMessageAt = &now
	c.UnreadCount++
	s.messages[messageID] = conversationID
	contactID := c.ContactID
	s.mu.Unlock()

	s.hub.Broadcast(event(domain.EventMessageReceived, domain.MessageData{
		ConversationID: conversationID,
		MessageID:      messageID,
		Body:           body,
		FromContact:    true,
		SentAt:         now,
	}), domain.RoomGlobal, domain.ContactRoom(contactID))
	return messageID, nil
}

// MarkMessageRead clears the unread counter of the message's conversation.
func (s *State) MarkMessageRead(messageID string) {
	s.mu.Lock()
	conversationID, ok := s.messages[messageID]
	if !ok {
		s.mu.Unlock()
		return
	}
	c, ok := s.conversations[conversationID]
	if !ok {
		s.mu.Unlock()
		return
	}
	zero := 0
	c.UnreadCount = zero
	contactID := c.ContactID
	s.mu.Unlock()

	s.hub.Broadcast(event(domain.EventConversationUpdated, domain.ConversationPatch{
		ID:          conversationID,
		UnreadCount: &zero,
	}), domain.RoomGlobal, domain.ContactRoom(contactID))
}

// --- sessions ---

func (s *State) Sessions(opts ports.ListOptions) ([]domain.Session, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := sortedValues(s.sessions)
	return paginate(all, opts), int64(len(all))
}

func (s *State) CreateSession(params ports.CreateSessionParams) (*domain.Session, error) {
	if params.Name == "" {
		return nil, errInvalid
	}

	s.mu.Lock()
	session := &domain.Session{
		ID:        uuid.NewString(),
		Name:      params.Name,
		Phone:     params.Phone,
		Status:    domain.SessionDisconnected,
		CreatedAt: time.Now().UTC(),
	}
	s.sessions[session.ID] = session
	out := *session
	s.mu.Unlock()

	return &out, nil
}

func (s *State) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return errNotFound
	}
	delete(s.sessions, id)
	return nil
}

// TransitionSession moves a session through its lifecycle and pushes the
// resulting status. Starting a session also pushes a QR code, the way the
// real connector does while waiting for the device to pair.
func (s *State) TransitionSession(id string, action string) (*domain.Session, error) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, errNotFound
	}

	var status domain.SessionStatus
	switch action {
	case "start":
		if !session.CanStart() {
			s.mu.Unlock()
			return nil, domain.ErrInvalidSessionAction
		}
		status = domain.SessionQRPending
		session.QRCode = "mock-qr-" + uuid.NewString()
	case "stop":
		if !session.CanStop() {
			s.mu.Unlock()
			return nil, domain.ErrInvalidSessionAction
		}
		status = domain.SessionDisconnected
	case "restart":
		status = domain.SessionQRPending
		session.QRCode = "mock-qr-" + uuid.NewString()
	default:
		s.mu.Unlock()
		return nil, errInvalid
	}

	session.Status = status
	out := *session
	s.mu.Unlock()

	s.hub.Broadcast(event(domain.EventSessionUpdated, domain.SessionPatch{
		ID:     id,
		Status: &status,
	}), domain.RoomGlobal, domain.SessionRoom(id))

	if status == domain.SessionQRPending {
		s.hub.Broadcast(event(domain.EventSessionQR, domain.SessionQRData{
			SessionID: id,
			QRCode:    out.QRCode,
		}), domain.RoomGlobal, domain.SessionRoom(id))
	}
	return &out, nil
}

// --- tickets ---

func (s *State) Tickets(opts ports.ListOptions) ([]domain.Ticket, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := sortedValues(s.tickets)
	filtered := all[:0:0]
	for _, t := range all {
		if status := opts.Filters["status"]; status != "" && string(t.Status) != status {
			continue
		}
		if agentID := opts.Filters["assigned_agent_id"]; agentID != "" && t.AssignedAgentID != agentID {
			continue
		}
		filtered = append(filtered, t)
	}
	return paginate(filtered, opts), int64(len(filtered))
}

func (s *State) CreateTicket(params ports.CreateTicketParams) (*domain.Ticket, error) {
	if params.Subject == "" {
		return nil, errInvalid
	}

	s.mu.Lock()
	if _, ok := s.conversations[params.ConversationID]; !ok {
		s.mu.Unlock()
		return nil, errNotFound
	}
	ticket := &domain.Ticket{
		ID:             uuid.NewString(),
		ConversationID: params.ConversationID,
		Subject:        params.Subject,
		Status:         domain.TicketOpen,
		Priority:       params.Priority,
		CreatedAt:      time.Now().UTC(),
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.PriorityMedium
	}
	s.tickets[ticket.ID] = ticket
	out := *ticket
	s.mu.Unlock()

	s.hub.Broadcast(event(domain.EventTicketCreated, out), domain.RoomGlobal)
	return &out, nil
}

func (s *State) UpdateTicket(id string, params ports.UpdateTicketParams) (*domain.Ticket, error) {
	s.mu.Lock()
	ticket, ok := s.tickets[id]
	if !ok {
		s.mu.Unlock()
		return nil, errNotFound
	}
	now := time.Now().UTC()
	patch := domain.TicketPatch{ID: id, Subject: params.Subject, Priority: params.Priority, UpdatedAt: &now}
	patch.Apply(ticket)
	out := *ticket
	s.mu.Unlock()

	s.hub.Broadcast(event(domain.EventTicketUpdated, patch), domain.RoomGlobal, domain.TicketRoom(id))
	return &out, nil
}

func (s *State) DeleteTicket(id string) error {
	s.mu.Lock()
	if _, ok := s.tickets[id]; !ok {
		s.mu.Unlock()
		return errNotFound
	}
	delete(s.tickets, id)
	s.mu.Unlock()

	s.hub.Broadcast(event(domain.EventTicketDeleted, map[string]string{"id": id}), domain.RoomGlobal, domain.TicketRoom(id))
	return nil
}

func (s *State) AssignTicket(id, agentID string) error {
	s.mu.Lock()
	ticket, ok := s.tickets[id]
	if !ok {
		s.mu.Unlock()
		return errNotFound
	}
	if _, ok := s.agents[agentID]; agentID != "" && !ok {
		s.mu.Unlock()
		return errNotFound
	}
	now := time.Now().UTC()
	ticket.AssignedAgentID = agentID
	ticket.UpdatedAt = &now
	s.mu.Unlock()

	s.hub.Broadcast(event(domain.EventTicketUpdated, domain.TicketPatch{
		ID:              id,
		AssignedAgentID: &agentID,
		UpdatedAt:       &now,
	}), domain.RoomGlobal, domain.TicketRoom(id))
	return nil
}

func (s *State) SetTicketStatus(id string, status domain.TicketStatus) (*domain.Ticket, error) {
	s.mu.Lock()
	ticket, ok := s.tickets[id]
	if !ok {
		s.mu.Unlock()
		return nil, errNotFound
	}
	if !ticket.CanTransition(status) {
		s.mu.Unlock()
		return nil, domain.ErrInvalidStatusTransition
	}
	now := time.Now().UTC()
	ticket.Status = status
	ticket.UpdatedAt = &now
	out := *ticket
	s.mu.Unlock()

	s.hub.Broadcast(event(domain.EventTicketUpdated, domain.TicketPatch{
		ID:        id,
		Status:    &status,
		UpdatedAt: &now,
	}), domain.RoomGlobal, domain.TicketRoom(id))
	return &out, nil
}

// --- labels ---

func (s *State) Labels(opts ports.ListOptions) ([]domain.Label, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := sortedValues(s.labels)
	return paginate(all, opts), int64(len(all))
}

func (s *State) CreateLabel(params ports.LabelParams) (*domain.Label, error) {
	if params.Name == "" {
		return nil, errInvalid
	}

	s.mu.Lock()
	label := &domain.Label{
		ID:          uuid.NewString(),
		Name:        params.Name,
		Color:       params.Color,
		Description: params.Description,
	}
	s.labels[label.ID] = label
	out := *label
	s.mu.Unlock()

	s.hub.Broadcast(event(domain.EventLabelCreated, out), domain.RoomGlobal)
	return &out, nil
}

func (s *State) UpdateLabel(id string, params ports.LabelParams) (*domain.Label, error) {
	s.mu.Lock()
	label, ok := s.labels[id]
	if !ok {
		s.mu.Unlock()
		return nil, errNotFound
	}
	patch := domain.LabelPatch{ID: id}
	if params.Name != "" {
		patch.Name = &params.Name
	}
	if params.Color != "" {
		patch.Color = &params.Color
	}
	if params.Description != "" {
		patch.Description = &params.Description
	}
	patch.Apply(label)
	out := *label
	s.mu.Unlock()

	s.hub.Broadcast(event(domain.EventLabelUpdated, patch), domain.RoomGlobal)
	return &out, nil
}

func (s *State) DeleteLabel(id string) error {
	s.mu.Lock()
	if _, ok := s.labels[id]; !ok {
		s.mu.Unlock()
		return errNotFound
	}
	delete(s.labels, id)
	for _, c := range s.conversations {
		labels := c.LabelIDs[:0:0]
		for _, lid := range c.LabelIDs {
			if lid != id {
				labels = append(labels, lid)
			}
		}
		c.LabelIDs = labels
	}
	s.mu.Unlock()

	s.hub.Broadcast(event(domain.EventLabelDeleted, map[string]string{"id": id}), domain.RoomGlobal)
	return nil
}

// --- agents ---

func (s *State) Agents(opts ports.ListOptions) ([]domain.Agent, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := sortedValues(s.agents)
	return paginate(all, opts), int64(len(all))
}

// SetAgentPresence records presence and broadcasts it to everyone.
func (s *State) SetAgentPresence(agentID string, online bool) {
	s.mu.Lock()
	agent, ok := s.agents[agentID]
	if !ok {
		s.mu.Unlock()
		return
	}
	agent.Online = online
	if !online {
		now := time.Now().UTC()
		agent.LastSeenAt = &now
	}
	s.mu.Unlock()

	eventType := domain.EventAgentOnline
	if !online {
		eventType = domain.EventAgentOffline
	}
	s.hub.Broadcast(event(eventType, domain.AgentPresenceData{AgentID: agentID}), domain.RoomGlobal)
}

// --- groups ---

func (s *State) Groups(opts ports.ListOptions) ([]domain.AgentGroup, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := sortedValues(s.groups)
	return paginate(all, opts), int64(len(all))
}

func (s *State) CreateGroup(params ports.GroupParams) (*domain.AgentGroup, error) {
	if params.Name == "" {
		return nil, errInvalid
	}

	s.mu.Lock()
	group := &domain.AgentGroup{
		ID:          uuid.NewString(),
		Name:        params.Name,
		Color:       params.Color,
		Description: params.Description,
	}
	s.groups[group.ID] = group
	out := *group
	s.mu.Unlock()

	s.hub.Broadcast(event(domain.EventGroupCreated, out), domain.RoomGlobal, domain.RoomAllGroups)
	return &out, nil
}

func (s *State) UpdateGroup(id string, params ports.GroupParams) (*domain.AgentGroup, error) {
	s.mu.Lock()
	group, ok := s.groups[id]
	if !ok {
		s.mu.Unlock()
		return nil, errNotFound
	}
	patch := domain.GroupPatch{ID: id}
	if params.Name != "" {
		patch.Name = &params.Name
	}
	if params.Color != "" {
		patch.Color = &params.Color
	}
	if params.Description != "" {
		patch.Description = &params.Description
	}
	patch.Apply(group)
	out := *group
	s.mu.Unlock()

	s.hub.Broadcast(event(domain.EventGroupUpdated, patch),
		domain.RoomGlobal, domain.RoomAllGroups, domain.GroupRoom(id))
	return &out, nil
}

func (s *State) DeleteGroup(id string) error {
	s.mu.Lock()
	if _, ok := s.groups[id]; !ok {
		s.mu.Unlock()
		return errNotFound
	}
	delete(s.groups, id)
	s.mu.Unlock()

	s.hub.Broadcast(event(domain.EventGroupDeleted, map[string]string{"id": id}),
		domain.RoomGlobal, domain.RoomAllGroups, domain.GroupRoom(id))
	return nil
}

func (s *State) SetGroupMember(groupID, agentID string, member bool) error {
	s.mu.Lock()
	group, ok := s.groups[groupID]
	if !ok {
		s.mu.Unlock()
		return errNotFound
	}
	if _, ok := s.agents[agentID]; !ok {
		s.mu.Unlock()
		return errNotFound
	}
	if member {
		group.AddMember(agentID)
	} else {
		group.RemoveMember(agentID)
	}
	s.mu.Unlock()

	eventType := domain.EventGroupMemberAdded
	if !member {
		eventType = domain.EventGroupMemberRemoved
	}
	s.hub.Broadcast(event(eventType, domain.GroupMemberData{GroupID: groupID, AgentID: agentID}),
		domain.RoomGlobal, domain.RoomAllGroups, domain.GroupRoom(groupID))
	return nil
}
