package store

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// Groups is the domain store for agent groups. Membership edits go through
// a pending-set editor like labels do; group metadata edits are plain
// non-optimistic CRUD.
type Groups struct {
	*Store[domain.AgentGroup]

	api       ports.GroupAPI
	transport ports.Transport

	subs []eventSub
}

// NewGroups creates the store and hooks it to group events.
func NewGroups(api ports.GroupAPI, transport ports.Transport, logger *slog.Logger) *Groups {
	s := &Groups{
		Store:     newStore[domain.AgentGroup]("groups", logger),
		api:       api,
		transport: transport,
	}
	s.subs = []eventSub{
		{domain.EventGroupCreated, transport.On(domain.EventGroupCreated, s.handleCreated)},
		{domain.EventGroupUpdated, transport.On(domain.EventGroupUpdated, s.handleUpdated)},
		{domain.EventGroupDeleted, transport.On(domain.EventGroupDeleted, s.handleDeleted)},
		{domain.EventGroupMemberAdded, transport.On(domain.EventGroupMemberAdded, s.memberHandler(true))},
		{domain.EventGroupMemberRemoved, transport.On(domain.EventGroupMemberRemoved, s.memberHandler(false))},
	}
	return s
}

// Close unhooks the store from the transport.
func (s *Groups) Close() {
	for _, es := range s.subs {
		s.transport.Off(es.event, es.sub)
	}
}

// Fetch loads the group list.
func (s *Groups) Fetch(ctx context.Context) error {
	gen := s.beginFetch()
	page, err := s.api.List(ctx, s.listOptions())
	return s.completeFetch(gen, page.Items, page.Total, err)
}

// Create adds a group. Non-optimistic.
func (s *Groups) Create(ctx context.Context, params ports.GroupParams) (*domain.AgentGroup, error) {
	group, err := s.api.Create(ctx, params)
	if err != nil {
		s.setError(err)
		return nil, err
	}
	s.Upsert(*group)
	return group, nil
}

// Update edits group metadata. Non-optimistic.
func (s *Groups) Update(ctx context.Context, id string, params ports.GroupParams) error {
	group, err := s.api.Update(ctx, id, params)
	if err != nil {
		s.setError(err)
		return err
	}
	s.Upsert(*group)
	return nil
}

// Delete removes a group. Non-optimistic.
func (s *Groups) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, id); err != nil {
		s.setError(err)
		return err
	}
	s.Remove(id)
	return nil
}

// EditMembers opens a pending-set editor over the group's membership.
// Saving issues only the add/remove delta; snapshot reconciliation comes
// from the member pushes or the next fetch.
func (s *Groups) EditMembers(id string) *MemberEditor {
	var canonical []string
	if group, ok := s.Get(id); ok {
		canonical = group.Members
	}
	return &MemberEditor{
		PendingSet: NewPendingSet(canonical),
		groupID:    id,
		store:      s,
	}
}

// MemberEditor is the dialog-scoped membership editor for one group.
type MemberEditor struct {
	*PendingSet
	groupID string
	store   *Groups
}

// Save applies the minimal membership delta via REST. On failure the
// pending set is kept for retry.
func (e *MemberEditor) Save(ctx context.Context) error {
	err := e.PendingSet.Save(ctx,
		func(ctx context.Context, agentID string) error {
			return e.store.api.AddMember(ctx, e.groupID, agentID)
		},
		func(ctx context.Context, agentID string) error {
			return e.store.api.RemoveMember(ctx, e.groupID, agentID)
		},
	)
	if err != nil {
		e.store.setError(err)
	}
	return err
}

func (s *Groups) handleCreated(data json.RawMessage) {
	var group domain.AgentGroup
	if err := json.Unmarshal(data, &group); err != nil || group.ID == "" {
		s.logger.Warn("dropping group_created payload", "error", err)
		return
	}
	s.Upsert(group)
}

func (s *Groups) handleUpdated(data json.RawMessage) {
	var patch domain.GroupPatch
	if err := json.Unmarshal(data, &patch); err != nil || patch.ID == "" {
		s.logger.Warn("dropping group_updated payload", "error", err)
		return
	}
	s.ApplyPatch(patch.ID, func() domain.AgentGroup {
		return domain.AgentGroup{ID: patch.ID}
	}, patch.Apply)
}

func (s *Groups) handleDeleted(data json.RawMessage) {
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.ID == "" {
		s.logger.Warn("dropping group_deleted payload", "error", err)
		return
	}
	s.Remove(payload.ID)
}

// memberHandler applies membership pushes, touching only the membership
// fields so it commutes with metadata patches for the same group.
func (s *Groups) memberHandler(added bool) ports.Handler {
	return func(data json.RawMessage) {
		var member domain.GroupMemberData
		if err := json.Unmarshal(data, &member); err != nil || member.GroupID == "" {
			s.logger.Warn("dropping group member payload", "error", err)
			return
		}
		s.ApplyPatch(member.GroupID, func() domain.AgentGroup {
			return domain.AgentGroup{ID: member.GroupID}
		}, func(g *domain.AgentGroup) {
			if added {
				g.AddMember(member.AgentID)
				return
			}
			g.RemoveMember(member.AgentID)
		})
	}
}
