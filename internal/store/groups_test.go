package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/mocks"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

func newGroupsStore(t *testing.T) (*Groups, *mocks.MockGroupAPI, *mocks.FakeTransport) {
	t.Helper()
	api := mocks.NewMockGroupAPI()
	transport := mocks.NewFakeTransport()
	transport.SetConnected(true)
	s := NewGroups(api, transport, testLogger())
	t.Cleanup(s.Close)
	return s, api, transport
}

func fetchGroups(t *testing.T, s *Groups, api *mocks.MockGroupAPI, groups ...domain.AgentGroup) {
	t.Helper()
	api.On("List", mock.Anything, mock.Anything).
		Return(ports.Page[domain.AgentGroup]{Items: groups, Total: int64(len(groups))}, nil)
	require.NoError(t, s.Fetch(context.Background()))
}

func TestGroups_MetadataAndMemberPatchesCommute(t *testing.T) {
	metadata := func(transport *mocks.FakeTransport) {
		name := "Support EMEA"
		transport.EmitJSON(domain.EventGroupUpdated, domain.GroupPatch{ID: "g1", Name: &name})
	}
	member := func(transport *mocks.FakeTransport) {
		transport.EmitJSON(domain.EventGroupMemberAdded, domain.GroupMemberData{
			GroupID: "g1",
			AgentID: "a2",
		})
	}

	// The two pushes touch disjoint fields, so applying them in either
	// order must converge on the same group.
	run := func(t *testing.T, first, second func(*mocks.FakeTransport)) domain.AgentGroup {
		s, api, transport := newGroupsStore(t)
		fetchGroups(t, s, api, domain.AgentGroup{ID: "g1", Name: "Support", Members: []string{"a1"}})
		first(transport)
		second(transport)
		group, ok := s.Get("g1")
		require.True(t, ok)
		return group
	}

	a := run(t, metadata, member)
	b := run(t, member, metadata)
	assert.Equal(t, a, b)
	assert.Equal(t, "Support EMEA", a.Name)
	assert.ElementsMatch(t, []string{"a1", "a2"}, a.Members)
}

func TestGroups_MemberPushBeforeFetch(t *testing.T) {
	s, _, transport := newGroupsStore(t)

	transport.EmitJSON(domain.EventGroupMemberAdded, domain.GroupMemberData{
		GroupID: "g9",
		AgentID: "a1",
	})

	group, ok := s.Get("g9")
	require.True(t, ok)
	assert.Equal(t, []string{"a1"}, group.Members)
}

func TestGroups_MemberRemovedPush(t *testing.T) {
	s, api, transport := newGroupsStore(t)
	fetchGroups(t, s, api, domain.AgentGroup{ID: "g1", Members: []string{"a1", "a2"}})

	transport.EmitJSON(domain.EventGroupMemberRemoved, domain.GroupMemberData{
		GroupID: "g1",
		AgentID: "a1",
	})

	group, _ := s.Get("g1")
	assert.Equal(t, []string{"a2"}, group.Members)
}

func TestGroups_MemberEditorSavesDelta(t *testing.T) {
	s, api, _ := newGroupsStore(t)
	fetchGroups(t, s, api, domain.AgentGroup{ID: "g1", Members: []string{"a1", "a2"}})

	editor := s.EditMembers("g1")
	editor.Toggle("a2") // remove
	editor.Toggle("a3") // add

	api.On("AddMember", mock.Anything, "g1", "a3").Return(nil).Once()
	api.On("RemoveMember", mock.Anything, "g1", "a2").Return(nil).Once()

	require.NoError(t, editor.Save(context.Background()))
	api.AssertExpectations(t)
}

func TestGroups_CreatedAndDeletedPushes(t *testing.T) {
	s, _, transport := newGroupsStore(t)

	transport.EmitJSON(domain.EventGroupCreated, domain.AgentGroup{ID: "g1", Name: "Billing"})
	require.Equal(t, 1, s.Len())

	transport.EmitJSON(domain.EventGroupDeleted, map[string]string{"id": "g1"})
	assert.Zero(t, s.Len())
}
