package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	apperrors "github.com/lorrc/chatdesk-client/internal/core/errors"
	"github.com/lorrc/chatdesk-client/internal/core/mocks"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

func newConversationsStore(t *testing.T) (*Conversations, *mocks.MockConversationAPI, *mocks.FakeTransport) {
	t.Helper()
	api := mocks.NewMockConversationAPI()
	transport := mocks.NewFakeTransport()
	transport.SetConnected(true)
	s := NewConversations(api, transport, testLogger())
	t.Cleanup(s.Close)
	return s, api, transport
}

func conversationPage(convs ...domain.Conversation) ports.Page[domain.Conversation] {
	return ports.Page[domain.Conversation]{Items: convs, Total: int64(len(convs))}
}

func TestConversations_PushBeforeFetch(t *testing.T) {
	s, _, transport := newConversationsStore(t)

	// A patch can arrive before the first fetch; it lands on a minimal
	// entity instead of being dropped.
	name := "Carlos"
	transport.EmitJSON(domain.EventConversationUpdated, domain.ConversationPatch{
		ID:          "c1",
		ContactName: &name,
	})

	conv, ok := s.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "Carlos", conv.ContactName)
}

func TestConversations_FetchResolvingAfterPushWins(t *testing.T) {
	s, api, transport := newConversationsStore(t)

	api.On("List", mock.Anything, mock.Anything).
		Return(conversationPage(domain.Conversation{ID: "c1", ContactName: "A"}), nil).
		Run(func(mock.Arguments) {
			// The push lands while the fetch response is in flight.
			name := "B"
			transport.EmitJSON(domain.EventConversationUpdated, domain.ConversationPatch{
				ID:          "c1",
				ContactName: &name,
			})
		})

	require.NoError(t, s.Fetch(context.Background()))

	// Last network arrival wins: the fetch response resolved after the
	// push, so its older name overwrites the patched one until the next
	// push or refetch.
	conv, ok := s.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "A", conv.ContactName)
}

func TestConversations_MessageReceived(t *testing.T) {
	s, api, transport := newConversationsStore(t)

	api.On("List", mock.Anything, mock.Anything).
		Return(conversationPage(domain.Conversation{ID: "c1", UnreadCount: 1}), nil)
	require.NoError(t, s.Fetch(context.Background()))

	sentAt := time.Now().UTC()
	transport.EmitJSON(domain.EventMessageReceived, domain.MessageData{
		ConversationID: "c1",
		MessageID:      "m1",
		Body:           "hello?",
		FromContact:    true,
		SentAt:         sentAt,
	})

	conv, _ := s.Get("c1")
	assert.Equal(t, "hello?", conv.LastMessage)
	assert.Equal(t, 2, conv.UnreadCount)
	require.NotNil(t, conv.LastMessageAt)
	assert.True(t, conv.LastMessageAt.Equal(sentAt))

	// Outbound messages update the preview without touching unread.
	transport.EmitJSON(domain.EventMessageReceived, domain.MessageData{
		ConversationID: "c1",
		MessageID:      "m2",
		Body:           "we are on it",
		FromContact:    false,
		SentAt:         sentAt,
	})
	conv, _ = s.Get("c1")
	assert.Equal(t, "we are on it", conv.LastMessage)
	assert.Equal(t, 2, conv.UnreadCount)
}

func TestConversations_BlockIsRESTFirst(t *testing.T) {
	s, api, _ := newConversationsStore(t)
	api.On("List", mock.Anything, mock.Anything).
		Return(conversationPage(domain.Conversation{ID: "c1"}), nil)
	require.NoError(t, s.Fetch(context.Background()))

	t.Run("failure leaves snapshot untouched", func(t *testing.T) {
		api.On("Block", mock.Anything, "c1").Return(apperrors.NewAPIError(500, "boom")).Once()

		err := s.Block(context.Background(), "c1")
		require.Error(t, err)

		conv, _ := s.Get("c1")
		assert.False(t, conv.Blocked)
		assert.Equal(t, "boom", s.Error())
	})

	t.Run("success patches snapshot", func(t *testing.T) {
		api.On("Block", mock.Anything, "c1").Return(nil).Once()

		require.NoError(t, s.Block(context.Background(), "c1"))
		conv, _ := s.Get("c1")
		assert.True(t, conv.Blocked)
	})

	t.Run("unblock", func(t *testing.T) {
		api.On("Unblock", mock.Anything, "c1").Return(nil).Once()

		require.NoError(t, s.Unblock(context.Background(), "c1"))
		conv, _ := s.Get("c1")
		assert.False(t, conv.Blocked)
	})
}

func TestConversations_LabelEditor(t *testing.T) {
	s, api, _ := newConversationsStore(t)
	api.On("List", mock.Anything, mock.Anything).
		Return(conversationPage(domain.Conversation{ID: "c1", LabelIDs: []string{"l1", "l2"}}), nil)
	require.NoError(t, s.Fetch(context.Background()))

	editor := s.EditLabels("c1")
	editor.Toggle("l1") // remove
	editor.Toggle("l3") // add
	assert.True(t, editor.Dirty())

	api.On("AddLabel", mock.Anything, "c1", "l3").Return(nil).Once()
	api.On("RemoveLabel", mock.Anything, "c1", "l1").Return(nil).Once()

	require.NoError(t, editor.Save(context.Background()))
	api.AssertExpectations(t)

	// The canonical snapshot is reconciled by push or refetch, not by the
	// editor.
	conv, _ := s.Get("c1")
	assert.Equal(t, []string{"l1", "l2"}, conv.LabelIDs)
}

func TestConversations_LabelEditorKeepsPendingOnFailure(t *testing.T) {
	s, api, _ := newConversationsStore(t)
	api.On("List", mock.Anything, mock.Anything).
		Return(conversationPage(domain.Conversation{ID: "c1", LabelIDs: []string{"l1"}}), nil)
	require.NoError(t, s.Fetch(context.Background()))

	editor := s.EditLabels("c1")
	editor.Toggle("l2")

	api.On("AddLabel", mock.Anything, "c1", "l2").
		Return(apperrors.NewAPIError(500, "boom")).Once()

	require.Error(t, editor.Save(context.Background()))
	assert.Equal(t, []string{"l1", "l2"}, editor.Pending(), "user intent survives the failure")
	assert.True(t, editor.Dirty())
	assert.Equal(t, "boom", s.Error())
}

func TestConversations_Frames(t *testing.T) {
	s, _, transport := newConversationsStore(t)

	s.Typing("contact-1", true)
	s.Typing("contact-1", false)
	s.MarkMessageRead("m1")

	frames := transport.Sent()
	require.Len(t, frames, 3)
	assert.Equal(t, domain.TypingStart("contact-1"), frames[0])
	assert.Equal(t, domain.TypingStop("contact-1"), frames[1])
	assert.Equal(t, domain.MessageRead("m1"), frames[2])
}

func TestConversations_CloseUnhooks(t *testing.T) {
	api := mocks.NewMockConversationAPI()
	transport := mocks.NewFakeTransport()
	s := NewConversations(api, transport, testLogger())

	s.Close()

	name := "ghost"
	transport.EmitJSON(domain.EventConversationUpdated, domain.ConversationPatch{ID: "c1", ContactName: &name})
	_, ok := s.Get("c1")
	assert.False(t, ok)
}
