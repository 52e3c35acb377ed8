package store

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// Conversations is the domain store for contact conversations.
type Conversations struct {
	*Store[domain.Conversation]

	api       ports.ConversationAPI
	transport ports.Transport
	coord     *Coordinator

	subs []eventSub
}

type eventSub struct {
	event domain.EventType
	sub   ports.Subscription
}

// NewConversations creates the store and hooks it to the transport's
// conversation events.
func NewConversations(api ports.ConversationAPI, transport ports.Transport, logger *slog.Logger) *Conversations {
	s := &Conversations{
		Store:     newStore[domain.Conversation]("conversations", logger),
		api:       api,
		transport: transport,
		coord:     NewCoordinator(logger),
	}
	s.subs = []eventSub{
		{domain.EventConversationUpdated, transport.On(domain.EventConversationUpdated, s.handleUpdated)},
		{domain.EventMessageReceived, transport.On(domain.EventMessageReceived, s.handleMessage)},
	}
	return s
}

// Close unhooks the store from the transport.
func (s *Conversations) Close() {
	for _, es := range s.subs {
		s.transport.Off(es.event, es.sub)
	}
}

// Fetch loads the conversation list with the current filters. Safe to call
// repeatedly; a response superseded by a newer fetch is discarded.
func (s *Conversations) Fetch(ctx context.Context) error {
	gen := s.beginFetch()
	page, err := s.api.List(ctx, s.listOptions())
	return s.completeFetch(gen, page.Items, page.Total, err)
}

// SetFilters replaces the filter state and refetches.
func (s *Conversations) SetFilters(ctx context.Context, filters map[string]string, page, limit int) error {
	s.setFilters(filters, page, limit)
	return s.Fetch(ctx)
}

// ClearFilters resets the filter state and refetches.
func (s *Conversations) ClearFilters(ctx context.Context) error {
	s.clearFilters()
	return s.Fetch(ctx)
}

// Block marks the contact blocked. REST first; the snapshot is patched only
// after the backend confirms.
func (s *Conversations) Block(ctx context.Context, id string) error {
	return s.setBlocked(ctx, id, true)
}

// Unblock clears the contact's blocked flag, REST first.
func (s *Conversations) Unblock(ctx context.Context, id string) error {
	return s.setBlocked(ctx, id, false)
}

func (s *Conversations) setBlocked(ctx context.Context, id string, blocked bool) error {
	err := s.coord.Run(ctx, Mutation{
		EntityID:   id,
		Kind:       KindBlock,
		Optimistic: false,
		Call: func(ctx context.Context) error {
			if blocked {
				return s.api.Block(ctx, id)
			}
			return s.api.Unblock(ctx, id)
		},
		Commit: func() {
			s.ApplyPatch(id, func() domain.Conversation {
				return domain.Conversation{ID: id}
			}, func(c *domain.Conversation) {
				c.Blocked = blocked
			})
		},
	})
	if err != nil {
		s.setError(err)
	}
	return err
}

// EditLabels opens a pending-set editor over the conversation's current
// labels. Saving issues only the add/remove delta; the snapshot itself is
// reconciled by the conversation_updated push or the next fetch.
func (s *Conversations) EditLabels(id string) *LabelEditor {
	var canonical []string
	if conv, ok := s.Get(id); ok {
		canonical = conv.LabelIDs
	}
	return &LabelEditor{
		PendingSet:     NewPendingSet(canonical),
		conversationID: id,
		store:          s,
	}
}

// LabelEditor is the dialog-scoped label assignment editor for one
// conversation.
type LabelEditor struct {
	*PendingSet
	conversationID string
	store          *Conversations
}

// Save applies the minimal label delta via REST. On failure the pending set
// is kept for retry and the store surfaces the error.
func (e *LabelEditor) Save(ctx context.Context) error {
	err := e.PendingSet.Save(ctx,
		func(ctx context.Context, labelID string) error {
			return e.store.api.AddLabel(ctx, e.conversationID, labelID)
		},
		func(ctx context.Context, labelID string) error {
			return e.store.api.RemoveLabel(ctx, e.conversationID, labelID)
		},
	)
	if err != nil {
		e.store.setError(err)
	}
	return err
}

// Typing signals typing activity for a contact. Fire-and-forget.
func (s *Conversations) Typing(contactID string, active bool) {
	if active {
		s.transport.Send(domain.TypingStart(contactID))
		return
	}
	s.transport.Send(domain.TypingStop(contactID))
}

// MarkMessageRead acknowledges a message over the realtime channel.
func (s *Conversations) MarkMessageRead(messageID string) {
	s.transport.Send(domain.MessageRead(messageID))
}

func (s *Conversations) handleUpdated(data json.RawMessage) {
	var patch domain.ConversationPatch
	if err := json.Unmarshal(data, &patch); err != nil || patch.ID == "" {
		s.logger.Warn("dropping conversation_updated payload", "error", err)
		return
	}
	s.ApplyPatch(patch.ID, func() domain.Conversation {
		return domain.Conversation{ID: patch.ID}
	}, patch.Apply)
}

func (s *Conversations) handleMessage(data json.RawMessage) {
	var msg domain.MessageData
	if err := json.Unmarshal(data, &msg); err != nil || msg.ConversationID == "" {
		s.logger.Warn("dropping message_received payload", "error", err)
		return
	}
	s.ApplyPatch(msg.ConversationID, func() domain.Conversation {
		return domain.Conversation{ID: msg.ConversationID}
	}, func(c *domain.Conversation) {
		c.LastMessage = msg.Body
		sentAt := msg.SentAt
		c.LastMessageAt = &sentAt
		if msg.FromContact {
			c.UnreadCount++
		}
	})
}
