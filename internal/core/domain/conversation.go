package domain

import "time"

// ConversationStatus represents the workflow state of a conversation.
type ConversationStatus string

const (
	ConversationOpen     ConversationStatus = "open"
	ConversationPending  ConversationStatus = "pending"
	ConversationResolved ConversationStatus = "resolved"
)

// Conversation is a contact's chat thread as the admin UI sees it.
type Conversation struct {
	ID              string             `json:"id"`
	ContactID       string             `json:"contact_id"`
	ContactName     string             `json:"contact_name"`
	Phone           string             `json:"phone"`
	SessionID       string             `json:"session_id"`
	Status          ConversationStatus `json:"status"`
	AssignedAgentID string             `json:"assigned_agent_id,omitempty"`
	LabelIDs        []string           `json:"label_ids,omitempty"`
	LastMessage     string             `json:"last_message,omitempty"`
	LastMessageAt   *time.Time         `json:"last_message_at,omitempty"`
	UnreadCount     int                `json:"unread_count"`
	Blocked         bool               `json:"blocked"`
}

// EntityID implements the store entity contract.
func (c Conversation) EntityID() string { return c.ID }

// HasLabel reports whether the conversation carries the given label.
func (c Conversation) HasLabel(labelID string) bool {
	for _, id := range c.LabelIDs {
		if id == labelID {
			return true
		}
	}
	return false
}

// ConversationPatch carries the fields a conversation_updated push may
// change.
type ConversationPatch struct {
	ID              string              `json:"id"`
	ContactName     *string             `json:"contact_name,omitempty"`
	Status          *ConversationStatus `json:"status,omitempty"`
	AssignedAgentID *string             `json:"assigned_agent_id,omitempty"`
	LabelIDs        *[]string           `json:"label_ids,omitempty"`
	LastMessage     *string             `json:"last_message,omitempty"`
	LastMessageAt   *time.Time          `json:"last_message_at,omitempty"`
	UnreadCount     *int                `json:"unread_count,omitempty"`
	Blocked         *bool               `json:"blocked,omitempty"`
}

// Apply merges the patch into the conversation.
func (p ConversationPatch) Apply(c *Conversation) {
	if p.ContactName != nil {
		c.ContactName = *p.ContactName
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.AssignedAgentID != nil {
		c.AssignedAgentID = *p.AssignedAgentID
	}
	if p.LabelIDs != nil {
		c.LabelIDs = *p.LabelIDs
	}
	if p.LastMessage != nil {
		c.LastMessage = *p.LastMessage
	}
	if p.LastMessageAt != nil {
		c.LastMessageAt = p.LastMessageAt
	}
	if p.UnreadCount != nil {
		c.UnreadCount = *p.UnreadCount
	}
	if p.Blocked != nil {
		c.Blocked = *p.Blocked
	}
}

// MessageData is the payload of a message_received push. The conversation
// store folds it into the thread's preview fields.
type MessageData struct {
	ConversationID string    `json:"conversation_id"`
	MessageID      string    `json:"message_id"`
	Body           string    `json:"body"`
	FromContact    bool      `json:"from_contact"`
	SentAt         time.Time `json:"sent_at"`
}
