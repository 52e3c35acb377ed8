package domain

import "encoding/json"

// EventType identifies a real-time event. The set is closed: the transport
// and the stores share these constants, so an event name typo is a compile
// error rather than a silently dead listener.
type EventType string

const (
	// Local connection lifecycle events, emitted by the transport itself.
	EventConnectionEstablished EventType = "connection_established"
	EventConnectionError       EventType = "connection_error"
	EventConnectionLost        EventType = "connection_lost"

	// Server-pushed events.
	EventConversationUpdated EventType = "conversation_updated"
	EventMessageReceived     EventType = "message_received"
	EventSessionUpdated      EventType = "session_updated"
	EventSessionQR           EventType = "session_qr"
	EventTicketCreated       EventType = "ticket_created"
	EventTicketUpdated       EventType = "ticket_updated"
	EventTicketDeleted       EventType = "ticket_deleted"
	EventLabelCreated        EventType = "label_created"
	EventLabelUpdated        EventType = "label_updated"
	EventLabelDeleted        EventType = "label_deleted"
	EventGroupCreated        EventType = "group_created"
	EventGroupUpdated        EventType = "group_updated"
	EventGroupDeleted        EventType = "group_deleted"
	EventGroupMemberAdded    EventType = "group_member_added"
	EventGroupMemberRemoved  EventType = "group_member_removed"
	EventAgentOnline         EventType = "agent_online"
	EventAgentOffline        EventType = "agent_offline"
)

// Event is a decoded inbound frame. Data is left raw; each listener decodes
// the payload shape it knows about.
type Event struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ConnectionStatusData is the payload of the local connection lifecycle
// events.
type ConnectionStatusData struct {
	Reason string `json:"reason,omitempty"`
}
