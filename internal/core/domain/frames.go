package domain

// Outbound control frame types. The backend dispatches on the "type" field.
const (
	FrameJoinRoom    = "join_room"
	FrameLeaveRoom   = "leave_room"
	FrameTypingStart = "typing_start"
	FrameTypingStop  = "typing_stop"
	FrameUserOnline  = "user_online"
	FrameUserOffline = "user_offline"
	FrameMessageRead = "message_read"
)

// RoomFrame is the join_room / leave_room control frame.
type RoomFrame struct {
	Type string `json:"type"`
	Room string `json:"room"`
}

// JoinRoom builds a join_room frame.
func JoinRoom(room string) RoomFrame {
	return RoomFrame{Type: FrameJoinRoom, Room: room}
}

// LeaveRoom builds a leave_room frame.
func LeaveRoom(room string) RoomFrame {
	return RoomFrame{Type: FrameLeaveRoom, Room: room}
}

// TypingFrame signals typing activity in a contact's conversation.
type TypingFrame struct {
	Type      string `json:"type"`
	ContactID string `json:"contact_id"`
}

// TypingStart builds a typing_start frame.
func TypingStart(contactID string) TypingFrame {
	return TypingFrame{Type: FrameTypingStart, ContactID: contactID}
}

// TypingStop builds a typing_stop frame.
func TypingStop(contactID string) TypingFrame {
	return TypingFrame{Type: FrameTypingStop, ContactID: contactID}
}

// PresenceFrame is the user_online / user_offline control frame.
type PresenceFrame struct {
	Type string `json:"type"`
}

// UserOnline builds a user_online frame.
func UserOnline() PresenceFrame { return PresenceFrame{Type: FrameUserOnline} }

// UserOffline builds a user_offline frame.
func UserOffline() PresenceFrame { return PresenceFrame{Type: FrameUserOffline} }

// MessageReadFrame acknowledges that a message was read by the agent.
type MessageReadFrame struct {
	Type      string `json:"type"`
	MessageID string `json:"message_id"`
}

// MessageRead builds a message_read frame.
func MessageRead(messageID string) MessageReadFrame {
	return MessageReadFrame{Type: FrameMessageRead, MessageID: messageID}
}
