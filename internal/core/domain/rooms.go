package domain

// Rooms scope real-time pushes: the backend only forwards events for rooms
// a client has joined. Names follow a fixed <prefix>_<id> convention; the
// prefix set is closed.
const (
	RoomGlobal    = "global"
	RoomAllGroups = "all_groups"
)

// ContactRoom names the per-contact conversation room.
func ContactRoom(contactID string) string { return "contact_" + contactID }

// SessionRoom names the per-session room (status and QR pushes).
func SessionRoom(sessionID string) string { return "session_" + sessionID }

// TicketRoom names the per-ticket room.
func TicketRoom(ticketID string) string { return "ticket_" + ticketID }

// AdminRoom names the per-admin room (direct notifications).
func AdminRoom(adminID string) string { return "admin_" + adminID }

// GroupRoom names the per-group room (membership changes).
func GroupRoom(groupID string) string { return "group_" + groupID }
