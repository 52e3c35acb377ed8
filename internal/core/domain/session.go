package domain

import (
	"errors"
	"time"
)

// ErrInvalidSessionAction is returned when a lifecycle action does not make
// sense for the session's current status.
var ErrInvalidSessionAction = errors.New("invalid session action for current status")

// SessionStatus represents the lifecycle state of a WhatsApp session.
type SessionStatus string

const (
	SessionStarting     SessionStatus = "starting"
	SessionQRPending    SessionStatus = "qr_pending"
	SessionConnected    SessionStatus = "connected"
	SessionDisconnected SessionStatus = "disconnected"
	SessionFailed       SessionStatus = "failed"
)

// Session is a WhatsApp device session managed by the backend.
type Session struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Phone      string        `json:"phone"`
	Status     SessionStatus `json:"status"`
	QRCode     string        `json:"qr_code,omitempty"`
	LastSeenAt *time.Time    `json:"last_seen_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// EntityID implements the store entity contract.
func (s Session) EntityID() string { return s.ID }

// CanStart reports whether a start action is meaningful right now.
func (s Session) CanStart() bool {
	return s.Status == SessionDisconnected || s.Status == SessionFailed
}

// CanStop reports whether a stop action is meaningful right now.
func (s Session) CanStop() bool {
	return s.Status == SessionConnected || s.Status == SessionQRPending || s.Status == SessionStarting
}

// SessionPatch carries the fields a session_updated push may change. Nil
// fields are left untouched when applied.
type SessionPatch struct {
	ID         string         `json:"id"`
	Name       *string        `json:"name,omitempty"`
	Phone      *string        `json:"phone,omitempty"`
	Status     *SessionStatus `json:"status,omitempty"`
	QRCode     *string        `json:"qr_code,omitempty"`
	LastSeenAt *time.Time     `json:"last_seen_at,omitempty"`
}

// Apply merges the patch into the session.
func (p SessionPatch) Apply(s *Session) {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Phone != nil {
		s.Phone = *p.Phone
	}
	if p.Status != nil {
		s.Status = *p.Status
		// A session leaving the QR stage no longer has a QR code to show.
		if *p.Status != SessionQRPending && p.QRCode == nil {
			s.QRCode = ""
		}
	}
	if p.QRCode != nil {
		s.QRCode = *p.QRCode
	}
	if p.LastSeenAt != nil {
		s.LastSeenAt = p.LastSeenAt
	}
}

// SessionQRData is the payload of a session_qr push.
type SessionQRData struct {
	SessionID string `json:"session_id"`
	QRCode    string `json:"qr_code"`
}
