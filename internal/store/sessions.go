package store

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// Sessions is the domain store for WhatsApp sessions. Lifecycle actions are
// deliberately non-optimistic: showing "connected" before the backend has
// actually talked to the device misleads the operator.
type Sessions struct {
	*Store[domain.Session]

	api       ports.SessionAPI
	transport ports.Transport
	coord     *Coordinator

	subs []eventSub
}

// NewSessions creates the store and hooks it to session events.
func NewSessions(api ports.SessionAPI, transport ports.Transport, logger *slog.Logger) *Sessions {
	s := &Sessions{
		Store:     newStore[domain.Session]("sessions", logger),
		api:       api,
		transport: transport,
		coord:     NewCoordinator(logger),
	}
	s.subs = []eventSub{
		{domain.EventSessionUpdated, transport.On(domain.EventSessionUpdated, s.handleUpdated)},
		{domain.EventSessionQR, transport.On(domain.EventSessionQR, s.handleQR)},
	}
	return s
}

// Close unhooks the store from the transport.
func (s *Sessions) Close() {
	for _, es := range s.subs {
		s.transport.Off(es.event, es.sub)
	}
}

// Fetch loads the session list.
func (s *Sessions) Fetch(ctx context.Context) error {
	gen := s.beginFetch()
	page, err := s.api.List(ctx, s.listOptions())
	return s.completeFetch(gen, page.Items, page.Total, err)
}

// Create registers a new session. Non-optimistic: the snapshot gains the
// session only after the backend returns it.
func (s *Sessions) Create(ctx context.Context, params ports.CreateSessionParams) (*domain.Session, error) {
	session, err := s.api.Create(ctx, params)
	if err != nil {
		s.setError(err)
		return nil, err
	}
	s.Upsert(*session)
	return session, nil
}

// Delete removes a session. Non-optimistic.
func (s *Sessions) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, id); err != nil {
		s.setError(err)
		return err
	}
	s.Remove(id)
	return nil
}

// Start asks the backend to start the session.
func (s *Sessions) Start(ctx context.Context, id string) error {
	return s.lifecycle(ctx, id, domain.SessionStarting, s.api.Start)
}

// Stop asks the backend to stop the session.
func (s *Sessions) Stop(ctx context.Context, id string) error {
	return s.lifecycle(ctx, id, domain.SessionDisconnected, s.api.Stop)
}

// Restart asks the backend to restart the session.
func (s *Sessions) Restart(ctx context.Context, id string) error {
	return s.lifecycle(ctx, id, domain.SessionStarting, s.api.Restart)
}

// lifecycle runs a session action REST-first. When the backend echoes the
// updated session it replaces the snapshot entry; otherwise only the status
// field is patched to the action's expected outcome.
func (s *Sessions) lifecycle(ctx context.Context, id string, fallback domain.SessionStatus, call func(context.Context, string) (*domain.Session, error)) error {
	var echo *domain.Session
	err := s.coord.Run(ctx, Mutation{
		EntityID:   id,
		Kind:       KindStatus,
		Optimistic: false,
		Call: func(ctx context.Context) error {
			var err error
			echo, err = call(ctx, id)
			return err
		},
		Commit: func() {
			if echo != nil {
				s.Upsert(*echo)
				return
			}
			s.ApplyPatch(id, func() domain.Session {
				return domain.Session{ID: id}
			}, func(sess *domain.Session) {
				sess.Status = fallback
			})
		},
	})
	if err != nil {
		s.setError(err)
	}
	return err
}

func (s *Sessions) handleUpdated(data json.RawMessage) {
	var patch domain.SessionPatch
	if err := json.Unmarshal(data, &patch); err != nil || patch.ID == "" {
		s.logger.Warn("dropping session_updated payload", "error", err)
		return
	}
	s.ApplyPatch(patch.ID, func() domain.Session {
		return domain.Session{ID: patch.ID}
	}, patch.Apply)
}

// handleQR applies a QR push. Joining session_<id> keeps the pairing QR
// current without polling.
func (s *Sessions) handleQR(data json.RawMessage) {
	var qr domain.SessionQRData
	if err := json.Unmarshal(data, &qr); err != nil || qr.SessionID == "" {
		s.logger.Warn("dropping session_qr payload", "error", err)
		return
	}
	s.ApplyPatch(qr.SessionID, func() domain.Session {
		return domain.Session{ID: qr.SessionID}
	}, func(sess *domain.Session) {
		sess.QRCode = qr.QRCode
		sess.Status = domain.SessionQRPending
	})
}
