package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	apperrors "github.com/lorrc/chatdesk-client/internal/core/errors"
	"github.com/lorrc/chatdesk-client/internal/core/mocks"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

func newSessionsStore(t *testing.T) (*Sessions, *mocks.MockSessionAPI, *mocks.FakeTransport) {
	t.Helper()
	api := mocks.NewMockSessionAPI()
	transport := mocks.NewFakeTransport()
	transport.SetConnected(true)
	s := NewSessions(api, transport, testLogger())
	t.Cleanup(s.Close)
	return s, api, transport
}

func sessionPage(sessions ...domain.Session) ports.Page[domain.Session] {
	return ports.Page[domain.Session]{Items: sessions, Total: int64(len(sessions))}
}

func TestSessions_StartFailureLeavesSnapshot(t *testing.T) {
	s, api, _ := newSessionsStore(t)
	api.On("List", mock.Anything, mock.Anything).
		Return(sessionPage(domain.Session{ID: "s1", Status: domain.SessionDisconnected}), nil)
	require.NoError(t, s.Fetch(context.Background()))

	api.On("Start", mock.Anything, "s1").
		Return(nil, apperrors.NewAPIError(409, "already starting")).Once()

	require.Error(t, s.Start(context.Background(), "s1"))

	// No optimistic status flip: the session still reads disconnected.
	sess, _ := s.Get("s1")
	assert.Equal(t, domain.SessionDisconnected, sess.Status)
	assert.Equal(t, "already starting", s.Error())
}

func TestSessions_StartUsesBackendEcho(t *testing.T) {
	s, api, _ := newSessionsStore(t)
	api.On("List", mock.Anything, mock.Anything).
		Return(sessionPage(domain.Session{ID: "s1", Name: "main", Status: domain.SessionDisconnected}), nil)
	require.NoError(t, s.Fetch(context.Background()))

	api.On("Start", mock.Anything, "s1").
		Return(&domain.Session{ID: "s1", Name: "main", Status: domain.SessionQRPending}, nil).Once()

	require.NoError(t, s.Start(context.Background(), "s1"))
	sess, _ := s.Get("s1")
	assert.Equal(t, domain.SessionQRPending, sess.Status)
}

func TestSessions_StopFallsBackToExpectedStatus(t *testing.T) {
	s, api, _ := newSessionsStore(t)
	api.On("List", mock.Anything, mock.Anything).
		Return(sessionPage(domain.Session{ID: "s1", Status: domain.SessionConnected}), nil)
	require.NoError(t, s.Fetch(context.Background()))

	// Backend confirms without echoing the session; only the status field
	// is patched.
	api.On("Stop", mock.Anything, "s1").Return(nil, nil).Once()

	require.NoError(t, s.Stop(context.Background(), "s1"))
	sess, _ := s.Get("s1")
	assert.Equal(t, domain.SessionDisconnected, sess.Status)
}

func TestSessions_CreateAndDelete(t *testing.T) {
	s, api, _ := newSessionsStore(t)

	created := &domain.Session{ID: "s9", Name: "branch", Status: domain.SessionDisconnected}
	api.On("Create", mock.Anything, ports.CreateSessionParams{Name: "branch"}).
		Return(created, nil).Once()

	got, err := s.Create(context.Background(), ports.CreateSessionParams{Name: "branch"})
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, 1, s.Len())

	api.On("Delete", mock.Anything, "s9").Return(nil).Once()
	require.NoError(t, s.Delete(context.Background(), "s9"))
	assert.Zero(t, s.Len())
}

func TestSessions_QRPush(t *testing.T) {
	s, api, transport := newSessionsStore(t)
	api.On("List", mock.Anything, mock.Anything).
		Return(sessionPage(domain.Session{ID: "s1", Status: domain.SessionStarting}), nil)
	require.NoError(t, s.Fetch(context.Background()))

	transport.EmitJSON(domain.EventSessionQR, domain.SessionQRData{
		SessionID: "s1",
		QRCode:    "qr-payload",
	})

	sess, _ := s.Get("s1")
	assert.Equal(t, "qr-payload", sess.QRCode)
	assert.Equal(t, domain.SessionQRPending, sess.Status)

	// Scanning the QR moves the session to connected; the stale QR code is
	// dropped with it.
	status := domain.SessionConnected
	transport.EmitJSON(domain.EventSessionUpdated, domain.SessionPatch{
		ID:     "s1",
		Status: &status,
	})

	sess, _ = s.Get("s1")
	assert.Equal(t, domain.SessionConnected, sess.Status)
	assert.Empty(t, sess.QRCode)
}
