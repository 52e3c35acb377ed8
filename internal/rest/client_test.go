package rest

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/chatdesk-client/internal/auth"
	"github.com/lorrc/chatdesk-client/internal/config"
	apperrors "github.com/lorrc/chatdesk-client/internal/core/errors"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(t *testing.T, handler http.HandlerFunc, tokens *auth.TokenHolder) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := config.APIConfig{BaseURL: server.URL, Timeout: 5 * time.Second}
	return New(cfg, tokens, testLogger())
}

func TestClient_SendsBearerToken(t *testing.T) {
	tokens := auth.NewTokenHolder("test-token")

	var gotAuth string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}, tokens)

	_, err := c.Labels().List(context.Background(), ports.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestClient_DecodesListEnvelope(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/labels", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": [{"id":"l1","name":"vip","color":"#ff0000"}],
			"meta": {"total": 42, "page": 2, "limit": 10}
		}`))
	}, nil)

	page, err := c.Labels().List(context.Background(), ports.ListOptions{Page: 2, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "vip", page.Items[0].Name)
	assert.Equal(t, int64(42), page.Total, "meta total wins over item count")
}

func TestClient_ErrorEnvelope(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"label not found"}`))
	}, nil)

	_, err := c.Labels().Update(context.Background(), "ghost", ports.LabelParams{Name: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.EqualError(t, err, "label not found")
}

func TestClient_EnvelopeFailureOnOKStatus(t *testing.T) {
	// Some backends report business failures in the envelope with HTTP 200.
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"message":"name already taken"}`))
	}, nil)

	_, err := c.Labels().Create(context.Background(), ports.LabelParams{Name: "dup"})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	assert.EqualError(t, err, "name already taken")
}

func TestClient_NoContent(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}, nil)

	require.NoError(t, c.Labels().Delete(context.Background(), "l1"))
}

func TestClient_ConnectionRefused(t *testing.T) {
	cfg := config.APIConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second}
	c := New(cfg, nil, testLogger())

	_, err := c.Labels().List(context.Background(), ports.ListOptions{})
	require.Error(t, err)
	var apiErr *apperrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.StatusCode)
}
