package auth

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/lorrc/chatdesk-client/internal/core/errors"
)

// Claims is the subset of the backend's JWT payload the client cares about.
// The client cannot verify the signature (the secret stays on the backend);
// claims are decoded only to know who we are and when the token dies.
type Claims struct {
	AgentID string `json:"agent_id"`
	Role    string `json:"role"`
	jwt.RegisteredClaims
}

// TokenHolder stores the bearer token for the REST and WebSocket layers.
// Safe for concurrent use.
type TokenHolder struct {
	mu     sync.RWMutex
	token  string
	claims *Claims
}

// NewTokenHolder creates a holder, optionally seeded with a token.
func NewTokenHolder(token string) *TokenHolder {
	h := &TokenHolder{}
	if token != "" {
		h.SetToken(token)
	}
	return h
}

// SetToken replaces the stored token and re-decodes its claims. A token
// that does not decode as a JWT is still stored; claims are just absent.
func (h *TokenHolder) SetToken(token string) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		claims = nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = token
	h.claims = claims
}

// Token returns the stored bearer token, or ErrMissingToken when unset.
func (h *TokenHolder) Token() (string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.token == "" {
		return "", apperrors.ErrMissingToken
	}
	return h.token, nil
}

// Clear removes the stored token.
func (h *TokenHolder) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = ""
	h.claims = nil
}

// AgentID returns the agent id from the token claims, if known.
func (h *TokenHolder) AgentID() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.claims == nil {
		return ""
	}
	return h.claims.AgentID
}

// Expired reports whether the token carries an expiry in the past. Tokens
// without decodable claims are treated as non-expired; the backend rejects
// them with 401 if they are bad.
func (h *TokenHolder) Expired() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.claims == nil || h.claims.ExpiresAt == nil {
		return false
	}
	return h.claims.ExpiresAt.Before(time.Now())
}
