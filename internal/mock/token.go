package mock

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lorrc/chatdesk-client/internal/auth"
	"github.com/lorrc/chatdesk-client/internal/core/domain"
)

// demoSecret signs the tokens the mock backend hands out and accepts. It
// is obviously not a production secret.
const demoSecret = "chatdesk-mock-demo-secret"

// DemoToken signs a token for the given agent, usable against the mock
// backend's REST and websocket endpoints.
func DemoToken(agentID string, role domain.AgentRole) (string, error) {
	claims := auth.Claims{
		AgentID: agentID,
		Role:    string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   agentID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(demoSecret))
}

// verifyToken checks a demo token's signature and returns the agent ID.
func verifyToken(token string) (string, error) {
	var claims auth.Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return []byte(demoSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	return claims.AgentID, nil
}
