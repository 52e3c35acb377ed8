package domain

import "time"

// AgentRole represents an agent's permission level.
type AgentRole string

const (
	RoleAgent      AgentRole = "agent"
	RoleSupervisor AgentRole = "supervisor"
	RoleAdmin      AgentRole = "admin"
)

// Agent is a customer-service operator account.
type Agent struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       AgentRole  `json:"role"`
	Online     bool       `json:"online"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
}

// EntityID implements the store entity contract.
func (a Agent) EntityID() string { return a.ID }

// AgentPresenceData is the payload of agent_online / agent_offline pushes.
type AgentPresenceData struct {
	AgentID string `json:"agent_id"`
}
