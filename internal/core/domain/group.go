package domain

// AgentGroup is a team of agents sharing an inbox.
type AgentGroup struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Color       string   `json:"color"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members,omitempty"`
	MemberCount int      `json:"member_count"`
}

// EntityID implements the store entity contract.
func (g AgentGroup) EntityID() string { return g.ID }

// HasMember reports whether the agent belongs to the group.
func (g AgentGroup) HasMember(agentID string) bool {
	for _, id := range g.Members {
		if id == agentID {
			return true
		}
	}
	return false
}

// GroupPatch carries the fields a group_updated push may change. Membership
// is adjusted only by the dedicated member events, never by this patch.
type GroupPatch struct {
	ID          string  `json:"id"`
	Name        *string `json:"name,omitempty"`
	Color       *string `json:"color,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Apply merges the patch into the group.
func (p GroupPatch) Apply(g *AgentGroup) {
	if p.Name != nil {
		g.Name = *p.Name
	}
	if p.Color != nil {
		g.Color = *p.Color
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
}

// GroupMemberData is the payload of group_member_added / removed pushes.
type GroupMemberData struct {
	GroupID string `json:"group_id"`
	AgentID string `json:"agent_id"`
}

// AddMember adjusts the membership fields for a member-added push. Adding
// an existing member is a no-op.
func (g *AgentGroup) AddMember(agentID string) {
	if g.HasMember(agentID) {
		return
	}
	g.Members = append(g.Members, agentID)
	g.MemberCount++
}

// RemoveMember adjusts the membership fields for a member-removed push.
func (g *AgentGroup) RemoveMember(agentID string) {
	for i, id := range g.Members {
		if id == agentID {
			g.Members = append(g.Members[:i], g.Members[i+1:]...)
			if g.MemberCount > 0 {
				g.MemberCount--
			}
			return
		}
	}
}
