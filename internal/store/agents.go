package store

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// Agents is the domain store for agent accounts and their presence.
type Agents struct {
	*Store[domain.Agent]

	api       ports.AgentAPI
	transport ports.Transport

	subs []eventSub
}

// NewAgents creates the store and hooks it to presence events.
func NewAgents(api ports.AgentAPI, transport ports.Transport, logger *slog.Logger) *Agents {
	s := &Agents{
		Store:     newStore[domain.Agent]("agents", logger),
		api:       api,
		transport: transport,
	}
	s.subs = []eventSub{
		{domain.EventAgentOnline, transport.On(domain.EventAgentOnline, s.presenceHandler(true))},
		{domain.EventAgentOffline, transport.On(domain.EventAgentOffline, s.presenceHandler(false))},
	}
	return s
}

// Close unhooks the store from the transport.
func (s *Agents) Close() {
	for _, es := range s.subs {
		s.transport.Off(es.event, es.sub)
	}
}

// Fetch loads the agent list.
func (s *Agents) Fetch(ctx context.Context) error {
	gen := s.beginFetch()
	page, err := s.api.List(ctx, s.listOptions())
	return s.completeFetch(gen, page.Items, page.Total, err)
}

// Announce publishes this client's own presence over the realtime channel.
func (s *Agents) Announce(online bool) {
	if online {
		s.transport.Send(domain.UserOnline())
		return
	}
	s.transport.Send(domain.UserOffline())
}

func (s *Agents) presenceHandler(online bool) ports.Handler {
	return func(data json.RawMessage) {
		var presence domain.AgentPresenceData
		if err := json.Unmarshal(data, &presence); err != nil || presence.AgentID == "" {
			s.logger.Warn("dropping agent presence payload", "error", err)
			return
		}
		s.ApplyPatch(presence.AgentID, func() domain.Agent {
			return domain.Agent{ID: presence.AgentID}
		}, func(a *domain.Agent) {
			a.Online = online
		})
	}
}
