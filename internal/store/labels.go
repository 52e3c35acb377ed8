package store

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// Labels is the domain store for conversation labels.
type Labels struct {
	*Store[domain.Label]

	api       ports.LabelAPI
	transport ports.Transport

	subs []eventSub
}

// NewLabels creates the store and hooks it to label events.
func NewLabels(api ports.LabelAPI, transport ports.Transport, logger *slog.Logger) *Labels {
	s := &Labels{
		Store:     newStore[domain.Label]("labels", logger),
		api:       api,
		transport: transport,
	}
	s.subs = []eventSub{
		{domain.EventLabelCreated, transport.On(domain.EventLabelCreated, s.handleCreated)},
		{domain.EventLabelUpdated, transport.On(domain.EventLabelUpdated, s.handleUpdated)},
		{domain.EventLabelDeleted, transport.On(domain.EventLabelDeleted, s.handleDeleted)},
	}
	return s
}

// Close unhooks the store from the transport.
func (s *Labels) Close() {
	for _, es := range s.subs {
		s.transport.Off(es.event, es.sub)
	}
}

// Fetch loads the label list.
func (s *Labels) Fetch(ctx context.Context) error {
	gen := s.beginFetch()
	page, err := s.api.List(ctx, s.listOptions())
	return s.completeFetch(gen, page.Items, page.Total, err)
}

// Create adds a label. Non-optimistic.
func (s *Labels) Create(ctx context.Context, params ports.LabelParams) (*domain.Label, error) {
	label, err := s.api.Create(ctx, params)
	if err != nil {
		s.setError(err)
		return nil, err
	}
	s.Upsert(*label)
	return label, nil
}

// Update edits a label. Non-optimistic.
func (s *Labels) Update(ctx context.Context, id string, params ports.LabelParams) error {
	label, err := s.api.Update(ctx, id, params)
	if err != nil {
		s.setError(err)
		return err
	}
	s.Upsert(*label)
	return nil
}

// Delete removes a label. Non-optimistic.
func (s *Labels) Delete(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, id); err != nil {
		s.setError(err)
		return err
	}
	s.Remove(id)
	return nil
}

func (s *Labels) handleCreated(data json.RawMessage) {
	var label domain.Label
	if err := json.Unmarshal(data, &label); err != nil || label.ID == "" {
		s.logger.Warn("dropping label_created payload", "error", err)
		return
	}
	s.Upsert(label)
}

func (s *Labels) handleUpdated(data json.RawMessage) {
	var patch domain.LabelPatch
	if err := json.Unmarshal(data, &patch); err != nil || patch.ID == "" {
		s.logger.Warn("dropping label_updated payload", "error", err)
		return
	}
	s.ApplyPatch(patch.ID, func() domain.Label {
		return domain.Label{ID: patch.ID}
	}, patch.Apply)
}

func (s *Labels) handleDeleted(data json.RawMessage) {
	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.ID == "" {
		s.logger.Warn("dropping label_deleted payload", "error", err)
		return
	}
	s.Remove(payload.ID)
}
