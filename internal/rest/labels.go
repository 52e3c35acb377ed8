package rest

import (
	"context"
	"net/http"

	"github.com/lorrc/chatdesk-client/internal/core/domain"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// LabelClient implements ports.LabelAPI.
type LabelClient struct {
	c *Client
}

var _ ports.LabelAPI = (*LabelClient)(nil)

// Labels returns the label API surface.
func (c *Client) Labels() *LabelClient {
	return &LabelClient{c: c}
}

func (a *LabelClient) List(ctx context.Context, opts ports.ListOptions) (ports.Page[domain.Label], error) {
	return list[domain.Label](ctx, a.c, "/labels", opts)
}

func (a *LabelClient) Create(ctx context.Context, params ports.LabelParams) (*domain.Label, error) {
	var label domain.Label
	if _, err := a.c.do(ctx, http.MethodPost, "/labels", nil, params, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

func (a *LabelClient) Update(ctx context.Context, id string, params ports.LabelParams) (*domain.Label, error) {
	var label domain.Label
	if _, err := a.c.do(ctx, http.MethodPatch, "/labels/"+id, nil, params, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

func (a *LabelClient) Delete(ctx context.Context, id string) error {
	_, err := a.c.do(ctx, http.MethodDelete, "/labels/"+id, nil, nil, nil)
	return err
}
