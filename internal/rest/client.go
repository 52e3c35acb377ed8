package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/lorrc/chatdesk-client/internal/auth"
	"github.com/lorrc/chatdesk-client/internal/config"
	apperrors "github.com/lorrc/chatdesk-client/internal/core/errors"
	"github.com/lorrc/chatdesk-client/internal/core/ports"
)

// Client is the REST side of the backend contract. All responses arrive in
// the uniform envelope {success, message, data, meta}; a transport-level
// timeout rejects like any other failure and stores handle both uniformly.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  *auth.TokenHolder
	logger  *slog.Logger
}

// New creates a REST client. tokens may be nil for unauthenticated backends
// (mock mode, tests).
func New(cfg config.APIConfig, tokens *auth.TokenHolder, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		tokens:  tokens,
		logger:  logger.With("component", "rest_client"),
	}
}

// envelope is the backend's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Meta    *Meta           `json:"meta,omitempty"`
}

// Meta carries pagination information.
type Meta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// do issues a request and decodes the envelope's data into out (when out is
// non-nil). The returned Meta is nil unless the backend sent one.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) (*Meta, error) {
	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, apperrors.NewRequestError(fmt.Errorf("encode request: %w", err))
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, apperrors.NewRequestError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token, err := c.tokens.Token(); err == nil {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "method", method, "path", path, "error", err)
		return nil, apperrors.NewRequestError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		if resp.StatusCode >= 400 {
			return nil, apperrors.NewAPIError(resp.StatusCode, "")
		}
		return nil, apperrors.NewRequestError(fmt.Errorf("decode response: %w", err))
	}

	if resp.StatusCode >= 400 || !env.Success {
		status := resp.StatusCode
		if status < 400 {
			// Envelope-level failure on a 2xx response.
			status = http.StatusBadRequest
		}
		return nil, apperrors.NewAPIError(status, env.Message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, apperrors.NewRequestError(fmt.Errorf("decode data: %w", err))
		}
	}
	return env.Meta, nil
}

// listQuery converts ListOptions into query parameters.
func listQuery(opts ports.ListOptions) url.Values {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	for key, value := range opts.Filters {
		if value != "" {
			q.Set(key, value)
		}
	}
	return q
}

// list fetches one page of T from a collection endpoint.
func list[T any](ctx context.Context, c *Client, path string, opts ports.ListOptions) (ports.Page[T], error) {
	var items []T
	meta, err := c.do(ctx, http.MethodGet, path, listQuery(opts), nil, &items)
	if err != nil {
		return ports.Page[T]{}, err
	}
	page := ports.Page[T]{Items: items, Total: int64(len(items))}
	if meta != nil {
		page.Total = meta.Total
	}
	return page, nil
}
