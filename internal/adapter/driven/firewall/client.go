// Package firewall implements the FirewallAPI port over the remote firewall
// management endpoint.
package firewall

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
	"github.com/ericfisherdev/cloudpanel/internal/domain/port/driven"
	"github.com/ericfisherdev/cloudpanel/internal/metrics"
)

// Path is the single endpoint every action is dispatched to.
const Path = "/api/firewall"

const maxErrorBody = 64 << 10

// Compile-time interface satisfaction check.
var _ driven.FirewallAPI = (*Client)(nil)

// Client issues one request per call against <base>/api/firewall?action=<action>.
// It sets no timeout of its own; callers bound requests through ctx.
type Client struct {
	http     *http.Client
	endpoint string
}

// NewClient creates a Client for the firewall deployed at baseURL.
func NewClient(baseURL string, reg *metrics.Registry) *Client {
	return &Client{
		http:     &http.Client{Transport: reg.InstrumentTransport(metrics.UpstreamFirewall, nil)},
		endpoint: strings.TrimRight(baseURL, "/") + Path,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		http:     httpClient,
		endpoint: strings.TrimRight(baseURL, "/") + Path,
	}
}

// URL returns the request URL for action.
func (c *Client) URL(action string) string {
	return c.endpoint + "?action=" + url.QueryEscape(action)
}

// Read issues a GET with no body.
func (c *Client) Read(ctx context.Context, action string) (model.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(action), nil)
	if err != nil {
		return nil, fmt.Errorf("building GET %s: %w", action, err)
	}
	return c.do(req, action)
}

// Write issues a POST carrying payload as JSON.
func (c *Client) Write(ctx context.Context, action string, payload any) (model.Document, error) {
	return c.send(ctx, http.MethodPost, action, payload)
}

// Delete issues a DELETE carrying payload as JSON.
func (c *Client) Delete(ctx context.Context, action string, payload any) (model.Document, error) {
	return c.send(ctx, http.MethodDelete, action, payload)
}

func (c *Client) send(ctx context.Context, method, action string, payload any) (model.Document, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s %s payload: %w", method, action, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(action), bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("building %s %s: %w", method, action, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, action)
}

func (c *Client) do(req *http.Request, action string) (model.Document, error) {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %w", req.Method, action, driven.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &driven.StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading body: %w: %w", req.Method, action, driven.ErrTransport, err)
	}
	if !json.Valid(body) {
		return nil, driven.ErrMalformedResponse
	}

	return model.Document(body), nil
}
