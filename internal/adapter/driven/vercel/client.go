// Package vercel implements the HostingClient port against the Vercel REST API.
package vercel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gregjones/httpcache"

	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
	"github.com/ericfisherdev/cloudpanel/internal/domain/port/driven"
	"github.com/ericfisherdev/cloudpanel/internal/metrics"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.vercel.com"

// maxErrorBody caps how much of a failed response body is kept for display.
const maxErrorBody = 64 << 10

// Client is the base authenticated REST client. It makes exactly one attempt
// per call and never retries.
type Client struct {
	http    *http.Client
	baseURL string
	cred    model.Credential
}

// Options configures NewClient.
type Options struct {
	BaseURL string
	// Cache enables an in-memory ETag cache private to this client.
	Cache   bool
	Metrics *metrics.Registry
}

// NewClient creates a Client bound to cred with the following transport stack:
//  1. httpcache (optional, ETag conditional requests, memory only)
//  2. Prometheus round-tripper instrumentation
//  3. http.DefaultTransport
func NewClient(cred model.Credential, opts Options) *Client {
	var transport http.RoundTripper = http.DefaultTransport
	transport = opts.Metrics.InstrumentTransport(metrics.UpstreamHosting, transport)
	if opts.Cache {
		cache := httpcache.NewTransport(httpcache.NewMemoryCache())
		cache.Transport = transport
		transport = cache
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		http:    &http.Client{Transport: transport},
		baseURL: strings.TrimRight(baseURL, "/"),
		cred:    cred,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string, cred model.Credential) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		cred:    cred,
	}
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (model.Document, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building GET %s: %w", path, err)
	}
	return c.do(req, path)
}

func (c *Client) post(ctx context.Context, path string, body any) (model.Document, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding body for POST %s: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building POST %s: %w", path, err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, path)
}

func (c *Client) do(req *http.Request, path string) (model.Document, error) {
	req.Header.Set("Authorization", "Bearer "+c.cred.Token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %w", req.Method, path, driven.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("hosting api call",
		"method", req.Method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("%s %s: %w", req.Method, path, &driven.StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: reading body: %w: %w", req.Method, path, driven.ErrTransport, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%s %s: %w", req.Method, path, driven.ErrMalformedResponse)
	}

	return model.Document(body), nil
}
