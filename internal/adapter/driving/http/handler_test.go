package httphandler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httphandler "github.com/ericfisherdev/cloudpanel/internal/adapter/driving/http"
	"github.com/ericfisherdev/cloudpanel/internal/application"
	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
	"github.com/ericfisherdev/cloudpanel/internal/domain/port/driven"
)

// --- Mock implementations ---

type firewallCall struct {
	method model.Method
	action string
}

type mockFirewallAPI struct {
	calls    []firewallCall
	payloads []any
	reply    model.Document
	err      error
}

func (m *mockFirewallAPI) Read(_ context.Context, action string) (model.Document, error) {
	m.calls = append(m.calls, firewallCall{model.MethodGet, action})
	return m.reply, m.err
}

func (m *mockFirewallAPI) Write(_ context.Context, action string, payload any) (model.Document, error) {
	m.calls = append(m.calls, firewallCall{model.MethodPost, action})
	m.payloads = append(m.payloads, payload)
	return m.reply, m.err
}

func (m *mockFirewallAPI) Delete(_ context.Context, action string, _ any) (model.Document, error) {
	m.calls = append(m.calls, firewallCall{model.MethodDelete, action})
	return m.reply, m.err
}

type mockActivityStore struct {
	entries   []model.Activity
	err       error
	lastLimit int
}

func (m *mockActivityStore) Record(_ context.Context, a model.Activity) error {
	m.entries = append([]model.Activity{a}, m.entries...)
	return nil
}

func (m *mockActivityStore) ListRecent(_ context.Context, limit int) ([]model.Activity, error) {
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.entries[:min(limit, len(m.entries))], nil
}

// --- Test helpers ---

func setupMux(t *testing.T, api driven.FirewallAPI, store *mockActivityStore) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dispatcher := application.NewDispatcher(api, store, nil, logger)
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "# metrics\n")
	})
	h := httphandler.NewHandler(dispatcher, store, 5, metrics, logger)
	return httphandler.NewServeMux(h, logger)
}

// doRequest sends body as JSON when it is non-empty.
func doRequest(t *testing.T, mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	header := http.Header{}
	if body != "" {
		header.Set("Content-Type", "application/json")
	}
	return doRequestWithHeader(t, mux, method, target, body, header)
}

func doRequestWithHeader(t *testing.T, mux http.Handler, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// --- Tests ---

func TestHealth(t *testing.T) {
	mux := setupMux(t, &mockFirewallAPI{}, &mockActivityStore{})

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[httphandler.HealthResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	_, err := time.Parse(time.RFC3339, resp.Time)
	assert.NoError(t, err)
}

func TestListRoutes(t *testing.T) {
	mux := setupMux(t, &mockFirewallAPI{}, &mockActivityStore{})

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/firewall/routes", "")

	require.Equal(t, http.StatusOK, rec.Code)
	routes := decodeJSON[[]httphandler.RouteResponse](t, rec)
	require.Len(t, routes, len(model.FirewallRoutes()))

	assert.Equal(t, 0, routes[0].Index)
	assert.Equal(t, "Firewall info", routes[0].Label)
	assert.Equal(t, "GET", routes[0].Method)
	assert.NotNil(t, routes[0].Fields)
	assert.Empty(t, routes[0].Fields)

	vpn := routes[5]
	assert.Equal(t, "vpn", vpn.Action)
	require.Len(t, vpn.Fields, 1)
	assert.Equal(t, httphandler.FieldResponse{Name: "enable", Kind: "bool"}, vpn.Fields[0])
}

func TestDispatch_Success(t *testing.T) {
	api := &mockFirewallAPI{reply: model.Document(`{"success":true,"blocked":["1.2.3.4"]}`)}
	store := &mockActivityStore{}
	mux := setupMux(t, api, store)

	rec := doRequest(t, mux, http.MethodPost, "/api/v1/firewall/dispatch", `{"index":2,"values":{"ip":"1.2.3.4"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Block IP", resp["label"])
	assert.Equal(t, "ok", resp["outcome"])
	assert.Equal(t, map[string]any{"success": true, "blocked": []any{"1.2.3.4"}}, resp["body"])

	require.Len(t, api.calls, 1)
	assert.Equal(t, firewallCall{model.MethodPost, "block"}, api.calls[0])
	assert.Len(t, store.entries, 1)
}

func TestDispatch_UpstreamFailureIsStillOK(t *testing.T) {
	api := &mockFirewallAPI{err: &driven.StatusError{StatusCode: 502, Body: "bad gateway"}}
	mux := setupMux(t, api, &mockActivityStore{})

	rec := doRequest(t, mux, http.MethodPost, "/api/v1/firewall/dispatch", `{"index":0}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[map[string]any](t, rec)
	assert.Equal(t, "failure", resp["outcome"])
	assert.InDelta(t, 502, resp["status_code"], 0)
	assert.Nil(t, resp["body"])
	assert.Contains(t, resp["message"], "Firewall info")
}

func TestDispatch_BadRequests(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{name: "not json", body: `nope`, wantCode: http.StatusBadRequest},
		{name: "missing index", body: `{"values":{}}`, wantCode: http.StatusBadRequest},
		{name: "unknown field", body: `{"index":0,"extra":1}`, wantCode: http.StatusBadRequest},
		{name: "index out of range", body: `{"index":99}`, wantCode: http.StatusNotFound},
		{name: "negative index", body: `{"index":-1}`, wantCode: http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := &mockFirewallAPI{}
			mux := setupMux(t, api, &mockActivityStore{})

			rec := doRequest(t, mux, http.MethodPost, "/api/v1/firewall/dispatch", tc.body)

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
			assert.Empty(t, api.calls)
		})
	}
}

func TestDispatch_InvalidEnableMakesNoCall(t *testing.T) {
	api := &mockFirewallAPI{}
	mux := setupMux(t, api, &mockActivityStore{})

	rec := doRequest(t, mux, http.MethodPost, "/api/v1/firewall/dispatch", `{"index":5,"values":{"enable":"on"}}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[map[string]any](t, rec)
	assert.Equal(t, "failure", resp["outcome"])
	assert.Empty(t, api.calls)
}

func TestDispatch_BooleanEnable(t *testing.T) {
	for _, enable := range []bool{true, false} {
		api := &mockFirewallAPI{reply: model.Document(`{"success":true}`)}
		mux := setupMux(t, api, &mockActivityStore{})

		body := `{"index":5,"values":{"enable":` + strconv.FormatBool(enable) + `}}`
		rec := doRequest(t, mux, http.MethodPost, "/api/v1/firewall/dispatch", body)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "ok", decodeJSON[map[string]any](t, rec)["outcome"])
		require.Len(t, api.calls, 1)
		assert.Equal(t, firewallCall{model.MethodPost, "vpn"}, api.calls[0])
		assert.Equal(t, model.VPNAction{Enable: enable}, api.payloads[0])
	}
}

func TestDispatch_RejectsNonStringValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "number for enable", body: `{"index":5,"values":{"enable":1}}`},
		{name: "object for ip", body: `{"index":2,"values":{"ip":{"v":4}}}`},
		{name: "boolean for text field", body: `{"index":2,"values":{"ip":true}}`},
		{name: "null value", body: `{"index":2,"values":{"ip":null}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := &mockFirewallAPI{}
			mux := setupMux(t, api, &mockActivityStore{})

			rec := doRequest(t, mux, http.MethodPost, "/api/v1/firewall/dispatch", tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
			assert.Empty(t, api.calls)
		})
	}
}

func TestDispatch_RequiresJSONContentType(t *testing.T) {
	for _, ct := range []string{"", "text/plain", "application/x-www-form-urlencoded", "multipart/form-data; boundary=x"} {
		api := &mockFirewallAPI{}
		mux := setupMux(t, api, &mockActivityStore{})
		header := http.Header{}
		if ct != "" {
			header.Set("Content-Type", ct)
		}

		rec := doRequestWithHeader(t, mux, http.MethodPost, "/api/v1/firewall/dispatch", `{"index":2,"values":{"ip":"1.2.3.4"}}`, header)

		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code, ct)
		assert.Empty(t, api.calls, ct)
	}
}

func TestDispatch_AcceptsJSONWithCharset(t *testing.T) {
	api := &mockFirewallAPI{reply: model.Document(`{"success":true}`)}
	mux := setupMux(t, api, &mockActivityStore{})
	header := http.Header{"Content-Type": {"application/json; charset=utf-8"}}

	rec := doRequestWithHeader(t, mux, http.MethodPost, "/api/v1/firewall/dispatch", `{"index":0}`, header)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, api.calls, 1)
}

func TestDispatch_RejectsCrossOrigin(t *testing.T) {
	tests := []struct {
		name   string
		header http.Header
	}{
		{name: "foreign origin", header: http.Header{"Origin": {"https://evil.example"}}},
		{name: "cross-site fetch", header: http.Header{"Sec-Fetch-Site": {"cross-site"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := &mockFirewallAPI{}
			mux := setupMux(t, api, &mockActivityStore{})
			tc.header.Set("Content-Type", "application/json")

			rec := doRequestWithHeader(t, mux, http.MethodPost, "/api/v1/firewall/dispatch", `{"index":2,"values":{"ip":"1.2.3.4"}}`, tc.header)

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
			assert.Empty(t, api.calls)
		})
	}
}

func TestDispatch_AllowsSameOrigin(t *testing.T) {
	api := &mockFirewallAPI{reply: model.Document(`{"success":true}`)}
	mux := setupMux(t, api, &mockActivityStore{})
	header := http.Header{
		"Content-Type":   {"application/json"},
		"Origin":         {"http://example.com"},
		"Sec-Fetch-Site": {"same-origin"},
	}

	rec := doRequestWithHeader(t, mux, http.MethodPost, "/api/v1/firewall/dispatch", `{"index":0}`, header)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, api.calls, 1)
}

func TestListActivity(t *testing.T) {
	store := &mockActivityStore{entries: []model.Activity{
		{ID: "b", Label: "Blocked IPs", Action: "blocked", Method: model.MethodGet, Outcome: model.NoticeOK, StatusCode: 200, Duration: 1500 * time.Millisecond, CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)},
		{ID: "a", Label: "Firewall info", Action: "info", Method: model.MethodGet, Outcome: model.NoticeFailure},
	}}
	mux := setupMux(t, &mockFirewallAPI{}, store)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/activity", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON[[]httphandler.ActivityResponse](t, rec)
	require.Len(t, resp, 2)
	assert.Equal(t, "b", resp[0].ID)
	assert.Equal(t, int64(1500), resp[0].DurationMS)
	assert.Equal(t, "2026-01-02T03:04:05Z", resp[0].CreatedAt)
	assert.Equal(t, "failure", resp[1].Outcome)
	assert.Equal(t, 5, store.lastLimit)
}

func TestListActivity_Limit(t *testing.T) {
	store := &mockActivityStore{}
	mux := setupMux(t, &mockFirewallAPI{}, store)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/activity?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, store.lastLimit)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = doRequest(t, mux, http.MethodGet, "/api/v1/activity?limit=500", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, store.lastLimit, "limit is capped at the configured maximum")

	rec = doRequest(t, mux, http.MethodGet, "/api/v1/activity?limit=zero", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListActivity_StoreError(t *testing.T) {
	store := &mockActivityStore{err: errors.New("db locked")}
	mux := setupMux(t, &mockFirewallAPI{}, store)

	rec := doRequest(t, mux, http.MethodGet, "/api/v1/activity", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db locked")
}

func TestMetricsEndpoint(t *testing.T) {
	mux := setupMux(t, &mockFirewallAPI{}, &mockActivityStore{})

	rec := doRequest(t, mux, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "# metrics")
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := httptest.NewRecorder()
	httphandler.ApplyMiddleware(panicky, logger).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}
