package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
)

// --- Mock implementations ---

type firewallCall struct {
	Method  model.Method
	Action  string
	Payload []byte
}

type mockFirewallAPI struct {
	mu    sync.Mutex
	calls []firewallCall
	reply model.Document
	err   error
}

func (m *mockFirewallAPI) record(method model.Method, action string, payload any) (model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := firewallCall{Method: method, Action: action}
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		call.Payload = b
	}
	m.calls = append(m.calls, call)
	return m.reply, m.err
}

func (m *mockFirewallAPI) Read(_ context.Context, action string) (model.Document, error) {
	return m.record(model.MethodGet, action, nil)
}

func (m *mockFirewallAPI) Write(_ context.Context, action string, payload any) (model.Document, error) {
	return m.record(model.MethodPost, action, payload)
}

func (m *mockFirewallAPI) Delete(_ context.Context, action string, payload any) (model.Document, error) {
	return m.record(model.MethodDelete, action, payload)
}

type mockActivityStore struct {
	mu      sync.Mutex
	entries []model.Activity
	err     error
}

func (m *mockActivityStore) Record(_ context.Context, a model.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, a)
	return nil
}

func (m *mockActivityStore) ListRecent(_ context.Context, limit int) ([]model.Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.entries) {
		limit = len(m.entries)
	}
	return append([]model.Activity(nil), m.entries[:limit]...), nil
}

var errHostingUnused = errors.New("not implemented in mock")

type mockHostingClient struct {
	token string
}

func (m *mockHostingClient) ListProjects(context.Context) (model.Document, error) {
	return nil, errHostingUnused
}

func (m *mockHostingClient) GetProject(context.Context, string) (model.Document, error) {
	return nil, errHostingUnused
}

func (m *mockHostingClient) ListDeployments(context.Context, string) (model.Document, error) {
	return nil, errHostingUnused
}

func (m *mockHostingClient) GetDeployment(context.Context, string) (model.Document, error) {
	return nil, errHostingUnused
}

func (m *mockHostingClient) ListDomains(context.Context) (model.Document, error) {
	return nil, errHostingUnused
}

func (m *mockHostingClient) GetDomain(context.Context, string) (model.Document, error) {
	return nil, errHostingUnused
}
