package vercel

import (
	"context"
	"net/url"

	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
	"github.com/ericfisherdev/cloudpanel/internal/domain/port/driven"
)

// Projects wraps the /v9/projects endpoints.
type Projects struct {
	client *Client
}

// NewProjects creates a Projects wrapper around client.
func NewProjects(client *Client) *Projects {
	return &Projects{client: client}
}

// List returns every project visible to the credential.
func (p *Projects) List(ctx context.Context) (model.Document, error) {
	return p.client.get(ctx, "/v9/projects", nil)
}

// Get returns a single project by id or name.
func (p *Projects) Get(ctx context.Context, projectID string) (model.Document, error) {
	return p.client.get(ctx, "/v9/projects/"+url.PathEscape(projectID), nil)
}

// Deployments wraps the /v13/deployments endpoints.
type Deployments struct {
	client *Client
}

// NewDeployments creates a Deployments wrapper around client.
func NewDeployments(client *Client) *Deployments {
	return &Deployments{client: client}
}

// List returns deployments, scoped to projectID when it is non-empty. An
// empty projectID sends no projectId parameter at all.
func (d *Deployments) List(ctx context.Context, projectID string) (model.Document, error) {
	var params url.Values
	if projectID != "" {
		params = url.Values{"projectId": []string{projectID}}
	}
	return d.client.get(ctx, "/v13/deployments", params)
}

// Get returns a single deployment by id or URL.
func (d *Deployments) Get(ctx context.Context, deploymentID string) (model.Document, error) {
	return d.client.get(ctx, "/v13/deployments/"+url.PathEscape(deploymentID), nil)
}

// Domains wraps the /v6/domains endpoints.
type Domains struct {
	client *Client
}

// NewDomains creates a Domains wrapper around client.
func NewDomains(client *Client) *Domains {
	return &Domains{client: client}
}

// List returns every domain registered to the account.
func (d *Domains) List(ctx context.Context) (model.Document, error) {
	return d.client.get(ctx, "/v6/domains", nil)
}

// Get returns a single domain by name.
func (d *Domains) Get(ctx context.Context, name string) (model.Document, error) {
	return d.client.get(ctx, "/v6/domains/"+url.PathEscape(name), nil)
}

// Compile-time interface satisfaction check.
var _ driven.HostingClient = (*API)(nil)

// API bundles the three resource wrappers behind the HostingClient port.
type API struct {
	Projects    *Projects
	Deployments *Deployments
	Domains     *Domains
}

// NewAPI creates an API whose wrappers share client.
func NewAPI(client *Client) *API {
	return &API{
		Projects:    NewProjects(client),
		Deployments: NewDeployments(client),
		Domains:     NewDomains(client),
	}
}

// NewFactory returns a HostingClientFactory that builds a fresh client, and
// with it a private cache, for every credential.
func NewFactory(opts Options) driven.HostingClientFactory {
	return func(cred model.Credential) driven.HostingClient {
		return NewAPI(NewClient(cred, opts))
	}
}

func (a *API) ListProjects(ctx context.Context) (model.Document, error) {
	return a.Projects.List(ctx)
}

func (a *API) GetProject(ctx context.Context, projectID string) (model.Document, error) {
	return a.Projects.Get(ctx, projectID)
}

func (a *API) ListDeployments(ctx context.Context, projectID string) (model.Document, error) {
	return a.Deployments.List(ctx, projectID)
}

func (a *API) GetDeployment(ctx context.Context, deploymentID string) (model.Document, error) {
	return a.Deployments.Get(ctx, deploymentID)
}

func (a *API) ListDomains(ctx context.Context) (model.Document, error) {
	return a.Domains.List(ctx)
}

func (a *API) GetDomain(ctx context.Context, name string) (model.Document, error) {
	return a.Domains.Get(ctx, name)
}
