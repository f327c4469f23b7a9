package driven

import (
	"context"

	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
)

// HostingClient defines the driven port for the hosting provider API.
// Every call is a single authenticated GET; responses are passed through
// as documents.
type HostingClient interface {
	ListProjects(ctx context.Context) (model.Document, error)
	GetProject(ctx context.Context, projectID string) (model.Document, error)
	// ListDeployments scopes the listing to projectID when non-empty.
	ListDeployments(ctx context.Context, projectID string) (model.Document, error)
	GetDeployment(ctx context.Context, deploymentID string) (model.Document, error)
	ListDomains(ctx context.Context) (model.Document, error)
	GetDomain(ctx context.Context, name string) (model.Document, error)
}

// HostingClientFactory builds a HostingClient bound to one credential.
type HostingClientFactory func(cred model.Credential) HostingClient
