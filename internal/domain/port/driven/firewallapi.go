package driven

import (
	"context"

	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
)

// FirewallAPI defines the driven port for the firewall management endpoint.
// There is one method per verb category; action selects the operation via
// the ?action= query parameter. Implementations issue exactly one request
// and return the 2xx body untouched.
type FirewallAPI interface {
	// Read issues a GET with no body.
	Read(ctx context.Context, action string) (model.Document, error)
	// Write issues a POST with payload encoded as JSON.
	Write(ctx context.Context, action string, payload any) (model.Document, error)
	// Delete issues a DELETE with payload encoded as JSON.
	Delete(ctx context.Context, action string, payload any) (model.Document, error)
}
