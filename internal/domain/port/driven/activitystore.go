package driven

import (
	"context"

	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
)

// ActivityStore defines the driven port for the dispatch activity log.
type ActivityStore interface {
	Record(ctx context.Context, a model.Activity) error
	// ListRecent returns at most limit entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]model.Activity, error)
}
