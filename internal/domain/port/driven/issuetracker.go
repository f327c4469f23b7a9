package driven

import (
	"context"

	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
)

// IssueTracker defines the driven port for the GitHub issues panel.
type IssueTracker interface {
	// FetchIssues lists issues (not pull requests) filtered by state:
	// "open", "closed", or "all".
	FetchIssues(ctx context.Context, repoFullName string, state string) ([]model.Issue, error)
	// FetchIssue returns one issue for the edit form.
	FetchIssue(ctx context.Context, repoFullName string, number int) (*model.Issue, error)
	SetIssueState(ctx context.Context, repoFullName string, number int, state model.IssueState) error
	// EditIssue replaces the title, body, labels and state of an issue and
	// returns the updated issue.
	EditIssue(ctx context.Context, repoFullName string, number int, edit model.IssueEdit) (*model.Issue, error)
}
