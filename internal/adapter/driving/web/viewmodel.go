package web

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	vm "github.com/ericfisherdev/cloudpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
)

// toRouteFormViewModels converts the route table into form view models. Each
// form posts back to its position in the table.
func toRouteFormViewModels(routes []model.RouteSpec, values map[int]map[string]string) []vm.RouteFormViewModel {
	out := make([]vm.RouteFormViewModel, 0, len(routes))
	for i, spec := range routes {
		fields := make([]vm.FieldViewModel, 0, len(spec.Fields))
		for _, f := range spec.Fields {
			fields = append(fields, vm.FieldViewModel{
				Name:   f.Name,
				IsBool: f.Kind == model.FieldBool,
				Value:  values[i][f.Name],
			})
		}
		out = append(out, vm.RouteFormViewModel{
			Index:     i,
			Label:     spec.Label,
			Action:    spec.Action,
			Method:    string(spec.Method),
			ActionURL: "/app/firewall/" + strconv.Itoa(i),
			Fields:    fields,
		})
	}
	return out
}

// toNoticeViewModel converts a dispatch notice. The raw body is only shown for
// ok notices. Failure messages carry upstream text and stay plain; only the
// fixed remediation of a dependency-missing notice is rendered as markdown.
func toNoticeViewModel(n model.Notice) *vm.NoticeViewModel {
	out := &vm.NoticeViewModel{
		Label:      n.Label,
		Method:     string(n.Method),
		Kind:       string(n.Kind),
		StatusCode: n.StatusCode,
		Duration:   formatDuration(n.Duration),
	}

	if n.Kind == model.NoticeDependencyMissing {
		out.RemediationHTML = RenderMarkdown(n.Message)
	} else {
		out.Message = n.Message
	}

	if n.Kind != model.NoticeOK {
		return out
	}

	out.JSON = n.Body.Pretty()
	if n.Action == model.ActionRoutes && n.Method == model.MethodGet {
		for _, e := range model.RouteEntries(n.Body) {
			out.Routes = append(out.Routes, vm.RouteEntryViewModel{Destination: e.Destination, Gateway: e.Gateway})
		}
	}
	return out
}

func toActivityEntryViewModels(entries []model.Activity) []vm.ActivityEntryViewModel {
	out := make([]vm.ActivityEntryViewModel, 0, len(entries))
	for _, a := range entries {
		out = append(out, vm.ActivityEntryViewModel{
			Label:      a.Label,
			Method:     string(a.Method),
			Outcome:    string(a.Outcome),
			StatusCode: a.StatusCode,
			Duration:   formatDuration(a.Duration),
			When:       a.CreatedAt.UTC().Format("2006-01-02 15:04:05Z"),
		})
	}
	return out
}

func toProjectOptionViewModels(opts []model.ProjectOption, selected string) []vm.ProjectOptionViewModel {
	out := make([]vm.ProjectOptionViewModel, 0, len(opts))
	for _, o := range opts {
		out = append(out, vm.ProjectOptionViewModel{ID: o.ID, Name: o.Name, Selected: o.ID == selected})
	}
	return out
}

// toIssueViewModel converts a domain Issue. The body is rendered as
// sanitized markdown.
func toIssueViewModel(issue model.Issue) vm.IssueViewModel {
	labels := issue.Labels
	if labels == nil {
		labels = []string{}
	}

	toggle, toggleLabel := model.IssueStateClosed, "Close"
	if issue.State == model.IssueStateClosed {
		toggle, toggleLabel = model.IssueStateOpen, "Reopen"
	}

	return vm.IssueViewModel{
		Number:      issue.Number,
		Title:       issue.Title,
		BodyHTML:    RenderMarkdown(issue.Body),
		State:       string(issue.State),
		Author:      issue.Author,
		Labels:      labels,
		URL:         issue.URL,
		Comments:    issue.Comments,
		Updated:     issue.UpdatedAt.UTC().Format("2006-01-02"),
		EditURL:     issueURL(issue.Number),
		StateURL:    issueURL(issue.Number) + "/state",
		ToggleState: string(toggle),
		ToggleLabel: toggleLabel,
	}
}

// toIssueEditViewModel fills the edit form from the current issue.
func toIssueEditViewModel(issue model.Issue) vm.IssueEditViewModel {
	return vm.IssueEditViewModel{
		Number:   issue.Number,
		URL:      issue.URL,
		Action:   issueURL(issue.Number),
		Title:    issue.Title,
		Body:     issue.Body,
		Labels:   strings.Join(issue.Labels, ", "),
		State:    string(issue.State),
		ShowForm: true,
	}
}

func issueURL(number int) string {
	return "/app/issues/" + strconv.Itoa(number)
}

// formatDuration renders d in milliseconds below one second and in seconds
// with one decimal above.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}
