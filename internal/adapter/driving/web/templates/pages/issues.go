package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/cloudpanel/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/cloudpanel/internal/adapter/driving/web/viewmodel"
)

var issueFilters = []string{"open", "closed", "all"}

// Issues renders the issue list of the configured repository.
func Issues(data vm.IssuesViewModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := templates.NewHTML(ctx, w)
		h.Raw(`<section class="panel"><h1>Issues <small>`)
		h.Text(data.Repo)
		h.Raw(`</small></h1><nav class="filters">`)
		for _, f := range issueFilters {
			h.Raw(`<a`)
			h.Href("/app/issues?state=" + f)
			if f == data.Filter {
				h.Raw(` class="active"`)
			}
			h.Raw(`>`)
			h.Text(f)
			h.Raw(`</a>`)
		}
		h.Raw(`</nav>`)
		h.Component(templates.ErrorBanner(data.Error))

		if len(data.Issues) == 0 && data.Error == "" {
			h.Raw(`<p class="empty">No issues.</p>`)
		}
		for _, issue := range data.Issues {
			h.Component(issueCard(data.Page.CSRFToken, issue))
		}
		h.Raw(`</section>`)
		return h.Err()
	})
}

func issueCard(csrf string, issue vm.IssueViewModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := templates.NewHTML(ctx, w)
		h.Raw(`<article`)
		h.Attr("class", "issue issue-"+issue.State)
		h.Raw(`><header><a`)
		h.Href(issue.URL)
		h.Raw(` rel="noopener noreferrer" target="_blank">#`)
		h.Int(issue.Number)
		h.Raw(` `)
		h.Text(issue.Title)
		h.Raw(`</a><span class="meta">`)
		h.Text(issue.Author)
		h.Raw(` · `)
		h.Text(issue.Updated)
		h.Raw(` · `)
		h.Int(issue.Comments)
		h.Raw(` comments</span>`)
		for _, l := range issue.Labels {
			h.Raw(`<span class="label">`)
			h.Text(l)
			h.Raw(`</span>`)
		}
		h.Raw(`</header><div class="markdown">`)
		h.Raw(issue.BodyHTML)
		h.Raw(`</div><footer><a`)
		h.Href(issue.EditURL)
		h.Raw(`>Edit</a><form method="post"`)
		h.Attr("action", issue.StateURL)
		h.Raw(`>`)
		h.Hidden(templates.CSRFField, csrf)
		h.Hidden("state", issue.ToggleState)
		h.Raw(`<button type="submit">`)
		h.Text(issue.ToggleLabel)
		h.Raw(`</button></form></footer></article>`)
		return h.Err()
	})
}

var issueStates = []string{"open", "closed"}

// IssueEdit renders the edit form of one issue.
func IssueEdit(data vm.IssueEditViewModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := templates.NewHTML(ctx, w)
		h.Raw(`<section class="panel issue-edit"><h1>Edit issue #`)
		h.Int(data.Number)
		h.Raw(` <small>`)
		h.Text(data.Repo)
		h.Raw(`</small></h1>`)
		h.Component(templates.ErrorBanner(data.Error))

		if data.ShowForm {
			h.Raw(`<form method="post"`)
			h.Attr("action", data.Action)
			h.Raw(`>`)
			h.Hidden(templates.CSRFField, data.Page.CSRFToken)
			h.Raw(`<label for="issue-title">Title</label><input type="text" id="issue-title" name="title" required`)
			h.Attr("value", data.Title)
			h.Raw(`><label for="issue-body">Body</label><textarea id="issue-body" name="body">`)
			h.Text(data.Body)
			h.Raw(`</textarea><label for="issue-labels">Labels (comma-separated)</label><input type="text" id="issue-labels" name="labels"`)
			h.Attr("value", data.Labels)
			h.Raw(`><label for="issue-state">State</label><select id="issue-state" name="state">`)
			for _, s := range issueStates {
				h.Raw(`<option`)
				h.Attr("value", s)
				if s == data.State {
					h.Raw(` selected`)
				}
				h.Raw(`>`)
				h.Text(s)
				h.Raw(`</option>`)
			}
			h.Raw(`</select><button type="submit">Save</button></form>`)
		}

		h.Raw(`<p><a href="/app/issues">Back to issues</a>`)
		if data.URL != "" {
			h.Raw(` · <a`)
			h.Href(data.URL)
			h.Raw(` rel="noopener noreferrer" target="_blank">View on GitHub</a>`)
		}
		h.Raw(`</p></section>`)
		return h.Err()
	})
}
