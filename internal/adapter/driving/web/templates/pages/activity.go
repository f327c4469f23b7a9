package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/cloudpanel/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/cloudpanel/internal/adapter/driving/web/viewmodel"
)

// Activity renders the recent dispatch log.
func Activity(data vm.ActivityViewModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := templates.NewHTML(ctx, w)
		h.Raw(`<section class="panel"><h1>Recent firewall activity</h1>`)
		h.Component(templates.ErrorBanner(data.Error))

		if len(data.Entries) == 0 && data.Error == "" {
			h.Raw(`<p class="empty">Nothing dispatched yet.</p></section>`)
			return h.Err()
		}

		h.Raw(`<table><thead><tr><th>When</th><th>Action</th><th>Method</th><th>Outcome</th><th>Status</th><th>Took</th></tr></thead><tbody>`)
		for _, e := range data.Entries {
			h.Raw(`<tr`)
			h.Attr("class", "outcome-"+e.Outcome)
			h.Raw(`><td>`)
			h.Text(e.When)
			h.Raw(`</td><td>`)
			h.Text(e.Label)
			h.Raw(`</td><td>`)
			h.Text(e.Method)
			h.Raw(`</td><td>`)
			h.Text(e.Outcome)
			h.Raw(`</td><td>`)
			if e.StatusCode != 0 {
				h.Int(e.StatusCode)
			}
			h.Raw(`</td><td>`)
			h.Text(e.Duration)
			h.Raw(`</td></tr>`)
		}
		h.Raw(`</tbody></table></section>`)
		return h.Err()
	})
}
