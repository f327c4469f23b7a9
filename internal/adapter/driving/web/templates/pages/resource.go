package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/cloudpanel/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/cloudpanel/internal/adapter/driving/web/viewmodel"
)

// Resource renders one hosting API document as formatted JSON.
func Resource(data vm.ResourceViewModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := templates.NewHTML(ctx, w)
		h.Raw(`<section class="panel"><h1>`)
		h.Text(data.Heading)
		h.Raw(`</h1>`)

		if data.ShowProjectFilter {
			h.Raw(`<form method="get" action="/app/deployments" class="inline">`)
			h.Raw(`<label for="projectId">Project</label><select id="projectId" name="projectId">`)
			h.Raw(`<option value="">All projects</option>`)
			for _, p := range data.Projects {
				h.Raw(`<option`)
				h.Attr("value", p.ID)
				if p.Selected {
					h.Raw(` selected`)
				}
				h.Raw(`>`)
				h.Text(p.Name)
				h.Raw(`</option>`)
			}
			h.Raw(`</select><button type="submit">Filter</button></form>`)
		}

		h.Component(templates.ErrorBanner(data.Error))
		if data.JSON != "" {
			h.Raw(`<pre class="json">`)
			h.Text(data.JSON)
			h.Raw(`</pre>`)
		}
		h.Raw(`</section>`)
		return h.Err()
	})
}
