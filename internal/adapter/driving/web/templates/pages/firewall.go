package pages

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/cloudpanel/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/cloudpanel/internal/adapter/driving/web/viewmodel"
)

// Firewall renders one form per firewall route, with the last outcome on top.
func Firewall(data vm.FirewallViewModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := templates.NewHTML(ctx, w)
		if data.Notice != nil {
			h.Component(Notice(*data.Notice))
		}

		h.Raw(`<section class="panel"><h1>Firewall</h1><div class="routes">`)
		for _, r := range data.Routes {
			h.Component(routeForm(data.Page.CSRFToken, r))
		}
		h.Raw(`</div></section>`)
		return h.Err()
	})
}

func routeForm(csrf string, r vm.RouteFormViewModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := templates.NewHTML(ctx, w)
		h.Raw(`<form method="post" class="route"`)
		h.Attr("action", r.ActionURL)
		h.Raw(`>`)
		h.Hidden(templates.CSRFField, csrf)
		h.Raw(`<h2>`)
		h.Text(r.Label)
		h.Raw(` <span class="method">`)
		h.Text(r.Method)
		h.Raw(`</span></h2>`)

		for _, f := range r.Fields {
			id := "route-" + strconv.Itoa(r.Index) + "-" + f.Name
			h.Raw(`<label`)
			h.Attr("for", id)
			h.Raw(`>`)
			h.Text(f.Name)
			h.Raw(`</label>`)
			if f.IsBool {
				h.Raw(`<select`)
				h.Attr("id", id)
				h.Attr("name", f.Name)
				h.Raw(`>`)
				for _, opt := range []string{"true", "false"} {
					h.Raw(`<option`)
					h.Attr("value", opt)
					if f.Value == opt {
						h.Raw(` selected`)
					}
					h.Raw(`>`)
					h.Text(opt)
					h.Raw(`</option>`)
				}
				h.Raw(`</select>`)
				continue
			}
			h.Raw(`<input type="text"`)
			h.Attr("id", id)
			h.Attr("name", f.Name)
			h.Attr("value", f.Value)
			h.Raw(`>`)
		}

		h.Raw(`<button type="submit">Send</button></form>`)
		return h.Err()
	})
}

// Notice renders the outcome of one dispatch.
func Notice(n vm.NoticeViewModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := templates.NewHTML(ctx, w)
		h.Raw(`<section role="status"`)
		h.Attr("class", "banner banner-"+n.Kind)
		h.Raw(`><h2>`)
		h.Text(n.Label)
		h.Raw(`</h2><p class="meta">`)
		h.Text(n.Method)
		if n.StatusCode != 0 {
			h.Raw(` · HTTP `)
			h.Int(n.StatusCode)
		}
		h.Raw(` · `)
		h.Text(n.Duration)
		h.Raw(`</p>`)

		if n.RemediationHTML != "" {
			// RemediationHTML is already sanitized.
			h.Raw(`<div class="markdown">`)
			h.Raw(n.RemediationHTML)
			h.Raw(`</div>`)
		} else if n.Message != "" {
			h.Raw(`<pre class="message">`)
			h.Text(n.Message)
			h.Raw(`</pre>`)
		}

		if len(n.Routes) > 0 {
			h.Raw(`<table class="route-table"><thead><tr><th>Destination</th><th>Gateway</th></tr></thead><tbody>`)
			for _, e := range n.Routes {
				h.Raw(`<tr><td>`)
				h.Text(e.Destination)
				h.Raw(`</td><td>`)
				h.Text(e.Gateway)
				h.Raw(`</td></tr>`)
			}
			h.Raw(`</tbody></table>`)
		}
		if n.JSON != "" {
			h.Raw(`<pre class="json">`)
			h.Text(n.JSON)
			h.Raw(`</pre>`)
		}
		h.Raw(`</section>`)
		return h.Err()
	})
}
