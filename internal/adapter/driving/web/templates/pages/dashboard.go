// Package pages holds the page-level components rendered inside the layout.
package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/cloudpanel/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/cloudpanel/internal/adapter/driving/web/viewmodel"
)

// Dashboard renders the sign-in forms, or the panel index once signed in.
func Dashboard(data vm.DashboardViewModel) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := templates.NewHTML(ctx, w)
		h.Component(templates.ErrorBanner(data.Error))

		if data.Page.SignedIn {
			h.Raw(`<section class="panel"><h1>Hosting account</h1><p>Signed in with token from <strong>`)
			h.Text(data.Page.CredentialSource)
			h.Raw(`</strong>.</p><ul class="index">`)
			h.Raw(`<li><a href="/app/projects">Projects</a></li>`)
			h.Raw(`<li><a href="/app/deployments">Deployments</a></li>`)
			h.Raw(`<li><a href="/app/domains">Domains</a></li>`)
			h.Raw(`</ul></section>`)
		} else {
			h.Raw(`<section class="panel"><h1>Sign in</h1>`)
			h.Raw(`<form method="post" action="/app/session" class="stack">`)
			h.Hidden(templates.CSRFField, data.Page.CSRFToken)
			h.Raw(`<label for="token">Access token</label>`)
			h.Raw(`<input id="token" name="token" type="password" autocomplete="off" required>`)
			h.Raw(`<button type="submit">Use token</button></form>`)

			if len(data.Candidates) > 0 {
				h.Raw(`<h2>From environment</h2><ul class="candidates">`)
				for _, name := range data.Candidates {
					h.Raw(`<li><form method="post" action="/app/session">`)
					h.Hidden(templates.CSRFField, data.Page.CSRFToken)
					h.Hidden("candidate", name)
					h.Raw(`<button type="submit">`)
					h.Text(name)
					h.Raw(`</button></form></li>`)
				}
				h.Raw(`</ul>`)
			}
			h.Raw(`</section>`)
		}

		h.Raw(`<section class="panel"><h1>Firewall</h1><p><a href="/app/firewall">Open firewall controls</a></p></section>`)
		return h.Err()
	})
}
