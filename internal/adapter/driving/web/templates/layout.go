package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/cloudpanel/internal/adapter/driving/web/viewmodel"
)

// CSRFField is the form field name every POST form carries.
const CSRFField = "csrf_token"

type navLink struct {
	key, label, href string
}

var navLinks = []navLink{
	{"projects", "Projects", "/app/projects"},
	{"deployments", "Deployments", "/app/deployments"},
	{"domains", "Domains", "/app/domains"},
	{"firewall", "Firewall", "/app/firewall"},
	{"activity", "Activity", "/app/activity"},
}

// Layout wraps body in the full HTML document with navigation.
func Layout(page vm.PageViewModel, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := NewHTML(ctx, w)
		h.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.Raw(`<title>`)
		h.Text(page.Title)
		h.Raw(` · cloudpanel</title><link rel="stylesheet" href="/static/app.css"></head><body>`)

		h.Raw(`<header class="topbar"><a class="brand" href="/">cloudpanel</a>`)
		if page.SignedIn {
			h.Raw(`<nav>`)
			links := navLinks
			if page.IssuesEnabled {
				links = append(links[:len(links):len(links)], navLink{"issues", "Issues", "/app/issues"})
			}
			for _, l := range links {
				h.Raw(`<a`)
				h.Href(l.href)
				if l.key == page.Active {
					h.Raw(` class="active" aria-current="page"`)
				}
				h.Raw(`>`)
				h.Text(l.label)
				h.Raw(`</a>`)
			}
			h.Raw(`</nav><form class="signout" method="post" action="/app/session/clear">`)
			h.Hidden(CSRFField, page.CSRFToken)
			h.Raw(`<span class="source">token: `)
			h.Text(page.CredentialSource)
			h.Raw(`</span><button type="submit">Sign out</button></form>`)
		}
		h.Raw(`</header><main>`)
		h.Component(body)
		h.Raw(`</main></body></html>`)
		return h.Err()
	})
}

// ErrorBanner renders msg as an inline error, or nothing when msg is empty.
func ErrorBanner(msg string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if msg == "" {
			return nil
		}
		h := NewHTML(ctx, w)
		h.Raw(`<div class="banner banner-failure" role="alert">`)
		h.Text(msg)
		h.Raw(`</div>`)
		return h.Err()
	})
}
