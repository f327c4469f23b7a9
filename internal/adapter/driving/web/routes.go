package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Web routes serve HTML at / and /app/* paths.
// Static assets are served from the embedded filesystem at /static/*.
// Every POST route checks the CSRF token.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Static assets (embedded via go:embed).
	staticFS, _ := fs.Sub(StaticFS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticFS)))

	// Page routes.
	mux.HandleFunc("GET /{$}", h.Dashboard)
	mux.HandleFunc("POST /app/session", requireCSRF(h.OpenSession))
	mux.HandleFunc("POST /app/session/clear", requireCSRF(h.CloseSession))

	// Hosting resources (session required).
	mux.HandleFunc("GET /app/projects", h.requireSession(h.ListProjects))
	mux.HandleFunc("GET /app/projects/{id}", h.requireSession(h.GetProject))
	mux.HandleFunc("GET /app/deployments", h.requireSession(h.ListDeployments))
	mux.HandleFunc("GET /app/deployments/{id}", h.requireSession(h.GetDeployment))
	mux.HandleFunc("GET /app/domains", h.requireSession(h.ListDomains))
	mux.HandleFunc("GET /app/domains/{name}", h.requireSession(h.GetDomain))

	// Firewall.
	mux.HandleFunc("GET /app/firewall", h.Firewall)
	mux.HandleFunc("POST /app/firewall/{index}", requireCSRF(h.DispatchRoute))
	mux.HandleFunc("GET /app/activity", h.Activity)

	// GitHub issues (hidden when not configured).
	mux.HandleFunc("GET /app/issues", h.Issues)
	mux.HandleFunc("GET /app/issues/{number}", h.EditIssue)
	mux.HandleFunc("POST /app/issues/{number}", requireCSRF(h.SaveIssue))
	mux.HandleFunc("POST /app/issues/{number}/state", requireCSRF(h.SetIssueState))
}
