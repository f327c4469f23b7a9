// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/cloudpanel/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/cloudpanel/internal/adapter/driving/web/templates/pages"
	vm "github.com/ericfisherdev/cloudpanel/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/cloudpanel/internal/application"
	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
	"github.com/ericfisherdev/cloudpanel/internal/domain/port/driven"
)

// TokenSource lists and resolves hosting tokens provided through the
// environment. Only variable names are ever shown.
type TokenSource interface {
	Candidates() []string
	Resolve(name string) (model.Credential, error)
}

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	sessions      *application.SessionStore
	dispatcher    *application.Dispatcher
	activity      driven.ActivityStore
	activityLimit int
	tokens        TokenSource
	issues        driven.IssueTracker
	issueRepo     string
	logger        *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. issues may be
// nil, which hides the issues panel.
func NewHandler(
	sessions *application.SessionStore,
	dispatcher *application.Dispatcher,
	activity driven.ActivityStore,
	activityLimit int,
	tokens TokenSource,
	issues driven.IssueTracker,
	issueRepo string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		sessions:      sessions,
		dispatcher:    dispatcher,
		activity:      activity,
		activityLimit: activityLimit,
		tokens:        tokens,
		issues:        issues,
		issueRepo:     issueRepo,
		logger:        logger,
	}
}

// page builds the shared page chrome for the current request.
func (h *Handler) page(w http.ResponseWriter, r *http.Request, title, active string) vm.PageViewModel {
	p := vm.PageViewModel{
		Title:         title,
		CSRFToken:     csrfToken(w, r),
		IssuesEnabled: h.issues != nil,
		Active:        active,
	}
	if sess := h.currentSession(r); sess != nil {
		p.SignedIn = true
		p.CredentialSource = sess.Credential.Source
	}
	return p
}

// render writes body inside the layout. Output is buffered so a render
// failure still produces a clean 500.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page vm.PageViewModel, body templ.Component) {
	var buf bytes.Buffer
	if err := templates.Layout(page, body).Render(r.Context(), &buf); err != nil {
		h.logger.Error("failed to render page", "title", page.Title, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Dashboard renders the landing page.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, http.StatusOK, "")
}

func (h *Handler) renderDashboard(w http.ResponseWriter, r *http.Request, status int, errMsg string) {
	page := h.page(w, r, "Dashboard", "")
	data := vm.DashboardViewModel{Page: page, Candidates: []string{}, Error: errMsg}
	if !page.SignedIn && h.tokens != nil {
		data.Candidates = h.tokens.Candidates()
	}
	h.render(w, r, status, page, pages.Dashboard(data))
}

// OpenSession starts a session from a typed token or an environment
// candidate name.
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	var cred model.Credential
	if name := r.FormValue("candidate"); name != "" {
		if h.tokens == nil {
			h.renderDashboard(w, r, http.StatusBadRequest, "Environment tokens are not available.")
			return
		}
		resolved, err := h.tokens.Resolve(name)
		if err != nil {
			h.logger.Warn("token candidate rejected", "candidate", name, "error", err)
			h.renderDashboard(w, r, http.StatusBadRequest, "That environment token is not available.")
			return
		}
		cred = resolved
	} else {
		cred = model.Credential{Token: strings.TrimSpace(r.FormValue("token")), Source: model.CredentialSourceManual}
	}

	sess, err := h.sessions.Open(cred)
	if err != nil {
		h.renderDashboard(w, r, http.StatusBadRequest, "Enter an access token or pick one from the environment.")
		return
	}

	if old := h.currentSession(r); old != nil {
		h.sessions.Close(old.ID)
	}
	setSessionCookie(w, r, sess.ID)
	h.logger.Info("session opened", "source", cred.Source)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CloseSession forgets the current session.
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if sess := h.currentSession(r); sess != nil {
		h.sessions.Close(sess.ID)
	}
	clearSessionCookie(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// requireSession redirects to the dashboard when no session is open.
func (h *Handler) requireSession(next func(http.ResponseWriter, *http.Request, *application.Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := h.currentSession(r)
		if sess == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next(w, r, sess)
	}
}

// renderResource fetches one hosting document and renders it as JSON.
func (h *Handler) renderResource(w http.ResponseWriter, r *http.Request, active, heading string, fetch func(context.Context) (model.Document, error)) {
	page := h.page(w, r, heading, active)
	data := vm.ResourceViewModel{Page: page, Heading: heading}

	status := http.StatusOK
	doc, err := fetch(r.Context())
	if err != nil {
		h.logger.Warn("hosting request failed", "resource", heading, "status", driven.StatusCodeOf(err), "error", err)
		data.Error = hostingErrorMessage(heading, err)
		status = http.StatusBadGateway
	} else {
		data.JSON = doc.Pretty()
	}

	h.render(w, r, status, page, pages.Resource(data))
}

// ListProjects renders the project list.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request, sess *application.Session) {
	h.renderResource(w, r, "projects", "Projects", sess.Hosting.ListProjects)
}

// GetProject renders one project.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request, sess *application.Session) {
	id := r.PathValue("id")
	h.renderResource(w, r, "projects", "Project "+id, func(ctx context.Context) (model.Document, error) {
		return sess.Hosting.GetProject(ctx, id)
	})
}

// ListDeployments renders deployments, optionally scoped to one project. The
// project selector is filled from the project list; failing to load it only
// hides the options.
func (h *Handler) ListDeployments(w http.ResponseWriter, r *http.Request, sess *application.Session) {
	projectID := strings.TrimSpace(r.URL.Query().Get("projectId"))

	page := h.page(w, r, "Deployments", "deployments")
	data := vm.ResourceViewModel{
		Page:              page,
		Heading:           "Deployments",
		ShowProjectFilter: true,
		Projects:          []vm.ProjectOptionViewModel{},
		ProjectID:         projectID,
	}

	if projects, err := sess.Hosting.ListProjects(r.Context()); err != nil {
		h.logger.Warn("failed to load project filter", "error", err)
	} else {
		data.Projects = toProjectOptionViewModels(model.ProjectOptions(projects), projectID)
	}

	status := http.StatusOK
	doc, err := sess.Hosting.ListDeployments(r.Context(), projectID)
	if err != nil {
		h.logger.Warn("hosting request failed", "resource", "deployments", "status", driven.StatusCodeOf(err), "error", err)
		data.Error = hostingErrorMessage("Deployments", err)
		status = http.StatusBadGateway
	} else {
		data.JSON = doc.Pretty()
	}

	h.render(w, r, status, page, pages.Resource(data))
}

// GetDeployment renders one deployment.
func (h *Handler) GetDeployment(w http.ResponseWriter, r *http.Request, sess *application.Session) {
	id := r.PathValue("id")
	h.renderResource(w, r, "deployments", "Deployment "+id, func(ctx context.Context) (model.Document, error) {
		return sess.Hosting.GetDeployment(ctx, id)
	})
}

// ListDomains renders the domain list.
func (h *Handler) ListDomains(w http.ResponseWriter, r *http.Request, sess *application.Session) {
	h.renderResource(w, r, "domains", "Domains", sess.Hosting.ListDomains)
}

// GetDomain renders one domain.
func (h *Handler) GetDomain(w http.ResponseWriter, r *http.Request, sess *application.Session) {
	name := r.PathValue("name")
	h.renderResource(w, r, "domains", "Domain "+name, func(ctx context.Context) (model.Document, error) {
		return sess.Hosting.GetDomain(ctx, name)
	})
}

// Firewall renders the route forms.
func (h *Handler) Firewall(w http.ResponseWriter, r *http.Request) {
	page := h.page(w, r, "Firewall", "firewall")
	data := vm.FirewallViewModel{
		Page:   page,
		Routes: toRouteFormViewModels(h.dispatcher.Routes(), nil),
	}
	h.render(w, r, http.StatusOK, page, pages.Firewall(data))
}

// DispatchRoute sends the route at {index} with the submitted field values
// and renders the firewall page with the outcome.
func (h *Handler) DispatchRoute(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		http.Error(w, "invalid route index", http.StatusBadRequest)
		return
	}
	spec, ok := model.FirewallRoute(index)
	if !ok {
		http.NotFound(w, r)
		return
	}

	values := make(map[string]string, len(spec.Fields))
	for _, name := range spec.FieldNames() {
		values[name] = r.PostFormValue(name)
	}

	notice := h.dispatcher.Invoke(r.Context(), model.RouteInvocation{Spec: spec, Values: values})

	page := h.page(w, r, "Firewall", "firewall")
	data := vm.FirewallViewModel{
		Page:   page,
		Routes: toRouteFormViewModels(h.dispatcher.Routes(), map[int]map[string]string{index: values}),
		Notice: toNoticeViewModel(notice),
	}
	h.render(w, r, http.StatusOK, page, pages.Firewall(data))
}

// Activity renders the recent dispatch log.
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	page := h.page(w, r, "Activity", "activity")
	data := vm.ActivityViewModel{Page: page, Entries: []vm.ActivityEntryViewModel{}}

	entries, err := h.activity.ListRecent(r.Context(), h.activityLimit)
	if err != nil {
		h.logger.Error("failed to list activity", "error", err)
		data.Error = "Could not load recent activity."
	} else {
		data.Entries = toActivityEntryViewModels(entries)
	}

	h.render(w, r, http.StatusOK, page, pages.Activity(data))
}

// Issues renders the configured repository's issues.
func (h *Handler) Issues(w http.ResponseWriter, r *http.Request) {
	if h.issues == nil {
		http.NotFound(w, r)
		return
	}

	filter := r.URL.Query().Get("state")
	switch filter {
	case "open", "closed", "all":
	case "":
		filter = "open"
	default:
		http.Error(w, "invalid state filter", http.StatusBadRequest)
		return
	}

	page := h.page(w, r, "Issues", "issues")
	data := vm.IssuesViewModel{Page: page, Repo: h.issueRepo, Filter: filter, Issues: []vm.IssueViewModel{}}

	issues, err := h.issues.FetchIssues(r.Context(), h.issueRepo, filter)
	if err != nil {
		h.logger.Error("failed to fetch issues", "repo", h.issueRepo, "error", err)
		data.Error = "Could not load issues from GitHub."
	} else {
		for _, issue := range issues {
			data.Issues = append(data.Issues, toIssueViewModel(issue))
		}
	}

	h.render(w, r, http.StatusOK, page, pages.Issues(data))
}

// SetIssueState opens or closes one issue.
func (h *Handler) SetIssueState(w http.ResponseWriter, r *http.Request) {
	if h.issues == nil {
		http.NotFound(w, r)
		return
	}

	number, ok := issueNumber(w, r)
	if !ok {
		return
	}

	state := model.IssueState(r.PostFormValue("state"))
	if state != model.IssueStateOpen && state != model.IssueStateClosed {
		http.Error(w, "invalid issue state", http.StatusBadRequest)
		return
	}

	if err := h.issues.SetIssueState(r.Context(), h.issueRepo, number, state); err != nil {
		h.logger.Error("failed to set issue state", "repo", h.issueRepo, "number", number, "state", state, "error", err)
		http.Error(w, "could not update issue", http.StatusBadGateway)
		return
	}

	h.logger.Info("issue state changed", "repo", h.issueRepo, "number", number, "state", state)
	http.Redirect(w, r, "/app/issues?state="+string(state), http.StatusSeeOther)
}

// EditIssue renders the edit form of one issue.
func (h *Handler) EditIssue(w http.ResponseWriter, r *http.Request) {
	if h.issues == nil {
		http.NotFound(w, r)
		return
	}

	number, ok := issueNumber(w, r)
	if !ok {
		return
	}

	page := h.page(w, r, "Edit issue", "issues")

	issue, err := h.issues.FetchIssue(r.Context(), h.issueRepo, number)
	if err != nil {
		h.logger.Error("failed to fetch issue", "repo", h.issueRepo, "number", number, "error", err)
		data := vm.IssueEditViewModel{Page: page, Repo: h.issueRepo, Number: number, Error: "Could not load the issue from GitHub."}
		h.render(w, r, http.StatusBadGateway, page, pages.IssueEdit(data))
		return
	}
	if issue == nil {
		http.NotFound(w, r)
		return
	}

	data := toIssueEditViewModel(*issue)
	data.Page = page
	data.Repo = h.issueRepo
	h.render(w, r, http.StatusOK, page, pages.IssueEdit(data))
}

// SaveIssue applies the submitted title, body, labels and state to one issue.
// On failure the form is shown again with the submitted values.
func (h *Handler) SaveIssue(w http.ResponseWriter, r *http.Request) {
	if h.issues == nil {
		http.NotFound(w, r)
		return
	}

	number, ok := issueNumber(w, r)
	if !ok {
		return
	}

	rawLabels := r.PostFormValue("labels")
	edit := model.IssueEdit{
		Title:  strings.TrimSpace(r.PostFormValue("title")),
		Body:   r.PostFormValue("body"),
		Labels: model.ParseLabels(rawLabels),
		State:  model.IssueState(r.PostFormValue("state")),
	}

	data := vm.IssueEditViewModel{
		Repo:     h.issueRepo,
		Number:   number,
		Action:   issueURL(number),
		Title:    edit.Title,
		Body:     edit.Body,
		Labels:   rawLabels,
		State:    string(edit.State),
		ShowForm: true,
	}

	if err := edit.Validate(); err != nil {
		data.Page = h.page(w, r, "Edit issue", "issues")
		data.Error = "Issue not saved: " + err.Error()
		h.render(w, r, http.StatusBadRequest, data.Page, pages.IssueEdit(data))
		return
	}

	updated, err := h.issues.EditIssue(r.Context(), h.issueRepo, number, edit)
	if err != nil {
		h.logger.Error("failed to edit issue", "repo", h.issueRepo, "number", number, "error", err)
		data.Page = h.page(w, r, "Edit issue", "issues")
		data.Error = "Could not save the issue to GitHub."
		h.render(w, r, http.StatusBadGateway, data.Page, pages.IssueEdit(data))
		return
	}

	state := edit.State
	if updated != nil {
		state = updated.State
	}

	h.logger.Info("issue edited", "repo", h.issueRepo, "number", number, "state", state, "labels", len(edit.Labels))
	http.Redirect(w, r, "/app/issues?state="+string(state), http.StatusSeeOther)
}

// issueNumber parses the {number} path value, writing 400 when it is invalid.
func issueNumber(w http.ResponseWriter, r *http.Request) (int, bool) {
	number, err := strconv.Atoi(r.PathValue("number"))
	if err != nil || number < 1 {
		http.Error(w, "invalid issue number", http.StatusBadRequest)
		return 0, false
	}
	return number, true
}

// hostingErrorMessage turns a hosting client error into banner text.
func hostingErrorMessage(resource string, err error) string {
	var se *driven.StatusError
	switch {
	case errors.As(err, &se):
		return fmt.Sprintf("%s: the hosting API answered HTTP %d: %s", resource, se.StatusCode, se.Body)
	case errors.Is(err, driven.ErrTransport):
		return fmt.Sprintf("%s: could not reach the hosting API: %v", resource, err)
	case errors.Is(err, driven.ErrMalformedResponse):
		return fmt.Sprintf("%s: the hosting API returned a body that is not JSON", resource)
	default:
		return fmt.Sprintf("%s: %v", resource, err)
	}
}
