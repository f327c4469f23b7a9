// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// PageViewModel holds the chrome shared by every page: title, navigation
// state, and the CSRF token embedded in forms.
type PageViewModel struct {
	Title     string
	CSRFToken string
	SignedIn  bool
	// CredentialSource names where the session token came from. The token
	// itself never reaches a view model.
	CredentialSource string
	IssuesEnabled    bool
	Active           string
}

// DashboardViewModel holds data for the landing page.
type DashboardViewModel struct {
	Page PageViewModel
	// Candidates lists environment variable names that hold a hosting token.
	Candidates []string
	Error      string
}

// ProjectOptionViewModel is one entry of the deployments project filter.
type ProjectOptionViewModel struct {
	ID       string
	Name     string
	Selected bool
}

// ResourceViewModel holds a hosting API document rendered as JSON.
type ResourceViewModel struct {
	Page    PageViewModel
	Heading string
	JSON    string
	Error   string

	// Deployments listing only.
	ShowProjectFilter bool
	Projects          []ProjectOptionViewModel
	ProjectID         string
}

// FieldViewModel is one input of a firewall route form.
type FieldViewModel struct {
	Name   string
	IsBool bool
	Value  string
}

// RouteFormViewModel holds one firewall route rendered as a form.
type RouteFormViewModel struct {
	Index     int
	Label     string
	Action    string
	Method    string
	ActionURL string
	Fields    []FieldViewModel
}

// RouteEntryViewModel is one row of a routes list reply.
type RouteEntryViewModel struct {
	Destination string
	Gateway     string
}

// NoticeViewModel holds the outcome of one dispatch.
type NoticeViewModel struct {
	Label      string
	Method     string
	Kind       string
	StatusCode int
	// Message is shown as plain text.
	Message string
	// RemediationHTML is sanitized markdown, set only for dependency-missing
	// notices.
	RemediationHTML string
	JSON        string
	Duration    string
	// Routes is set for a successful routes list with at least one entry.
	Routes []RouteEntryViewModel
}

// FirewallViewModel holds data for the firewall page.
type FirewallViewModel struct {
	Page   PageViewModel
	Routes []RouteFormViewModel
	// Notice is the outcome of the last submission, nil on a plain GET.
	Notice *NoticeViewModel
}

// ActivityEntryViewModel holds one recorded dispatch.
type ActivityEntryViewModel struct {
	Label      string
	Method     string
	Outcome    string
	StatusCode int
	Duration   string
	When       string
}

// ActivityViewModel holds data for the activity page.
type ActivityViewModel struct {
	Page    PageViewModel
	Entries []ActivityEntryViewModel
	Error   string
}

// IssueViewModel holds presentation-ready data for one GitHub issue.
type IssueViewModel struct {
	Number   int
	Title    string
	BodyHTML string
	State    string
	Author   string
	Labels   []string
	URL      string
	Comments int
	Updated  string

	EditURL     string
	StateURL    string // POST target for the open/close toggle
	ToggleState string // state the toggle button moves the issue to
	ToggleLabel string
}

// IssuesViewModel holds data for the issues page.
type IssuesViewModel struct {
	Page   PageViewModel
	Repo   string
	Filter string
	Issues []IssueViewModel
	Error  string
}

// IssueEditViewModel holds data for the issue edit page.
type IssueEditViewModel struct {
	Page   PageViewModel
	Repo   string
	Number int
	URL    string
	Action string // POST target of the form
	Title  string
	Body   string
	Labels string // comma-separated
	State  string
	// ShowForm is false when the issue could not be loaded.
	ShowForm bool
	Error    string
}
