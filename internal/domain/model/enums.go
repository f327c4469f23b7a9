package model

// Method is the HTTP verb a firewall route is dispatched with.
type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodDelete Method = "DELETE"
)

// IsSupported reports whether m is one of the verbs the dispatcher can issue.
func (m Method) IsSupported() bool {
	switch m {
	case MethodGet, MethodPost, MethodDelete:
		return true
	}
	return false
}

// FieldKind selects the input control rendered for a route field.
type FieldKind string

const (
	FieldText FieldKind = "text"
	FieldBool FieldKind = "bool" // Restricted to "true" / "false".
)

// NoticeKind categorizes the outcome of a single dispatch.
type NoticeKind string

const (
	NoticeOK                NoticeKind = "ok"
	NoticeDependencyMissing NoticeKind = "dependency_missing"
	NoticeFailure           NoticeKind = "failure"
)

// IssueState represents the state of a GitHub issue.
type IssueState string

const (
	IssueStateOpen   IssueState = "open"
	IssueStateClosed IssueState = "closed"
)
