package httphandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// FieldResponse is one input of a firewall route.
type FieldResponse struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// RouteResponse is the JSON representation of a firewall route.
type RouteResponse struct {
	Index  int             `json:"index"`
	Label  string          `json:"label"`
	Action string          `json:"action"`
	Method string          `json:"method"`
	Fields []FieldResponse `json:"fields"`
}

// DispatchRequest is the JSON body for the dispatch endpoint. Index is a
// pointer so a missing index is distinguishable from route 0. Each value is a
// string, or a boolean for bool fields.
type DispatchRequest struct {
	Index  *int           `json:"index"`
	Values map[string]any `json:"values"`
}

// NoticeResponse is the JSON representation of a dispatch outcome.
type NoticeResponse struct {
	Label      string         `json:"label"`
	Action     string         `json:"action"`
	Method     string         `json:"method"`
	Outcome    string         `json:"outcome"`
	StatusCode int            `json:"status_code,omitempty"`
	Message    string         `json:"message,omitempty"`
	Body       model.Document `json:"body"`
	DurationMS int64          `json:"duration_ms"`
}

// ActivityResponse is the JSON representation of a recorded dispatch.
type ActivityResponse struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	Action     string `json:"action"`
	Method     string `json:"method"`
	Outcome    string `json:"outcome"`
	StatusCode int    `json:"status_code"`
	DurationMS int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

// toRouteResponse converts a route spec at position index to its JSON representation.
func toRouteResponse(index int, spec model.RouteSpec) RouteResponse {
	fields := make([]FieldResponse, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		fields = append(fields, FieldResponse{Name: f.Name, Kind: string(f.Kind)})
	}

	return RouteResponse{
		Index:  index,
		Label:  spec.Label,
		Action: spec.Action,
		Method: string(spec.Method),
		Fields: fields,
	}
}

// toNoticeResponse converts a dispatch notice to its JSON representation.
func toNoticeResponse(n model.Notice) NoticeResponse {
	return NoticeResponse{
		Label:      n.Label,
		Action:     n.Action,
		Method:     string(n.Method),
		Outcome:    string(n.Kind),
		StatusCode: n.StatusCode,
		Message:    n.Message,
		Body:       n.Body,
		DurationMS: n.Duration.Milliseconds(),
	}
}

// toActivityResponse converts a domain Activity to its JSON representation.
func toActivityResponse(a model.Activity) ActivityResponse {
	return ActivityResponse{
		ID:         a.ID,
		Label:      a.Label,
		Action:     a.Action,
		Method:     string(a.Method),
		Outcome:    string(a.Outcome),
		StatusCode: a.StatusCode,
		DurationMS: a.Duration.Milliseconds(),
		CreatedAt:  a.CreatedAt.UTC().Format(time.RFC3339),
	}
}
