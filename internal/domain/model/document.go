package model

import (
	"bytes"
	"encoding/json"
)

// Document is an upstream JSON body passed through to the display layer
// without interpretation.
type Document json.RawMessage

// Pretty returns the document indented for display. Bodies that are not
// valid JSON are returned unchanged.
func (d Document) Pretty() string {
	if len(d) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, d, "", "  "); err != nil {
		return string(d)
	}
	return buf.String()
}

// MarshalJSON emits the raw document so it nests verbatim in API responses.
func (d Document) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("null"), nil
	}
	return d, nil
}

// ProjectOption is a selectable project used to scope the deployment listing.
type ProjectOption struct {
	ID   string
	Name string
}

// ProjectOptions extracts id/name pairs from a /v9/projects list document.
// Entries without an id are skipped; an unparseable document yields nil.
func ProjectOptions(doc Document) []ProjectOption {
	var body struct {
		Projects []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"projects"`
	}
	if err := json.Unmarshal(doc, &body); err != nil {
		return nil
	}

	opts := make([]ProjectOption, 0, len(body.Projects))
	for _, p := range body.Projects {
		if p.ID == "" {
			continue
		}
		name := p.Name
		if name == "" {
			name = p.ID
		}
		opts = append(opts, ProjectOption{ID: p.ID, Name: name})
	}
	return opts
}
