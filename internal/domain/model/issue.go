package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Issue represents a GitHub issue of the configured repository.
type Issue struct {
	Number    int
	Title     string
	Body      string
	State     IssueState
	Author    string
	Labels    []string
	URL       string
	Comments  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IssueEdit holds the editable fields of an issue. Labels replaces the full
// label set; an empty slice clears it.
type IssueEdit struct {
	Title  string
	Body   string
	Labels []string
	State  IssueState
}

// Validate rejects edits GitHub would refuse.
func (e IssueEdit) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("title is required")
	}
	if e.State != IssueStateOpen && e.State != IssueStateClosed {
		return fmt.Errorf("invalid issue state %q: expected open or closed", e.State)
	}
	return nil
}

// ParseLabels splits a comma-separated label list, trimming blanks and
// dropping empty and repeated entries. It never returns nil.
func ParseLabels(s string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, l := range strings.Split(s, ",") {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
