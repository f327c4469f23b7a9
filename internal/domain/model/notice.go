package model

import (
	"encoding/json"
	"time"
)

// NetstatErrorCode is the one firewall application error the dashboard
// interprets: the remote host has no netstat binary.
const NetstatErrorCode = "NETSTAT_ERROR"

// Notice is what the operator sees after a dispatch. Body holds the upstream
// JSON for ok notices and is empty otherwise.
type Notice struct {
	Label      string
	Action     string
	Method     Method
	Kind       NoticeKind
	StatusCode int
	Message    string
	Body       Document
	Duration   time.Duration
}

// FirewallEnvelope is the response wrapper the firewall service uses for
// every action.
type FirewallEnvelope struct {
	Success *bool          `json:"success"`
	Message string         `json:"message"`
	Error   *FirewallError `json:"error"`
}

// FirewallError is the error member of a failed FirewallEnvelope.
type FirewallError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details json.RawMessage `json:"details,omitempty"`
}

// ReportsNetstatError returns true when doc is a failed envelope carrying
// NetstatErrorCode.
func ReportsNetstatError(doc Document) bool {
	var env FirewallEnvelope
	if err := json.Unmarshal(doc, &env); err != nil {
		return false
	}
	return env.Success != nil && !*env.Success && env.Error != nil && env.Error.Code == NetstatErrorCode
}

// RouteEntry is one row of the firewall's static route table.
type RouteEntry struct {
	Destination string
	Gateway     string
}

// RouteEntries extracts route rows from a routes list reply. The service has
// shipped several shapes: a top-level "routes" array, or "routes" /
// "routingTable" under "data", with either lowercase keys or the Windows
// DestinationPrefix/NextHop names. Missing values default to "unknown" and
// "0.0.0.0".
func RouteEntries(doc Document) []RouteEntry {
	type rawRoute struct {
		Destination       string `json:"destination"`
		DestinationPrefix string `json:"DestinationPrefix"`
		Gateway           string `json:"gateway"`
		NextHop           string `json:"NextHop"`
	}
	var body struct {
		Routes []rawRoute `json:"routes"`
		Data   struct {
			Routes       []rawRoute `json:"routes"`
			RoutingTable []rawRoute `json:"routingTable"`
		} `json:"data"`
	}
	if err := json.Unmarshal(doc, &body); err != nil {
		return nil
	}

	raw := body.Routes
	if raw == nil {
		raw = body.Data.Routes
	}
	if raw == nil {
		raw = body.Data.RoutingTable
	}

	entries := make([]RouteEntry, 0, len(raw))
	for _, r := range raw {
		e := RouteEntry{Destination: r.Destination, Gateway: r.Gateway}
		if e.Destination == "" {
			e.Destination = r.DestinationPrefix
		}
		if e.Destination == "" {
			e.Destination = "unknown"
		}
		if e.Gateway == "" {
			e.Gateway = r.NextHop
		}
		if e.Gateway == "" {
			e.Gateway = "0.0.0.0"
		}
		entries = append(entries, e)
	}
	return entries
}
