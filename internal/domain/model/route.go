package model

import (
	"errors"
	"fmt"
)

// Errors returned while turning a form submission into a firewall action.
var (
	ErrUnsupportedMethod = errors.New("unsupported method")
	ErrUnknownRoute      = errors.New("unknown firewall route")
	ErrInvalidFieldValue = errors.New("invalid field value")
)

// EnableField is the one field name rendered as a true/false choice.
const EnableField = "enable"

// Field is one input of a firewall route form.
type Field struct {
	Name string
	Kind FieldKind
}

// RouteSpec statically describes one action exposed by the firewall
// management API.
type RouteSpec struct {
	Label  string
	Action string
	Method Method
	Fields []Field
}

// FieldNames returns the field names in declaration order.
func (s RouteSpec) FieldNames() []string {
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}

// Validate rejects specs whose method the dispatcher cannot issue.
func (s RouteSpec) Validate() error {
	if !s.Method.IsSupported() {
		return fmt.Errorf("%s (%s): %w %q", s.Label, s.Action, ErrUnsupportedMethod, s.Method)
	}
	return nil
}

func fields(names ...string) []Field {
	out := make([]Field, 0, len(names))
	for _, n := range names {
		kind := FieldText
		if n == EnableField {
			kind = FieldBool
		}
		out = append(out, Field{Name: n, Kind: kind})
	}
	return out
}

var (
	routeInfo        = RouteSpec{Label: "Firewall info", Action: "info", Method: MethodGet}
	routeBlocked     = RouteSpec{Label: "Blocked IPs", Action: "blocked", Method: MethodGet}
	routeBlock       = RouteSpec{Label: "Block IP", Action: "block", Method: MethodPost, Fields: fields("ip")}
	routeUnblock     = RouteSpec{Label: "Unblock IP", Action: "unblock", Method: MethodPost, Fields: fields("ip")}
	routeNAT         = RouteSpec{Label: "Configure NAT", Action: "nat", Method: MethodPost, Fields: fields("internalIP", "externalIP")}
	routeVPN         = RouteSpec{Label: "VPN", Action: "vpn", Method: MethodPost, Fields: fields(EnableField)}
	routeConnections = RouteSpec{Label: "Active connections", Action: ActionConnections, Method: MethodGet}
	routeListRoutes  = RouteSpec{Label: "Routes (list)", Action: ActionRoutes, Method: MethodGet}
	routeAddRoute    = RouteSpec{Label: "Routes (add)", Action: ActionRoutes, Method: MethodPost, Fields: fields("destination", "gateway")}
	routeRemoveRoute = RouteSpec{Label: "Routes (remove)", Action: ActionRoutes, Method: MethodDelete, Fields: fields("destination")}

	routeTable = []RouteSpec{
		routeInfo,
		routeBlocked,
		routeBlock,
		routeUnblock,
		routeNAT,
		routeVPN,
		routeConnections,
		routeListRoutes,
		routeAddRoute,
		routeRemoveRoute,
	}
)

// Action names the dispatcher treats specially.
const (
	ActionConnections = "connections"
	ActionRoutes      = "routes"
)

// FirewallRoutes returns the ordered route table. Each call returns a fresh
// copy so callers cannot mutate the shared definition.
func FirewallRoutes() []RouteSpec {
	out := make([]RouteSpec, len(routeTable))
	for i, r := range routeTable {
		out[i] = r.clone()
	}
	return out
}

// FirewallRoute returns the route at index i of FirewallRoutes.
func FirewallRoute(i int) (RouteSpec, bool) {
	if i < 0 || i >= len(routeTable) {
		return RouteSpec{}, false
	}
	return routeTable[i].clone(), true
}

func (s RouteSpec) clone() RouteSpec {
	c := s
	if s.Fields != nil {
		c.Fields = append([]Field(nil), s.Fields...)
	}
	return c
}

// RouteInvocation is one operator submission of a route form. Values holds
// the raw form input keyed by field name.
type RouteInvocation struct {
	Spec   RouteSpec
	Values map[string]string
}

// Action converts the invocation into its typed variant. Text fields are not
// validated and missing ones are sent as empty strings; the enable field must
// be exactly "true" or "false".
func (inv RouteInvocation) Action() (FirewallAction, error) {
	if err := inv.Spec.Validate(); err != nil {
		return nil, err
	}

	v := func(name string) string { return inv.Values[name] }

	switch inv.Spec.Method {
	case MethodGet:
		switch inv.Spec.Action {
		case routeInfo.Action:
			return InfoAction{}, nil
		case routeBlocked.Action:
			return BlockedAction{}, nil
		case ActionConnections:
			return ConnectionsAction{}, nil
		case ActionRoutes:
			return ListRoutesAction{}, nil
		}
	case MethodPost:
		switch inv.Spec.Action {
		case routeBlock.Action:
			return BlockAction{IP: v("ip")}, nil
		case routeUnblock.Action:
			return UnblockAction{IP: v("ip")}, nil
		case routeNAT.Action:
			return NATAction{InternalIP: v("internalIP"), ExternalIP: v("externalIP")}, nil
		case routeVPN.Action:
			enable, err := parseEnable(v(EnableField))
			if err != nil {
				return nil, err
			}
			return VPNAction{Enable: enable}, nil
		case ActionRoutes:
			return AddRouteAction{Destination: v("destination"), Gateway: v("gateway")}, nil
		}
	case MethodDelete:
		if inv.Spec.Action == ActionRoutes {
			return RemoveRouteAction{Destination: v("destination")}, nil
		}
	}

	return nil, fmt.Errorf("%w: %s %s", ErrUnknownRoute, inv.Spec.Method, inv.Spec.Action)
}

func parseEnable(raw string) (bool, error) {
	switch raw {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: %s must be true or false, got %q", ErrInvalidFieldValue, EnableField, raw)
}
