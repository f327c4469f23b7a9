package model

// FirewallAction is one typed firewall operation. The set of implementations
// is closed; each variant carries exactly the fields its route declares and
// marshals to a JSON object keyed by those field names.
type FirewallAction interface {
	Route() RouteSpec
	firewallAction()
}

// InfoAction reads the firewall status (GET info).
type InfoAction struct{}

// BlockedAction lists blocked addresses (GET blocked).
type BlockedAction struct{}

// BlockAction blocks one address (POST block).
type BlockAction struct {
	IP string `json:"ip"`
}

// UnblockAction removes an address from the block list (POST unblock).
type UnblockAction struct {
	IP string `json:"ip"`
}

// NATAction maps an internal address to an external one (POST nat).
type NATAction struct {
	InternalIP string `json:"internalIP"`
	ExternalIP string `json:"externalIP"`
}

// VPNAction turns the VPN on or off (POST vpn).
type VPNAction struct {
	Enable bool `json:"enable"`
}

// ConnectionsAction lists active connections (GET connections). The firewall
// host needs netstat for this one.
type ConnectionsAction struct{}

// ListRoutesAction lists the routing table (GET routes).
type ListRoutesAction struct{}

// AddRouteAction adds a route through gateway (POST routes).
type AddRouteAction struct {
	Destination string `json:"destination"`
	Gateway     string `json:"gateway"`
}

// RemoveRouteAction deletes the route to destination (DELETE routes).
type RemoveRouteAction struct {
	Destination string `json:"destination"`
}

func (InfoAction) Route() RouteSpec        { return routeInfo.clone() }
func (BlockedAction) Route() RouteSpec     { return routeBlocked.clone() }
func (BlockAction) Route() RouteSpec       { return routeBlock.clone() }
func (UnblockAction) Route() RouteSpec     { return routeUnblock.clone() }
func (NATAction) Route() RouteSpec         { return routeNAT.clone() }
func (VPNAction) Route() RouteSpec         { return routeVPN.clone() }
func (ConnectionsAction) Route() RouteSpec { return routeConnections.clone() }
func (ListRoutesAction) Route() RouteSpec  { return routeListRoutes.clone() }
func (AddRouteAction) Route() RouteSpec    { return routeAddRoute.clone() }
func (RemoveRouteAction) Route() RouteSpec { return routeRemoveRoute.clone() }

func (InfoAction) firewallAction()        {}
func (BlockedAction) firewallAction()     {}
func (BlockAction) firewallAction()       {}
func (UnblockAction) firewallAction()     {}
func (NATAction) firewallAction()         {}
func (VPNAction) firewallAction()         {}
func (ConnectionsAction) firewallAction() {}
func (ListRoutesAction) firewallAction()  {}
func (AddRouteAction) firewallAction()    {}
func (RemoveRouteAction) firewallAction() {}
