// Package metrics holds the Prometheus collectors for outbound API calls and
// firewall dispatches.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
)

// Upstream names used as the "upstream" label.
const (
	UpstreamHosting  = "hosting"
	UpstreamFirewall = "firewall"
	UpstreamGitHub   = "github"
)

// Registry holds all cloudpanel collectors.
type Registry struct {
	UpstreamRequests *prometheus.CounterVec
	UpstreamLatency  *prometheus.HistogramVec
	Dispatches       *prometheus.CounterVec
	ActiveSessions   prometheus.Gauge
}

// New creates the collectors and registers them with reg. Pass a fresh
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(reg prometheus.Registerer) *Registry {
	r := &Registry{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cloudpanel_upstream_requests_total",
			Help: "Outbound HTTP requests by upstream, status code, and method",
		}, []string{"upstream", "code", "method"}),

		UpstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cloudpanel_upstream_request_duration_seconds",
			Help:    "Outbound HTTP request latency by upstream",
			Buckets: prometheus.DefBuckets,
		}, []string{"upstream", "method"}),

		Dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cloudpanel_firewall_dispatches_total",
			Help: "Firewall route dispatches by action, method, and outcome",
		}, []string{"action", "method", "outcome"}),

		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "cloudpanel_active_sessions",
			Help: "Browser sessions currently holding a hosting credential",
		}),
	}

	reg.MustRegister(r.UpstreamRequests, r.UpstreamLatency, r.Dispatches, r.ActiveSessions)
	return r
}

// InstrumentTransport wraps next so every round trip is counted and timed
// under the given upstream label. A nil receiver returns next unchanged.
func (r *Registry) InstrumentTransport(upstream string, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if r == nil {
		return next
	}

	labels := prometheus.Labels{"upstream": upstream}
	rt := promhttp.InstrumentRoundTripperDuration(r.UpstreamLatency.MustCurryWith(labels), next)
	return promhttp.InstrumentRoundTripperCounter(r.UpstreamRequests.MustCurryWith(labels), rt)
}

// ObserveDispatch counts one dispatch outcome. Safe on a nil receiver.
func (r *Registry) ObserveDispatch(n model.Notice) {
	if r == nil {
		return
	}
	r.Dispatches.WithLabelValues(n.Action, string(n.Method), string(n.Kind)).Inc()
}

// SetActiveSessions reports the current session count. Safe on a nil receiver.
func (r *Registry) SetActiveSessions(n int) {
	if r == nil {
		return
	}
	r.ActiveSessions.Set(float64(n))
}
