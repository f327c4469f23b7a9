package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
	"github.com/ericfisherdev/cloudpanel/internal/domain/port/driven"
	"github.com/ericfisherdev/cloudpanel/internal/metrics"
)

// NetstatRemediation is shown instead of the raw body when the firewall host
// cannot list connections because netstat is not installed.
const NetstatRemediation = "The firewall host could not list active connections because `netstat` is missing. " +
	"Install it on the remote host (the `net-tools` package on most Linux distributions) and try again."

// Dispatcher turns one firewall route submission into exactly one request
// and converts the outcome into a Notice. It holds no per-call state.
type Dispatcher struct {
	api      driven.FirewallAPI
	activity driven.ActivityStore
	metrics  *metrics.Registry
	logger   *slog.Logger
	now      func() time.Time
}

// NewDispatcher creates a Dispatcher. activity and reg may be nil.
func NewDispatcher(api driven.FirewallAPI, activity driven.ActivityStore, reg *metrics.Registry, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		api:      api,
		activity: activity,
		metrics:  reg,
		logger:   logger,
		now:      time.Now,
	}
}

// Routes returns the ordered firewall route table.
func (d *Dispatcher) Routes() []model.RouteSpec {
	return model.FirewallRoutes()
}

// Invoke builds the typed action for inv and dispatches it. Invalid input
// (unsupported method, unknown route, bad enable value) produces a failure
// notice without any network call.
func (d *Dispatcher) Invoke(ctx context.Context, inv model.RouteInvocation) model.Notice {
	action, err := inv.Action()
	if err != nil {
		n := model.Notice{
			Label:   inv.Spec.Label,
			Action:  inv.Spec.Action,
			Method:  inv.Spec.Method,
			Kind:    model.NoticeFailure,
			Message: fmt.Sprintf("%s failed: %v", inv.Spec.Label, err),
		}
		d.logger.Warn("firewall invocation rejected", "action", inv.Spec.Action, "method", inv.Spec.Method, "error", err)
		d.finish(ctx, n)
		return n
	}
	return d.Dispatch(ctx, action)
}

// Dispatch issues the single request for action and interprets the reply.
// It never returns an error: every failure is reported in the notice.
func (d *Dispatcher) Dispatch(ctx context.Context, action model.FirewallAction) model.Notice {
	spec := action.Route()
	n := model.Notice{Label: spec.Label, Action: spec.Action, Method: spec.Method}

	if err := spec.Validate(); err != nil {
		n.Kind = model.NoticeFailure
		n.Message = fmt.Sprintf("%s failed: %v", spec.Label, err)
		d.finish(ctx, n)
		return n
	}

	start := d.now()
	var (
		doc model.Document
		err error
	)
	switch spec.Method {
	case model.MethodGet:
		doc, err = d.api.Read(ctx, spec.Action)
	case model.MethodPost:
		doc, err = d.api.Write(ctx, spec.Action, action)
	case model.MethodDelete:
		doc, err = d.api.Delete(ctx, spec.Action, action)
	}
	n.Duration = d.now().Sub(start)

	switch {
	case err != nil:
		n.Kind = model.NoticeFailure
		n.StatusCode = driven.StatusCodeOf(err)
		n.Message = failureMessage(spec.Label, err)
	case spec.Action == model.ActionConnections && model.ReportsNetstatError(doc):
		n.Kind = model.NoticeDependencyMissing
		n.StatusCode = 200
		n.Message = NetstatRemediation
	default:
		n.Kind = model.NoticeOK
		n.StatusCode = 200
		n.Body = doc
	}

	d.finish(ctx, n)
	return n
}

func failureMessage(label string, err error) string {
	var se *driven.StatusError
	switch {
	case errors.As(err, &se):
		return fmt.Sprintf("%s failed with HTTP %d: %s", label, se.StatusCode, se.Body)
	case errors.Is(err, driven.ErrTransport):
		return fmt.Sprintf("%s failed: could not reach the firewall service: %v", label, err)
	case errors.Is(err, driven.ErrMalformedResponse):
		return fmt.Sprintf("%s failed: the firewall service returned a body that is not JSON", label)
	default:
		return fmt.Sprintf("%s failed: %v", label, err)
	}
}

// finish logs, counts, and records a completed dispatch. Recording errors are
// logged and never alter the notice.
func (d *Dispatcher) finish(ctx context.Context, n model.Notice) {
	level := slog.LevelInfo
	if n.Kind == model.NoticeFailure {
		level = slog.LevelWarn
	}
	d.logger.Log(ctx, level, "firewall dispatch",
		"action", n.Action,
		"method", n.Method,
		"outcome", n.Kind,
		"status", n.StatusCode,
		"duration", n.Duration.Round(time.Millisecond),
	)

	d.metrics.ObserveDispatch(n)

	if d.activity == nil {
		return
	}
	entry := model.Activity{
		ID:         uuid.NewString(),
		Label:      n.Label,
		Action:     n.Action,
		Method:     n.Method,
		Outcome:    n.Kind,
		StatusCode: n.StatusCode,
		Duration:   n.Duration,
		CreatedAt:  d.now().UTC(),
	}
	if err := d.activity.Record(context.WithoutCancel(ctx), entry); err != nil {
		d.logger.Error("failed to record firewall activity", "action", n.Action, "error", err)
	}
}
