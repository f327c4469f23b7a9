package httphandler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/ericfisherdev/cloudpanel/internal/application"
	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
	"github.com/ericfisherdev/cloudpanel/internal/domain/port/driven"
)

// maxDispatchBody caps the JSON body accepted by the dispatch endpoint.
const maxDispatchBody = 64 << 10

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	dispatcher    *application.Dispatcher
	activity      driven.ActivityStore
	activityLimit int
	metrics       http.Handler
	origin        *http.CrossOriginProtection
	logger        *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. metrics may be
// nil, in which case /metrics is not registered.
func NewHandler(
	dispatcher *application.Dispatcher,
	activity driven.ActivityStore,
	activityLimit int,
	metrics http.Handler,
	logger *slog.Logger,
) *Handler {
	h := &Handler{
		dispatcher:    dispatcher,
		activity:      activity,
		activityLimit: activityLimit,
		metrics:       metrics,
		origin:        http.NewCrossOriginProtection(),
		logger:        logger,
	}
	h.origin.SetDenyHandler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusForbidden, "cross-origin request rejected")
	}))
	return h
}

// RegisterAPIRoutes registers the JSON API on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/firewall/routes", h.ListRoutes)
	mux.Handle("POST /api/v1/firewall/dispatch", h.origin.Handler(http.HandlerFunc(h.Dispatch)))
	mux.HandleFunc("GET /api/v1/activity", h.ListActivity)
	if h.metrics != nil {
		mux.Handle("GET /metrics", h.metrics)
	}
}

// NewServeMux creates an http.Handler with only the API routes registered and
// wrapped with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// ListRoutes returns the firewall route table in display order.
func (h *Handler) ListRoutes(w http.ResponseWriter, _ *http.Request) {
	routes := h.dispatcher.Routes()

	resp := make([]RouteResponse, 0, len(routes))
	for i, spec := range routes {
		resp = append(resp, toRouteResponse(i, spec))
	}

	writeJSON(w, http.StatusOK, resp)
}

// Dispatch runs one firewall route. The response status reflects whether the
// request was well formed; the upstream outcome is carried in the notice.
// Only application/json bodies are accepted, so browsers cannot send one
// cross-site without a preflight.
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	if !isJSON(r) {
		writeError(w, http.StatusUnsupportedMediaType, "content type must be application/json")
		return
	}

	var req DispatchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDispatchBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Index == nil {
		writeError(w, http.StatusBadRequest, "index is required")
		return
	}

	spec, ok := model.FirewallRoute(*req.Index)
	if !ok {
		writeError(w, http.StatusNotFound, "firewall route not found: "+strconv.Itoa(*req.Index))
		return
	}

	values, err := formValues(spec, req.Values)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	notice := h.dispatcher.Invoke(r.Context(), model.RouteInvocation{Spec: spec, Values: values})

	writeJSON(w, http.StatusOK, toNoticeResponse(notice))
}

// isJSON reports whether the request body is declared as JSON.
func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// formValues converts the JSON values of a dispatch request into form input.
// Strings pass through unchanged; booleans are accepted for bool fields only.
func formValues(spec model.RouteSpec, raw map[string]any) (map[string]string, error) {
	kinds := make(map[string]model.FieldKind, len(spec.Fields))
	for _, f := range spec.Fields {
		kinds[f.Name] = f.Kind
	}

	out := make(map[string]string, len(raw))
	for name, v := range raw {
		switch v := v.(type) {
		case string:
			out[name] = v
		case bool:
			if kinds[name] != model.FieldBool {
				return nil, fmt.Errorf("field %q does not take a boolean", name)
			}
			out[name] = strconv.FormatBool(v)
		default:
			return nil, fmt.Errorf("field %q must be a string or boolean", name)
		}
	}
	return out, nil
}

// ListActivity returns the most recent dispatches, newest first. The optional
// limit query parameter may lower, but not raise, the configured limit.
func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	limit := h.activityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, h.activityLimit)
	}

	entries, err := h.activity.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("failed to list activity", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]ActivityResponse, 0, len(entries))
	for _, a := range entries {
		resp = append(resp, toActivityResponse(a))
	}

	writeJSON(w, http.StatusOK, resp)
}
