// Package httphandler is the HTTP driving adapter that serves the local
// status API consumed by panel frontends and the healthcheck probe.
package httphandler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/ericfisherdev/prpanel/internal/application"
)

// Handler serves the status API endpoints.
type Handler struct {
	pollSvc *application.PollService
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(pollSvc *application.PollService, logger *slog.Logger) *Handler {
	return &Handler{
		pollSvc: pollSvc,
		logger:  logger,
	}
}

// NewRouter creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/status", h.Status).Methods(http.MethodGet)
	api.HandleFunc("/refresh", h.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	// Recovery innermost so panics are caught before logging.
	wrapped := withRecovery(logger, r)
	wrapped = withLogging(logger, wrapped)

	return wrapped
}

// Status returns the current view model: state, badge count, and the
// classified bucket set when one exists.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toStatusResponse(h.pollSvc.Snapshot()))
}

// Refresh triggers an immediate poll cycle and returns the resulting view
// model. The refresh outcome follows the usual visibility rules, so a
// transient failure with prior data still returns the retained buckets.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.pollSvc.Refresh(r.Context()); err != nil {
		h.logger.Error("manual refresh failed", "error", err)
	}

	writeJSON(w, http.StatusOK, toStatusResponse(h.pollSvc.Snapshot()))
}

// Health reports process liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
