package accuracy

import (
	"log/slog"
	"net/http"

	"github.com/arbiterhq/arbiter/pkg/handlers"
	"github.com/arbiterhq/arbiter/pkg/routes"
)

// Handler provides HTTP endpoints for the accuracy metrics surface.
type Handler struct {
	tracker *Tracker
	logger  *slog.Logger
}

func NewHandler(tracker *Tracker, logger *slog.Logger) *Handler {
	return &Handler{
		tracker: tracker,
		logger:  logger.With("handler", "metrics"),
	}
}

// Routes returns the route group definition for metrics endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/metrics",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/report", Handler: h.Report},
			{Method: "POST", Pattern: "/reset", Handler: h.Reset},
		},
	}
}

// Report returns the full accuracy report.
func (h *Handler) Report(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.tracker.DetailedReport())
}

// Reset discards all recorded metrics.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.Reset(); err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
