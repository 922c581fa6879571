package httptransport

import (
	"log/slog"
	"net/http"

	"eventshell/pkg/platform/httputil"
	"eventshell/pkg/requestcontext"
)

// EventsHandler serves event data keyed by the request's scoping context.
type EventsHandler struct {
	openEvents OpenEventsReader
	activities ActivityLister
	logger     *slog.Logger
}

func (h *EventsHandler) handleOpenEvents(w http.ResponseWriter, r *http.Request) {
	listing, err := h.openEvents.OpenEvents(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to read open events",
			"error", err,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listing)
}

func (h *EventsHandler) handleActivities(w http.ResponseWriter, r *http.Request) {
	sc := requestcontext.Scope(r.Context())
	activities, err := h.activities.ListActivities(r.Context(), sc)
	if err != nil {
		h.logger.WarnContext(r.Context(), "failed to list activities",
			"error", err,
			"event_id", sc.EventID,
			"request_id", requestcontext.RequestID(r.Context()),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"scope":      sc,
		"activities": activities,
	})
}
