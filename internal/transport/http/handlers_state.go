package httptransport

import (
	"encoding/json"
	"net/http"
	"strings"

	"eventshell/internal/authstate"
	"eventshell/internal/scope"
	"eventshell/pkg/platform/httputil"
	"eventshell/pkg/requestcontext"
)

// StateHandler exposes the identity snapshot and the derived scope.
type StateHandler struct {
	state StateReader
	scope ScopeSelector
}

type stateResponse struct {
	authstate.Snapshot
	Scope scope.Context `json:"scope"`
}

type setEventRequest struct {
	EventID string `json:"event_id"`
}

func (h *StateHandler) handleGetState(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, stateResponse{
		Snapshot: h.state.State(),
		Scope:    requestcontext.Scope(r.Context()),
	})
}

func (h *StateHandler) handleSetEvent(w http.ResponseWriter, r *http.Request) {
	var req setEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "invalid request body")
		return
	}
	eventID := strings.TrimSpace(req.EventID)
	if eventID == "" {
		httputil.WriteBadRequest(w, "event_id is required")
		return
	}
	h.scope.SetEventID(eventID)
	httputil.WriteJSON(w, http.StatusOK, stateResponse{Snapshot: h.state.State(), Scope: h.scope.Current()})
}

func (h *StateHandler) handleClearEvent(w http.ResponseWriter, r *http.Request) {
	h.scope.SetEventID("")
	httputil.WriteJSON(w, http.StatusOK, stateResponse{Snapshot: h.state.State(), Scope: h.scope.Current()})
}
