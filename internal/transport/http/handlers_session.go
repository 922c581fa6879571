package httptransport

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"eventshell/internal/identity"
	"eventshell/pkg/platform/httputil"
)

// SessionService drives the credential source from HTTP.
type SessionService interface {
	SignIn(token string) (identity.Identity, error)
	SignInAnonymously() identity.Identity
	SignOut()
}

// SessionHandler lets a local UI sign in, sign in anonymously, or sign out.
type SessionHandler struct {
	sessions SessionService
}

func NewSessionHandler(sessions SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Register(r chi.Router) {
	r.Post("/session", h.handleSignIn)
	r.Post("/session/anonymous", h.handleAnonymous)
	r.Delete("/session", h.handleSignOut)
}

type signInRequest struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	Identity identity.Identity `json:"identity"`
}

func (h *SessionHandler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "invalid request body")
		return
	}
	token := strings.TrimSpace(req.Token)
	if token == "" {
		httputil.WriteBadRequest(w, "token is required")
		return
	}
	id, err := h.sessions.SignIn(token)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sessionResponse{Identity: id})
}

func (h *SessionHandler) handleAnonymous(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusCreated, sessionResponse{Identity: h.sessions.SignInAnonymously()})
}

func (h *SessionHandler) handleSignOut(w http.ResponseWriter, _ *http.Request) {
	h.sessions.SignOut()
	w.WriteHeader(http.StatusNoContent)
}
