package http

import (
	"encoding/json"
	"net/http"

	"github.com/cardiag/workshop/internal/auth/service"
	"github.com/cardiag/workshop/pkg/httpx"
	"github.com/cardiag/workshop/pkg/slogx"
)

// SessionHandler exposes login, logout, and the current-session probe.
type SessionHandler struct {
	Sessions *service.SessionService
}

// HandleLogin handles POST /v1/session.
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, "Invalid JSON in request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidBody(w, "A valid email and a password are required")
		return
	}

	acct, token, err := h.Sessions.Login(ctx, req.Email, req.Secret)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Debug("login accepted", "account_id", acct.ID)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{
		Token:   token,
		Account: toAccountResponse(acct),
	})
}

// HandleLogout handles DELETE /v1/session. Always succeeds, session or
// not.
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleCurrent handles GET /v1/session. The account snapshot was
// injected by the session middleware.
func (h *SessionHandler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	acct, ok := httpx.AccountFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "no_session", "Not logged in")
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, SessionResponse{Account: toAccountResponse(acct)})
}
