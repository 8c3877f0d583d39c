package http

import (
	"encoding/json"
	"net/http"

	"github.com/cardiag/workshop/internal/auth/domain"
	"github.com/cardiag/workshop/internal/auth/service"
	"github.com/cardiag/workshop/pkg/httpx"
)

// AccountsHandler exposes administrative account management.
type AccountsHandler struct {
	Accounts *service.AccountService
}

// HandleList handles GET /v1/accounts.
func (h *AccountsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Accounts.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	httpx.WriteJSON(w, http.StatusOK, ListAccountsResponse{Accounts: out})
}

// HandleGet handles GET /v1/accounts/{id}.
func (h *AccountsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	acct, err := h.Accounts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccountResponse(acct))
}

// HandleCreate handles POST /v1/accounts.
func (h *AccountsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, "Invalid JSON in request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidBody(w, "Email, password (6+ characters), name, and role are required")
		return
	}

	// New accounts are active unless the request says otherwise.
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	acct, err := h.Accounts.Create(r.Context(), service.NewAccount{
		Email:       req.Email,
		Secret:      req.Secret,
		DisplayName: req.DisplayName,
		PhoneNumber: req.PhoneNumber,
		AvatarURL:   req.AvatarURL,
		Role:        domain.Role(req.Role),
		IsActive:    active,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toAccountResponse(acct))
}

// HandleUpdate handles PATCH /v1/accounts/{id}.
func (h *AccountsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, "Invalid JSON in request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidBody(w, "One of the provided fields is not valid")
		return
	}

	patch := domain.AccountPatch{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		PhoneNumber: req.PhoneNumber,
		AvatarURL:   req.AvatarURL,
		IsActive:    req.IsActive,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}

	acct, err := h.Accounts.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAccountResponse(acct))
}

// HandleDelete handles DELETE /v1/accounts/{id}. The caller comes from
// the session middleware; deleting yourself is refused.
func (h *AccountsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := httpx.AccountFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "no_session", "Not logged in")
		return
	}

	if err := h.Accounts.Delete(r.Context(), r.PathValue("id"), caller.ID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleChangePassword handles POST /v1/accounts/{id}/password. Any
// account may rotate its own secret; rotating someone else's requires
// the manage_users permission, and the old secret must verify either
// way.
func (h *AccountsHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, ok := httpx.AccountFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "no_session", "Not logged in")
		return
	}

	id := r.PathValue("id")
	if id != caller.ID && !caller.HasPermission(domain.PermManageUsers) {
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "Insufficient permissions")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeInvalidBody(w, "Invalid JSON in request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidBody(w, "The current password and a new password (6+ characters) are required")
		return
	}

	if err := h.Accounts.ChangePassword(r.Context(), id, req.OldSecret, req.NewSecret); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
