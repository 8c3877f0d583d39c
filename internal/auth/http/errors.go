package http

import (
	"errors"
	"net/http"

	"github.com/cardiag/workshop/internal/auth/service"
	"github.com/cardiag/workshop/pkg/httpx"
	"github.com/cardiag/workshop/pkg/slogx"
)

// writeServiceError maps service sentinels to HTTP error responses.
// Anything unmapped is treated as an internal failure and logged; its
// detail never reaches the client.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "Email or password is incorrect")
	case errors.Is(err, service.ErrAccountInactive):
		httpx.WriteError(w, http.StatusForbidden, "account_inactive", "This account has been deactivated")
	case errors.Is(err, service.ErrAccountNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "No such account")
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusConflict, "email_taken", "An account with this email already exists")
	case errors.Is(err, service.ErrWeakSecret):
		httpx.WriteError(w, http.StatusBadRequest, "weak_password", "Password must be at least 6 characters")
	case errors.Is(err, service.ErrUnknownRole):
		httpx.WriteError(w, http.StatusBadRequest, "unknown_role", "Role must be admin, manager, or technician")
	case errors.Is(err, service.ErrSelfDeletion):
		httpx.WriteError(w, http.StatusConflict, "self_deletion", "You cannot delete your own account")
	case errors.Is(err, service.ErrEmptyPatch):
		httpx.WriteError(w, http.StatusBadRequest, "empty_patch", "No fields to update")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Something went wrong")
	}
}

func writeInvalidBody(w http.ResponseWriter, detail string) {
	httpx.WriteError(w, http.StatusBadRequest, "invalid_request", detail)
}
