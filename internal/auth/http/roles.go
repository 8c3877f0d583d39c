package http

import (
	"net/http"

	"github.com/cardiag/workshop/internal/auth/domain"
	"github.com/cardiag/workshop/pkg/httpx"
)

// RolesHandler serves the role-to-permission table so clients can gate
// their UI without hardcoding the capability lists.
type RolesHandler struct{}

// ServeHTTP handles GET /v1/roles.
func (h *RolesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	roles := []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleTechnician}

	out := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		perms := role.Permissions()
		names := make([]string, 0, len(perms))
		for _, p := range perms {
			names = append(names, string(p))
		}
		out = append(out, RoleResponse{Role: string(role), Permissions: names})
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}
