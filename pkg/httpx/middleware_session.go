package httpx

import (
	"context"
	"net/http"

	"github.com/cardiag/workshop/internal/auth/domain"
	"github.com/cardiag/workshop/pkg/slogx"
)

// AccountResolver resolves the current login session to an account. A nil
// account with a nil error means "not logged in"; expired and tampered
// sessions look exactly the same.
type AccountResolver interface {
	CurrentAccount(ctx context.Context) (*domain.Account, error)
}

// RequireSession rejects requests with no valid current session and injects
// the resolved account into the request context for downstream handlers.
func RequireSession(resolver AccountResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			account, err := resolver.CurrentAccount(ctx)
			if err != nil {
				slogx.FromContext(ctx).Error("session resolution failed", "error", err)
				WriteError(w, http.StatusInternalServerError, "server_error", "failed to resolve session")
				return
			}
			if account == nil {
				WriteError(w, http.StatusUnauthorized, "no_session", "authentication required")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithAccount(ctx, *account)))
		})
	}
}

// RequirePermission rejects requests whose session account lacks the
// capability. Must run after RequireSession.
func RequirePermission(p domain.Permission) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, ok := AccountFromContext(r.Context())
			if !ok {
				WriteError(w, http.StatusUnauthorized, "no_session", "authentication required")
				return
			}
			if !account.HasPermission(p) {
				WriteError(w, http.StatusForbidden, "forbidden", "missing required permission: "+string(p))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
