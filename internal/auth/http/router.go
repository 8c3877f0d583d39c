package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cardiag/workshop/internal/auth/domain"
	"github.com/cardiag/workshop/internal/auth/metrics"
	"github.com/cardiag/workshop/internal/auth/service"
	"github.com/cardiag/workshop/internal/auth/store"
	"github.com/cardiag/workshop/pkg/httpx"
	"github.com/cardiag/workshop/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	SessionService *service.SessionService
	AccountService *service.AccountService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSession()
	r.registerAccounts()
	r.registerRoles()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// handle registers a handler with its route label on the duration
// histogram.
func (r *Router) handle(pattern, route string, h http.Handler) {
	r.Mux.Handle(pattern, metrics.Instrument(route, h))
}

func (r *Router) registerSession() {
	h := &SessionHandler{Sessions: r.SessionService}

	// Login attempts are the brute-force surface; strict limit by IP.
	r.handle("POST /v1/session", "session_login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.handle("DELETE /v1/session", "session_logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	r.handle("GET /v1/session", "session_current",
		httpx.Chain(http.HandlerFunc(h.HandleCurrent),
			httpx.RequireSession(r.SessionService),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAccounts() {
	h := &AccountsHandler{Accounts: r.AccountService}

	admin := func(next http.Handler) http.Handler {
		return httpx.Chain(next,
			httpx.RequireSession(r.SessionService),
			httpx.RequirePermission(domain.PermManageUsers),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		)
	}

	r.handle("GET /v1/accounts", "accounts_list", admin(http.HandlerFunc(h.HandleList)))
	r.handle("POST /v1/accounts", "accounts_create", admin(http.HandlerFunc(h.HandleCreate)))
	r.handle("GET /v1/accounts/{id}", "accounts_get", admin(http.HandlerFunc(h.HandleGet)))
	r.handle("PATCH /v1/accounts/{id}", "accounts_update", admin(http.HandlerFunc(h.HandleUpdate)))
	r.handle("DELETE /v1/accounts/{id}", "accounts_delete", admin(http.HandlerFunc(h.HandleDelete)))

	// Password changes only need a session; the handler decides whether
	// the caller may touch the target account.
	r.handle("POST /v1/accounts/{id}/password", "accounts_change_password",
		httpx.Chain(http.HandlerFunc(h.HandleChangePassword),
			httpx.RequireSession(r.SessionService),
			httpx.RateLimitByAccount(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerRoles() {
	r.handle("GET /v1/roles", "roles_list",
		httpx.Chain(&RolesHandler{},
			httpx.RequireSession(r.SessionService),
			httpx.RateLimitByAccount(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.handle("GET /livez", "livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.handle("GET /readyz", "readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /metrics", promhttp.Handler())
}
