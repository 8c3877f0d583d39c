package httpx

import (
	"context"

	"github.com/cardiag/workshop/internal/auth/domain"
)

type ctxKey string

const ctxKeyAccount ctxKey = "account"

// ContextWithAccount stores the resolved account for downstream handlers.
func ContextWithAccount(ctx context.Context, a domain.Account) context.Context {
	return context.WithValue(ctx, ctxKeyAccount, a)
}

// AccountFromContext returns the account resolved by RequireSession.
func AccountFromContext(ctx context.Context) (domain.Account, bool) {
	a, ok := ctx.Value(ctxKeyAccount).(domain.Account)
	return a, ok
}
