package service

import (
	"context"
	"testing"
	"time"

	"github.com/cardiag/workshop/internal/auth/domain"
	"github.com/cardiag/workshop/internal/auth/store"
	"github.com/cardiag/workshop/pkg/sessiontoken"
	"github.com/stretchr/testify/require"
)

func newSessionService(t *testing.T) (*SessionService, *AccountService) {
	t.Helper()

	st := newTestStore(t)
	codec := sessiontoken.NewCodec([]byte("test-secret"), "workshop-test", 0)
	return &SessionService{Store: st, Tokens: codec}, &AccountService{Store: st}
}

func createAccount(t *testing.T, accounts *AccountService, email, secret string, role domain.Role, active bool) domain.Account {
	t.Helper()

	acct, err := accounts.Create(context.Background(), NewAccount{
		Email:       email,
		Secret:      secret,
		DisplayName: "Test Account",
		Role:        role,
		IsActive:    active,
	})
	require.NoError(t, err)
	return acct
}

func TestSessionLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("valid credentials open a session", func(t *testing.T) {
		sessions, accounts := newSessionService(t)
		created := createAccount(t, accounts, "admin@x.com", "secret-1", domain.RoleAdmin, true)

		acct, token, err := sessions.Login(ctx, "admin@x.com", "secret-1")
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.Equal(t, created.ID, acct.ID)
		require.Empty(t, acct.SecretHash)
		require.NotNil(t, acct.LastLoginAt)

		current, err := sessions.CurrentAccount(ctx)
		require.NoError(t, err)
		require.NotNil(t, current)
		require.Equal(t, created.ID, current.ID)
	})

	t.Run("email matches case-insensitively", func(t *testing.T) {
		sessions, accounts := newSessionService(t)
		created := createAccount(t, accounts, "admin@x.com", "secret-1", domain.RoleAdmin, true)

		acct, _, err := sessions.Login(ctx, "ADMIN@X.com", "secret-1")
		require.NoError(t, err)
		require.Equal(t, created.ID, acct.ID)
		require.Equal(t, "admin@x.com", acct.Email)
	})

	t.Run("unknown email and wrong secret are indistinguishable", func(t *testing.T) {
		sessions, accounts := newSessionService(t)
		createAccount(t, accounts, "admin@x.com", "secret-1", domain.RoleAdmin, true)

		_, _, err := sessions.Login(ctx, "nobody@x.com", "secret-1")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, _, err = sessions.Login(ctx, "admin@x.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive account rejected only after credentials match", func(t *testing.T) {
		sessions, accounts := newSessionService(t)
		createAccount(t, accounts, "off@x.com", "secret-1", domain.RoleTechnician, false)

		_, _, err := sessions.Login(ctx, "off@x.com", "secret-1")
		require.ErrorIs(t, err, ErrAccountInactive)

		_, _, err = sessions.Login(ctx, "off@x.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		current, err := sessions.CurrentAccount(ctx)
		require.NoError(t, err)
		require.Nil(t, current)
	})

	t.Run("second login replaces the first", func(t *testing.T) {
		sessions, accounts := newSessionService(t)
		createAccount(t, accounts, "first@x.com", "secret-1", domain.RoleAdmin, true)
		second := createAccount(t, accounts, "second@x.com", "secret-2", domain.RoleManager, true)

		_, _, err := sessions.Login(ctx, "first@x.com", "secret-1")
		require.NoError(t, err)

		_, _, err = sessions.Login(ctx, "second@x.com", "secret-2")
		require.NoError(t, err)

		current, err := sessions.CurrentAccount(ctx)
		require.NoError(t, err)
		require.NotNil(t, current)
		require.Equal(t, second.ID, current.ID)
	})
}

func TestSessionLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	sessions, accounts := newSessionService(t)
	createAccount(t, accounts, "admin@x.com", "secret-1", domain.RoleAdmin, true)

	_, _, err := sessions.Login(ctx, "admin@x.com", "secret-1")
	require.NoError(t, err)

	require.NoError(t, sessions.Logout(ctx))

	current, err := sessions.CurrentAccount(ctx)
	require.NoError(t, err)
	require.Nil(t, current)

	// Logging out with no session is a no-op.
	require.NoError(t, sessions.Logout(ctx))
}

func TestSessionCurrentAccount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("no session yields nil without error", func(t *testing.T) {
		sessions, _ := newSessionService(t)

		current, err := sessions.CurrentAccount(ctx)
		require.NoError(t, err)
		require.Nil(t, current)
	})

	t.Run("expired session is cleared", func(t *testing.T) {
		sessions, accounts := newSessionService(t)
		createAccount(t, accounts, "admin@x.com", "secret-1", domain.RoleAdmin, true)

		loginAt := time.Now().Truncate(time.Second)
		clock := loginAt
		sessions.Now = func() time.Time { return clock }

		_, _, err := sessions.Login(ctx, "admin@x.com", "secret-1")
		require.NoError(t, err)

		clock = loginAt.Add(sessiontoken.DefaultLifetime - time.Second)
		current, err := sessions.CurrentAccount(ctx)
		require.NoError(t, err)
		require.NotNil(t, current)

		clock = loginAt.Add(sessiontoken.DefaultLifetime)
		current, err = sessions.CurrentAccount(ctx)
		require.NoError(t, err)
		require.Nil(t, current)

		_, err = sessions.Store.Sessions().Get(ctx)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("tampered stored token is cleared", func(t *testing.T) {
		sessions, accounts := newSessionService(t)
		created := createAccount(t, accounts, "admin@x.com", "secret-1", domain.RoleAdmin, true)

		err := sessions.Store.Sessions().Put(ctx, domain.Session{
			SubjectID: created.ID,
			Token:     "not-a-token",
			IssuedAt:  time.Now(),
			Account:   created,
		})
		require.NoError(t, err)

		current, err := sessions.CurrentAccount(ctx)
		require.NoError(t, err)
		require.Nil(t, current)

		_, err = sessions.Store.Sessions().Get(ctx)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("snapshot does not follow later profile edits", func(t *testing.T) {
		sessions, accounts := newSessionService(t)
		created := createAccount(t, accounts, "admin@x.com", "secret-1", domain.RoleAdmin, true)

		_, _, err := sessions.Login(ctx, "admin@x.com", "secret-1")
		require.NoError(t, err)

		newName := "Renamed Account"
		_, err = accounts.Update(ctx, created.ID, domain.AccountPatch{DisplayName: &newName})
		require.NoError(t, err)

		current, err := sessions.CurrentAccount(ctx)
		require.NoError(t, err)
		require.NotNil(t, current)
		require.Equal(t, "Test Account", current.DisplayName)
	})
}
