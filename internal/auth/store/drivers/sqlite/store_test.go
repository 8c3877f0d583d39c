package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cardiag/workshop/internal/auth/domain"
	"github.com/cardiag/workshop/internal/auth/store"
	"github.com/cardiag/workshop/pkg/idx"
)

func newStore(t *testing.T) *Store {
	t.Helper()

	st, err := NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func testAccount(email string) domain.Account {
	return domain.Account{
		ID:          idx.New().String(),
		Email:       email,
		SecretHash:  "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		DisplayName: "Test",
		Role:        domain.RoleTechnician,
		IsActive:    true,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
}

func TestAccountsCRUD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		st := newStore(t)
		a := testAccount("a@x.com")
		require.NoError(t, st.Accounts().Create(ctx, a))

		got, err := st.Accounts().GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.Equal(t, a.Email, got.Email)
		require.Equal(t, a.SecretHash, got.SecretHash)
		require.Nil(t, got.LastLoginAt)

		_, err = st.Accounts().GetByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("email lookup ignores case", func(t *testing.T) {
		st := newStore(t)
		a := testAccount("Admin@X.com")
		require.NoError(t, st.Accounts().Create(ctx, a))

		got, err := st.Accounts().GetByEmail(ctx, "admin@x.com")
		require.NoError(t, err)
		require.Equal(t, a.ID, got.ID)
		require.Equal(t, "Admin@X.com", got.Email)
	})

	t.Run("unique index rejects case-variant duplicates", func(t *testing.T) {
		st := newStore(t)
		require.NoError(t, st.Accounts().Create(ctx, testAccount("b@x.com")))

		err := st.Accounts().Create(ctx, testAccount("B@X.com"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		list, err := st.Accounts().List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
	})

	t.Run("update patches only provided fields", func(t *testing.T) {
		st := newStore(t)
		a := testAccount("a@x.com")
		require.NoError(t, st.Accounts().Create(ctx, a))

		name := "Patched"
		inactive := false
		got, err := st.Accounts().Update(ctx, a.ID, domain.AccountPatch{
			DisplayName: &name,
			IsActive:    &inactive,
		})
		require.NoError(t, err)
		require.Equal(t, "Patched", got.DisplayName)
		require.False(t, got.IsActive)
		require.Equal(t, a.Email, got.Email)

		_, err = st.Accounts().Update(ctx, "missing", domain.AccountPatch{DisplayName: &name})
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete reports missing rows", func(t *testing.T) {
		st := newStore(t)
		a := testAccount("a@x.com")
		require.NoError(t, st.Accounts().Create(ctx, a))

		require.NoError(t, st.Accounts().Delete(ctx, a.ID))
		require.ErrorIs(t, st.Accounts().Delete(ctx, a.ID), store.ErrNotFound)
	})

	t.Run("touch last login round-trips", func(t *testing.T) {
		st := newStore(t)
		a := testAccount("a@x.com")
		require.NoError(t, st.Accounts().Create(ctx, a))

		at := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, st.Accounts().TouchLastLogin(ctx, a.ID, at))

		got, err := st.Accounts().GetByID(ctx, a.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastLoginAt)
		require.True(t, got.LastLoginAt.Equal(at))

		require.ErrorIs(t, st.Accounts().TouchLastLogin(ctx, "missing", at), store.ErrNotFound)
	})

	t.Run("is empty", func(t *testing.T) {
		st := newStore(t)

		empty, err := st.Accounts().IsEmpty(ctx)
		require.NoError(t, err)
		require.True(t, empty)

		require.NoError(t, st.Accounts().Create(ctx, testAccount("a@x.com")))

		empty, err = st.Accounts().IsEmpty(ctx)
		require.NoError(t, err)
		require.False(t, empty)
	})

	t.Run("list orders by creation", func(t *testing.T) {
		st := newStore(t)
		first := testAccount("a@x.com")
		first.CreatedAt = time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
		second := testAccount("b@x.com")
		require.NoError(t, st.Accounts().Create(ctx, first))
		require.NoError(t, st.Accounts().Create(ctx, second))

		list, err := st.Accounts().List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, first.ID, list[0].ID)
	})
}

func TestSessionsSingleSlot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	st := newStore(t)

	_, err := st.Sessions().Get(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Clearing an empty slot is a no-op.
	require.NoError(t, st.Sessions().Clear(ctx))

	issued := time.Now().UTC().Truncate(time.Second)
	first := domain.Session{
		SubjectID: "subj-1",
		Token:     "token-1",
		IssuedAt:  issued,
		Account:   testAccount("a@x.com").Sanitized(),
	}
	require.NoError(t, st.Sessions().Put(ctx, first))

	got, err := st.Sessions().Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "subj-1", got.SubjectID)
	require.Equal(t, "token-1", got.Token)
	require.True(t, got.IssuedAt.Equal(issued))
	require.Equal(t, first.Account.Email, got.Account.Email)
	require.Empty(t, got.Account.SecretHash)

	// A second Put replaces the slot rather than adding a row.
	second := first
	second.SubjectID = "subj-2"
	second.Token = "token-2"
	require.NoError(t, st.Sessions().Put(ctx, second))

	got, err = st.Sessions().Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "subj-2", got.SubjectID)

	require.NoError(t, st.Sessions().Clear(ctx))
	_, err = st.Sessions().Get(ctx)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTx(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("commit on success", func(t *testing.T) {
		st := newStore(t)
		a := testAccount("a@x.com")

		err := st.WithTx(ctx, func(tx store.Tx) error {
			return tx.Accounts().Create(ctx, a)
		})
		require.NoError(t, err)

		_, err = st.Accounts().GetByID(ctx, a.ID)
		require.NoError(t, err)
	})

	t.Run("rollback on error", func(t *testing.T) {
		st := newStore(t)
		a := testAccount("a@x.com")
		boom := errors.New("boom")

		err := st.WithTx(ctx, func(tx store.Tx) error {
			if err := tx.Accounts().Create(ctx, a); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = st.Accounts().GetByID(ctx, a.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}
