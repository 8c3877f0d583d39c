package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cardiag/workshop/internal/auth/domain"
	"github.com/cardiag/workshop/internal/auth/metrics"
	"github.com/cardiag/workshop/internal/auth/store"
	"github.com/cardiag/workshop/pkg/cryptox"
	"github.com/cardiag/workshop/pkg/idx"
	"github.com/cardiag/workshop/pkg/slogx"
)

// MinSecretLength is the minimum accepted secret length, in bytes.
const MinSecretLength = 6

// NewAccount carries the fields needed to create an account.
type NewAccount struct {
	Email       string
	Secret      string
	DisplayName string
	PhoneNumber string
	AvatarURL   string
	Role        domain.Role
	IsActive    bool
}

// AccountService implements administrative account management. All
// mutations that involve a uniqueness check run inside a store
// transaction so two concurrent admins cannot race past each other.
type AccountService struct {
	Store store.Store

	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create inserts a new account with a freshly hashed secret and returns
// its sanitized form.
func (s *AccountService) Create(ctx context.Context, in NewAccount) (domain.Account, error) {
	if !in.Role.Valid() {
		return domain.Account{}, ErrUnknownRole
	}
	if len(in.Secret) < MinSecretLength {
		return domain.Account{}, ErrWeakSecret
	}

	hash, err := cryptox.HashPassword(in.Secret)
	if err != nil {
		return domain.Account{}, err
	}

	acct := domain.Account{
		ID:          idx.New().String(),
		Email:       strings.TrimSpace(in.Email),
		SecretHash:  hash,
		DisplayName: in.DisplayName,
		PhoneNumber: in.PhoneNumber,
		AvatarURL:   in.AvatarURL,
		Role:        in.Role,
		IsActive:    in.IsActive,
		CreatedAt:   s.now(),
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		_, err := tx.Accounts().GetByEmail(ctx, acct.Email)
		if err == nil {
			return ErrEmailTaken
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return tx.Accounts().Create(ctx, acct)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, ErrEmailTaken
		}
		return domain.Account{}, err
	}

	metrics.AccountMutations.WithLabelValues("create").Inc()
	slogx.FromContext(ctx).Info("account created", "account_id", acct.ID, "role", acct.Role)
	return acct.Sanitized(), nil
}

// Update applies the non-nil fields of the patch and returns the
// updated sanitized account.
func (s *AccountService) Update(ctx context.Context, id string, patch domain.AccountPatch) (domain.Account, error) {
	if patch.IsZero() {
		return domain.Account{}, ErrEmptyPatch
	}
	if patch.Role != nil && !patch.Role.Valid() {
		return domain.Account{}, ErrUnknownRole
	}
	if patch.Email != nil {
		trimmed := strings.TrimSpace(*patch.Email)
		patch.Email = &trimmed
	}

	var updated domain.Account
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if patch.Email != nil {
			other, err := tx.Accounts().GetByEmail(ctx, *patch.Email)
			if err == nil && other.ID != id {
				return ErrEmailTaken
			}
			if err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
		}
		var err error
		updated, err = tx.Accounts().Update(ctx, id, patch)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return domain.Account{}, ErrAccountNotFound
		case errors.Is(err, store.ErrAlreadyExists):
			return domain.Account{}, ErrEmailTaken
		}
		return domain.Account{}, err
	}

	metrics.AccountMutations.WithLabelValues("update").Inc()
	return updated.Sanitized(), nil
}

// Delete removes an account. An admin cannot delete their own account.
func (s *AccountService) Delete(ctx context.Context, id, callerID string) error {
	if id == callerID {
		return ErrSelfDeletion
	}
	if err := s.Store.Accounts().Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	metrics.AccountMutations.WithLabelValues("delete").Inc()
	slogx.FromContext(ctx).Info("account deleted", "account_id", id)
	return nil
}

// ChangePassword rotates an account's secret after verifying the old
// one. The open session, if any, stays valid.
func (s *AccountService) ChangePassword(ctx context.Context, id, oldSecret, newSecret string) error {
	acct, err := s.Store.Accounts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	if err := cryptox.VerifyPassword(oldSecret, acct.SecretHash); err != nil {
		return ErrInvalidCredentials
	}
	if len(newSecret) < MinSecretLength {
		return ErrWeakSecret
	}

	hash, err := cryptox.HashPassword(newSecret)
	if err != nil {
		return err
	}
	if err := s.Store.Accounts().UpdateSecretHash(ctx, id, hash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	metrics.AccountMutations.WithLabelValues("change_password").Inc()
	slogx.FromContext(ctx).Info("password changed", "account_id", id)
	return nil
}

// Get returns a single sanitized account.
func (s *AccountService) Get(ctx context.Context, id string) (domain.Account, error) {
	acct, err := s.Store.Accounts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	return acct.Sanitized(), nil
}

// List returns every account, sanitized, ordered by creation time.
func (s *AccountService) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.Store.Accounts().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, a.Sanitized())
	}
	return out, nil
}
