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
	"github.com/cardiag/workshop/pkg/sessiontoken"
	"github.com/cardiag/workshop/pkg/slogx"
)

// SessionService owns the single workstation session: credential
// verification, token issuance, and the current-session slot.
type SessionService struct {
	Store  store.Store
	Tokens *sessiontoken.Codec

	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Login verifies the email/secret pair, stamps the account's last login,
// issues a session token, and overwrites the current-session slot. The
// returned account is the sanitized snapshot stored with the session.
func (s *SessionService) Login(ctx context.Context, email, secret string) (domain.Account, string, error) {
	log := slogx.FromContext(ctx)

	acct, err := s.Store.Accounts().GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.LoginAttempts.WithLabelValues("invalid").Inc()
			return domain.Account{}, "", ErrInvalidCredentials
		}
		return domain.Account{}, "", err
	}

	if err := cryptox.VerifyPassword(secret, acct.SecretHash); err != nil {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return domain.Account{}, "", ErrInvalidCredentials
	}

	// Inactive is only reported once the credentials matched.
	if !acct.IsActive {
		metrics.LoginAttempts.WithLabelValues("inactive").Inc()
		return domain.Account{}, "", ErrAccountInactive
	}

	now := s.now()
	token, err := s.Tokens.Issue(acct.ID, now)
	if err != nil {
		return domain.Account{}, "", err
	}

	snapshot := acct.Sanitized()
	snapshot.LastLoginAt = &now

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Accounts().TouchLastLogin(ctx, acct.ID, now); err != nil {
			return err
		}
		return tx.Sessions().Put(ctx, domain.Session{
			SubjectID: acct.ID,
			Token:     token,
			IssuedAt:  now,
			Account:   snapshot,
		})
	})
	if err != nil {
		return domain.Account{}, "", err
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	log.Info("session opened", "account_id", acct.ID, "role", acct.Role)
	return snapshot, token, nil
}

// Logout clears the current-session slot. Clearing an empty slot is not
// an error.
func (s *SessionService) Logout(ctx context.Context) error {
	return s.Store.Sessions().Clear(ctx)
}

// CurrentAccount returns the account snapshot captured at login, or
// (nil, nil) when no valid session exists. A stored session whose token
// fails to parse, names a different subject, or has aged past its
// lifetime is cleared on the way out.
func (s *SessionService) CurrentAccount(ctx context.Context) (*domain.Account, error) {
	sess, err := s.Store.Sessions().Get(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	subject, issuedAt, err := s.Tokens.Parse(sess.Token)
	if err != nil || subject != sess.SubjectID {
		return nil, s.discard(ctx, "malformed")
	}
	if s.Tokens.Expired(issuedAt, s.now()) {
		return nil, s.discard(ctx, "expired")
	}

	acct := sess.Account
	return &acct, nil
}

func (s *SessionService) discard(ctx context.Context, reason string) error {
	if err := s.Store.Sessions().Clear(ctx); err != nil {
		return err
	}
	metrics.SessionsDiscarded.WithLabelValues(reason).Inc()
	slogx.FromContext(ctx).Info("stored session discarded", "reason", reason)
	return nil
}
