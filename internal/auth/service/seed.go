package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/cardiag/workshop/internal/auth/domain"
	"github.com/cardiag/workshop/internal/auth/store"
	"github.com/cardiag/workshop/pkg/cryptox"
	"github.com/cardiag/workshop/pkg/idx"
	"github.com/cardiag/workshop/pkg/slogx"
)

// SeedAccount describes one account to create when the store is empty.
type SeedAccount struct {
	Email       string
	Secret      string
	DisplayName string
	PhoneNumber string
	AvatarURL   string
	Role        domain.Role
}

// SeedService populates an empty store with an initial roster. A store
// that already holds any account is never touched.
type SeedService struct {
	Store store.Store

	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time
}

// DefaultRoster returns the demo workshop roster: one admin, one
// manager, and two technicians.
func DefaultRoster(adminSecret string) []SeedAccount {
	return []SeedAccount{
		{
			Email:       "admin@cardiag.local",
			Secret:      adminSecret,
			DisplayName: "Workshop Admin",
			PhoneNumber: "+971500000001",
			Role:        domain.RoleAdmin,
		},
		{
			Email:       "manager@cardiag.local",
			Secret:      adminSecret,
			DisplayName: "Service Manager",
			PhoneNumber: "+971500000002",
			Role:        domain.RoleManager,
		},
		{
			Email:       "tech1@cardiag.local",
			Secret:      adminSecret,
			DisplayName: "Diagnostic Technician",
			PhoneNumber: "+971500000003",
			Role:        domain.RoleTechnician,
		},
		{
			Email:       "tech2@cardiag.local",
			Secret:      adminSecret,
			DisplayName: "Electrical Technician",
			PhoneNumber: "+971500000004",
			Role:        domain.RoleTechnician,
		},
	}
}

func (s *SeedService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Seed creates the given accounts inside a single transaction. It
// returns ErrAlreadySeeded when the store is not empty, and rejects
// rosters containing unknown roles or weak secrets before writing
// anything.
func (s *SeedService) Seed(ctx context.Context, roster []SeedAccount) error {
	l := slogx.FromContext(ctx)

	empty, err := s.Store.Accounts().IsEmpty(ctx)
	if err != nil {
		return err
	}
	if !empty {
		return ErrAlreadySeeded
	}

	for _, sa := range roster {
		if !sa.Role.Valid() {
			return ErrUnknownRole
		}
		if len(sa.Secret) < MinSecretLength {
			return ErrWeakSecret
		}
	}

	now := s.now()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		// Empty check repeats under the transaction so a concurrent
		// seeder cannot slip between the check and the writes.
		empty, err := tx.Accounts().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if !empty {
			return ErrAlreadySeeded
		}

		for _, sa := range roster {
			hash, err := cryptox.HashPassword(sa.Secret)
			if err != nil {
				return err
			}
			err = tx.Accounts().Create(ctx, domain.Account{
				ID:          idx.New().String(),
				Email:       sa.Email,
				SecretHash:  hash,
				DisplayName: sa.DisplayName,
				PhoneNumber: sa.PhoneNumber,
				AvatarURL:   sa.AvatarURL,
				Role:        sa.Role,
				IsActive:    true,
				CreatedAt:   now,
			})
			if err != nil {
				l.Error("failed to seed account",
					slog.String("email", sa.Email),
					slog.Any("error", err),
				)
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.Info("store seeded", slog.Int("accounts", len(roster)))
	return nil
}
