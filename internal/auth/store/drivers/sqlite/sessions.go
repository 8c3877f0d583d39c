package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cardiag/workshop/internal/auth/domain"
)

type sessionsRepo struct {
	db dbtx
}

// sessionAccount is the JSON shape of the account snapshot stored alongside
// the token. The secret hash is never part of it.
type sessionAccount struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"display_name"`
	PhoneNumber string      `json:"phone_number,omitempty"`
	AvatarURL   string      `json:"avatar_url,omitempty"`
	Role        domain.Role `json:"role"`
	IsActive    bool        `json:"is_active"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (r *sessionsRepo) Put(ctx context.Context, s domain.Session) error {
	snap, err := json.Marshal(sessionAccount{
		ID:          s.Account.ID,
		Email:       s.Account.Email,
		DisplayName: s.Account.DisplayName,
		PhoneNumber: s.Account.PhoneNumber,
		AvatarURL:   s.Account.AvatarURL,
		Role:        s.Account.Role,
		IsActive:    s.Account.IsActive,
		LastLoginAt: s.Account.LastLoginAt,
		CreatedAt:   s.Account.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal session account: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO current_session (slot, subject_id, token, issued_at, account_json)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT (slot) DO UPDATE SET
		   subject_id = excluded.subject_id,
		   token = excluded.token,
		   issued_at = excluded.issued_at,
		   account_json = excluded.account_json`,
		s.SubjectID, s.Token, s.IssuedAt, string(snap),
	)
	return err
}

func (r *sessionsRepo) Get(ctx context.Context) (domain.Session, error) {
	var (
		s    domain.Session
		snap string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT subject_id, token, issued_at, account_json FROM current_session WHERE slot = 1`,
	).Scan(&s.SubjectID, &s.Token, &s.IssuedAt, &snap)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}

	var acct sessionAccount
	if err := json.Unmarshal([]byte(snap), &acct); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal session account: %w", err)
	}
	s.Account = domain.Account{
		ID:          acct.ID,
		Email:       acct.Email,
		DisplayName: acct.DisplayName,
		PhoneNumber: acct.PhoneNumber,
		AvatarURL:   acct.AvatarURL,
		Role:        acct.Role,
		IsActive:    acct.IsActive,
		LastLoginAt: acct.LastLoginAt,
		CreatedAt:   acct.CreatedAt,
	}
	return s, nil
}

func (r *sessionsRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM current_session WHERE slot = 1`)
	return err
}
