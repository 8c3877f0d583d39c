package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/cardiag/workshop/internal/auth/domain"
	"github.com/cardiag/workshop/internal/auth/store"
)

type accountsRepo struct {
	db dbtx
}

const accountColumns = `id, email, secret_hash, display_name, phone_number, avatar_url, role, is_active, last_login_at, created_at`

func (r *accountsRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

func (r *accountsRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	// The email column is COLLATE NOCASE, so equality here is case-insensitive.
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	return scanAccount(row)
}

func (r *accountsRepo) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *accountsRepo) Create(ctx context.Context, a domain.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, email, secret_hash, display_name, phone_number, avatar_url, role, is_active, last_login_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.SecretHash, a.DisplayName, a.PhoneNumber, a.AvatarURL,
		string(a.Role), a.IsActive, nullTime(a.LastLoginAt), a.CreatedAt,
	)
	return mapConstraint(err)
}

func (r *accountsRepo) Update(ctx context.Context, id string, patch domain.AccountPatch) (domain.Account, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return domain.Account{}, err
	}

	if patch.Email != nil {
		current.Email = *patch.Email
	}
	if patch.DisplayName != nil {
		current.DisplayName = *patch.DisplayName
	}
	if patch.PhoneNumber != nil {
		current.PhoneNumber = *patch.PhoneNumber
	}
	if patch.AvatarURL != nil {
		current.AvatarURL = *patch.AvatarURL
	}
	if patch.Role != nil {
		current.Role = *patch.Role
	}
	if patch.IsActive != nil {
		current.IsActive = *patch.IsActive
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE accounts
		 SET email = ?, display_name = ?, phone_number = ?, avatar_url = ?, role = ?, is_active = ?
		 WHERE id = ?`,
		current.Email, current.DisplayName, current.PhoneNumber, current.AvatarURL,
		string(current.Role), current.IsActive, id,
	)
	if err != nil {
		return domain.Account{}, mapConstraint(err)
	}
	return current, nil
}

func (r *accountsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) UpdateSecretHash(ctx context.Context, id string, newHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET secret_hash = ? WHERE id = ?`, newHash, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET last_login_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *accountsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (domain.Account, error) {
	var (
		a         domain.Account
		role      string
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&a.ID, &a.Email, &a.SecretHash, &a.DisplayName, &a.PhoneNumber,
		&a.AvatarURL, &role, &a.IsActive, &lastLogin, &a.CreatedAt,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	a.Role = domain.Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		a.LastLoginAt = &t
	}
	return a, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
