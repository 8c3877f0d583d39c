package store

import (
	"context"
	"errors"
	"time"

	"github.com/cardiag/workshop/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. Sub-repositories keep concerns tidy and testable.
type Store interface {
	Accounts() Accounts
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for check-then-write operations that must be atomic, such as
	// email-uniqueness checks followed by an insert. The caller MUST call
	// Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Accounts is the credential store: the authoritative account list.
// Email lookups and uniqueness are case-insensitive. Secret verification is
// not done here; the service layer compares argon2id hashes.
type Accounts interface {
	// GetByID returns an account by id.
	GetByID(ctx context.Context, id string) (domain.Account, error)

	// GetByEmail returns an account by email, matched case-insensitively.
	GetByEmail(ctx context.Context, email string) (domain.Account, error)

	// List returns a snapshot of all accounts ordered by creation date.
	List(ctx context.Context) ([]domain.Account, error)

	// Create inserts a new account (id assigned by the caller via ULID).
	// Returns ErrAlreadyExists when the email collides case-insensitively.
	Create(ctx context.Context, a domain.Account) error

	// Update applies the non-nil patch fields and returns the updated
	// account. Returns ErrNotFound when no such id exists and
	// ErrAlreadyExists when an email patch collides.
	Update(ctx context.Context, id string, patch domain.AccountPatch) (domain.Account, error)

	// Delete removes an account. Returns ErrNotFound when absent.
	Delete(ctx context.Context, id string) error

	// UpdateSecretHash overwrites the stored argon2id hash.
	UpdateSecretHash(ctx context.Context, id string, newHash string) error

	// TouchLastLogin stamps last_login_at on successful login.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	// IsEmpty reports whether there are no accounts (seed guard).
	IsEmpty(ctx context.Context) (bool, error)
}

// Sessions is the single-slot persistence for the current session. At most
// one row exists; Put replaces any prior session.
type Sessions interface {
	// Put stores s as the current session, replacing a prior one.
	Put(ctx context.Context, s domain.Session) error

	// Get returns the current session, or ErrNotFound when logged out.
	Get(ctx context.Context) (domain.Session, error)

	// Clear removes the current session. Clearing an empty slot is a no-op.
	Clear(ctx context.Context) error
}
