package domain

import "time"

// Account is a registered user's credential, profile, and role record.
type Account struct {
	ID          string
	Email       string // unique login key, compared case-insensitively
	SecretHash  string // argon2id encoded
	DisplayName string
	PhoneNumber string
	AvatarURL   string
	Role        Role
	IsActive    bool       // inactive accounts can never log in
	LastLoginAt *time.Time // nullable, stamped on every successful login
	CreatedAt   time.Time
}

// Sanitized returns a copy of the account with the secret hash stripped.
// Everything that leaves the service boundary goes through this.
func (a Account) Sanitized() Account {
	a.SecretHash = ""
	return a
}

// AccountPatch is a partial update. Nil fields keep their prior values.
type AccountPatch struct {
	Email       *string
	DisplayName *string
	PhoneNumber *string
	AvatarURL   *string
	Role        *Role
	IsActive    *bool
}

// IsZero reports whether the patch changes nothing.
func (p AccountPatch) IsZero() bool {
	return p.Email == nil && p.DisplayName == nil && p.PhoneNumber == nil &&
		p.AvatarURL == nil && p.Role == nil && p.IsActive == nil
}
