// Package sessiontoken issues and validates the bearer token that represents
// a login session. The token is an HS256-signed JWT binding a subject id to
// its issuance time; expiry is a pure function of issuance time and the
// configured lifetime rather than an embedded exp claim, so the same issued
// token can be re-evaluated against any clock.
package sessiontoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLifetime is how long a session stays valid after issuance.
const DefaultLifetime = 7 * 24 * time.Hour

// ErrMalformed reports a token that failed to decode or verify. Callers are
// expected to treat it the same as "no session"; the error never reveals
// whether the token was tampered with, mis-signed, or simply garbage.
var ErrMalformed = errors.New("sessiontoken: malformed token")

type Codec struct {
	secret   []byte
	issuer   string
	lifetime time.Duration
}

// NewCodec builds a codec signing with secret. A non-positive lifetime
// falls back to DefaultLifetime.
func NewCodec(secret []byte, issuer string, lifetime time.Duration) *Codec {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Codec{secret: secret, issuer: issuer, lifetime: lifetime}
}

func (c *Codec) Lifetime() time.Duration { return c.lifetime }

// Issue signs a token for subjectID issued at issuedAt. The issuance time
// round-trips through Parse at second precision (JWT iat semantics).
func (c *Codec) Issue(subjectID string, issuedAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  subjectID,
		Issuer:   c.issuer,
		IssuedAt: jwt.NewNumericDate(issuedAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Parse verifies the signature and decodes the (subjectID, issuedAt) pair.
// Any structural or signature failure is reported as ErrMalformed.
func (c *Codec) Parse(token string) (subjectID string, issuedAt time.Time, err error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	var claims jwt.RegisteredClaims
	parsed, parseErr := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if parseErr != nil || !parsed.Valid {
		return "", time.Time{}, ErrMalformed
	}
	if claims.Subject == "" || claims.IssuedAt == nil {
		return "", time.Time{}, ErrMalformed
	}
	return claims.Subject, claims.IssuedAt.Time, nil
}

// Expired reports whether a token issued at issuedAt is past its lifetime as
// of now. The boundary is inclusive: at exactly issuedAt+lifetime the token
// is expired. For a fixed issuance time the result is monotonically
// non-decreasing in now.
func (c *Codec) Expired(issuedAt, now time.Time) bool {
	return now.Sub(issuedAt) >= c.lifetime
}
