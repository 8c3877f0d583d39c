package sessiontoken_test

import (
	"strings"
	"testing"
	"time"

	"github.com/cardiag/workshop/pkg/sessiontoken"
	"github.com/stretchr/testify/require"
)

func newTestCodec() *sessiontoken.Codec {
	return sessiontoken.NewCodec([]byte("test-secret"), "workshop-auth", 0)
}

func TestIssueParseRoundTrip(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	issuedAt := time.Unix(1717000000, 0)

	token, err := codec.Issue("01J8ACCOUNTID", issuedAt)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, parsedAt, err := codec.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "01J8ACCOUNTID", subject)
	require.True(t, parsedAt.Equal(issuedAt))
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()

	for _, token := range []string{
		"",
		"not-a-token",
		"a.b.c",
		"eyJhbGciOiJIUzI1NiJ9.e30.",
	} {
		_, _, err := codec.Parse(token)
		require.ErrorIs(t, err, sessiontoken.ErrMalformed, "token %q", token)
	}
}

func TestParseRejectsTampering(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	token, err := codec.Issue("subject-1", time.Unix(1717000000, 0))
	require.NoError(t, err)

	// Flip a character in the payload segment; the signature no longer matches.
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, _, parseErr := codec.Parse(tampered)
	require.ErrorIs(t, parseErr, sessiontoken.ErrMalformed)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	t.Parallel()

	other := sessiontoken.NewCodec([]byte("other-secret"), "workshop-auth", 0)
	token, err := other.Issue("subject-1", time.Unix(1717000000, 0))
	require.NoError(t, err)

	_, _, parseErr := newTestCodec().Parse(token)
	require.ErrorIs(t, parseErr, sessiontoken.ErrMalformed)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	other := sessiontoken.NewCodec([]byte("test-secret"), "someone-else", 0)
	token, err := other.Issue("subject-1", time.Unix(1717000000, 0))
	require.NoError(t, err)

	_, _, parseErr := newTestCodec().Parse(token)
	require.ErrorIs(t, parseErr, sessiontoken.ErrMalformed)
}

func TestExpiredBoundary(t *testing.T) {
	t.Parallel()

	codec := newTestCodec()
	require.Equal(t, 7*24*time.Hour, codec.Lifetime())

	issuedAt := time.Unix(1717000000, 0)

	require.False(t, codec.Expired(issuedAt, issuedAt))
	require.False(t, codec.Expired(issuedAt, issuedAt.Add(7*24*time.Hour-time.Second)))
	require.True(t, codec.Expired(issuedAt, issuedAt.Add(7*24*time.Hour)))
	require.True(t, codec.Expired(issuedAt, issuedAt.Add(30*24*time.Hour)))
}

func TestExpiredMonotonicInNow(t *testing.T) {
	t.Parallel()

	codec := sessiontoken.NewCodec([]byte("k"), "", time.Hour)
	issuedAt := time.Unix(1717000000, 0)

	expired := false
	for offset := time.Duration(0); offset <= 2*time.Hour; offset += 10 * time.Minute {
		now := issuedAt.Add(offset)
		if codec.Expired(issuedAt, now) {
			expired = true
		} else {
			require.False(t, expired, "expiry must not flip back at offset %s", offset)
		}
	}
	require.True(t, expired)
}
