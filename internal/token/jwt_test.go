package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokenService = NewService("test-signing-key", "test-issuer")

const (
	subject   = "jane.doe@example.com"
	role      = "USER"
	personID  = int64(7)
	companyID = int64(3)
)

var ttl = time.Hour

func Test_Issue_RoundTrip(t *testing.T) {
	tok, err := tokenService.Issue(subject, role, personID, companyID, ttl)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := tokenService.ValidateSignature(tok)
	require.NoError(t, err)
	assert.Equal(t, subject, claims.Subject)
	assert.Equal(t, role, claims.Role)
	assert.Equal(t, personID, claims.PersonID)
	assert.Equal(t, companyID, claims.CompanyID)
	assert.WithinDuration(t, time.Now().Add(ttl), claims.ExpiresAt.Time, time.Minute)
	assert.True(t, claims.ExpiresAt.Time.After(claims.IssuedAt.Time))
}

func Test_Issue_MissingSigningKey(t *testing.T) {
	svc := NewService("", "test-issuer")
	_, err := svc.Issue(subject, role, personID, companyID, ttl)
	require.Error(t, err)
}

func Test_ValidateSignature_Tampered(t *testing.T) {
	tok, err := tokenService.Issue(subject, role, personID, companyID, ttl)
	require.NoError(t, err)

	// Flip one byte of the signed payload.
	tampered := []byte(tok)
	mid := len(tampered) / 2
	if tampered[mid] == 'A' {
		tampered[mid] = 'B'
	} else {
		tampered[mid] = 'A'
	}

	_, err = tokenService.ValidateSignature(string(tampered))
	require.ErrorIs(t, err, ErrInvalidToken)
}

func Test_ValidateSignature_Malformed(t *testing.T) {
	_, err := tokenService.ValidateSignature("not-a-token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func Test_ValidateSignature_WrongKey(t *testing.T) {
	other := NewService("another-signing-key", "test-issuer")
	tok, err := other.Issue(subject, role, personID, companyID, ttl)
	require.NoError(t, err)

	_, err = tokenService.ValidateSignature(tok)
	require.ErrorIs(t, err, ErrInvalidToken)
}

// Expiry and signature validity are independent checks: an expired token
// still yields its claims, but IsValid reports false.
func Test_Expired_ClaimsStillRecoverable(t *testing.T) {
	tok, err := tokenService.Issue(subject, role, personID, companyID, -time.Hour)
	require.NoError(t, err)

	claims, err := tokenService.ValidateSignature(tok)
	require.NoError(t, err)
	assert.Equal(t, subject, claims.Subject)
	assert.True(t, tokenService.IsExpired(claims))
	assert.False(t, tokenService.IsValid(tok))
}

func Test_IsValid_ExactExpiryBoundary(t *testing.T) {
	issuedAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	now := issuedAt

	svc := NewService("test-signing-key", "test-issuer", WithClock(func() time.Time { return now }))
	tok, err := svc.Issue(subject, role, personID, companyID, time.Minute)
	require.NoError(t, err)

	// Usable while now <= expires-at, including the boundary instant.
	now = issuedAt.Add(time.Minute)
	assert.True(t, svc.IsValid(tok))

	now = issuedAt.Add(time.Minute + time.Second)
	assert.False(t, svc.IsValid(tok))
}

func Test_Refresh_ReissuesWithFreshExpiry(t *testing.T) {
	issuedAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	now := issuedAt

	svc := NewService("test-signing-key", "test-issuer", WithClock(func() time.Time { return now }))
	tok, err := svc.Issue(subject, role, personID, companyID, time.Hour)
	require.NoError(t, err)

	now = issuedAt.Add(30 * time.Minute)
	refreshed, err := svc.Refresh(tok, time.Hour)
	require.NoError(t, err)
	require.NotEqual(t, tok, refreshed)

	claims, err := svc.ValidateSignature(refreshed)
	require.NoError(t, err)
	assert.Equal(t, subject, claims.Subject)
	assert.Equal(t, role, claims.Role)
	assert.Equal(t, now, claims.IssuedAt.Time.UTC())
	assert.Equal(t, now.Add(time.Hour), claims.ExpiresAt.Time.UTC())
}

// An expired token with a verifiable signature is still refreshable; only a
// bad signature blocks refresh.
func Test_Refresh_ExpiredTokenAllowed(t *testing.T) {
	tok, err := tokenService.Issue(subject, role, personID, companyID, -time.Hour)
	require.NoError(t, err)
	require.False(t, tokenService.IsValid(tok))

	refreshed, err := tokenService.Refresh(tok, time.Hour)
	require.NoError(t, err)
	assert.True(t, tokenService.IsValid(refreshed))
}

func Test_Refresh_TamperedTokenRejected(t *testing.T) {
	_, err := tokenService.Refresh("garbage.token.value", time.Hour)
	require.ErrorIs(t, err, ErrInvalidToken)
}
