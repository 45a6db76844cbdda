package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueParseRoundTrip(t *testing.T) {
	svc := New("test-secret", time.Hour)

	token, err := svc.Issue(42, "owner")
	require.NoError(t, err)

	claims, err := svc.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "owner", claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "rentlens", claims.Issuer)
}

func TestParseExpiredToken(t *testing.T) {
	svc := New("test-secret", -time.Minute)

	token, err := svc.Issue(1, "renter")
	require.NoError(t, err)

	_, err = svc.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseWrongSecret(t *testing.T) {
	token, err := New("secret-a", time.Hour).Issue(1, "renter")
	require.NoError(t, err)

	_, err = New("secret-b", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseGarbage(t *testing.T) {
	_, err := New("test-secret", time.Hour).Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
