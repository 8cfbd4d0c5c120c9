package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	raw, err := issuer.Issue("user-1", false)
	require.NoError(t, err)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.False(t, claims.Admin)
}

func TestParse_AdminClaimSurvivesRoundTrip(t *testing.T) {
	issuer := NewIssuer("secret", time.Hour)

	raw, err := issuer.Issue("admin-1", true)
	require.NoError(t, err)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.True(t, claims.Admin)
}

func TestParse_RejectsWrongSecret(t *testing.T) {
	raw, err := NewIssuer("secret-a", time.Hour).Issue("user-1", false)
	require.NoError(t, err)

	_, err = NewIssuer("secret-b", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_RejectsExpiredToken(t *testing.T) {
	raw, err := NewIssuer("secret", -time.Minute).Issue("user-1", false)
	require.NoError(t, err)

	_, err = NewIssuer("secret", -time.Minute).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_RejectsGarbage(t *testing.T) {
	_, err := NewIssuer("secret", time.Hour).Parse("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
