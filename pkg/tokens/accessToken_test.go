package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-jwt-secret")

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(15 * time.Minute)
	tok, err := NewAccessToken(42, "customer", exp, testSecret)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "customer", claims.Role)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestAccessToken_Expired(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken(1, "customer", time.Now().Add(-time.Minute), testSecret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, testSecret)
	require.Error(t, err)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken(1, "customer", time.Now().Add(time.Minute), testSecret)
	require.NoError(t, err)

	_, err = AccessClaimsFromToken(tok, []byte("other"))
	require.Error(t, err)
}

func TestAccessClaims_UserID_Invalid(t *testing.T) {
	t.Parallel()

	for _, sub := range []string{"", "0", "abc", "-3"} {
		c := &AccessClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: sub}}
		_, err := c.UserID()
		assert.Error(t, err, sub)
	}
}
