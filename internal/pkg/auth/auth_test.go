package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, CheckPassword("s3cret-pass", hash))
	assert.False(t, CheckPassword("wrong", hash))
}

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-jwt-secret-at-least-32-chars!!"
	token, err := GenerateToken(7, "admin", secret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.AdminID)
	assert.Equal(t, "admin", claims.Username)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(1, "admin", "secret-one-secret-one-secret-one", time.Hour)
	require.NoError(t, err)

	_, err = ValidateToken(token, "secret-two-secret-two-secret-two")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	secret := "test-jwt-secret-at-least-32-chars!!"
	token, err := GenerateToken(1, "admin", secret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateGarbage(t *testing.T) {
	_, err := ValidateToken("not.a.token", "whatever-secret-whatever-secret!")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
