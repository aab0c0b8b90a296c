package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT("secret", time.Hour, 42)
	require.NoError(t, err)

	claims, err := ParseJWT("secret", token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.ID)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)

	_, err = ParseJWT("other", token)
	assert.Error(t, err)
}

func TestGenerateJWTRequiresSecret(t *testing.T) {
	_, err := GenerateJWT("", time.Hour, 1)
	assert.Error(t, err)
}

func TestParseJWTRejectsExpiredAndForeignTokens(t *testing.T) {
	expired, err := GenerateJWT("secret", -time.Minute, 1)
	require.NoError(t, err)
	_, err = ParseJWT("secret", expired)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, TokenClaims{ID: 1})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseJWT("secret", unsigned)
	assert.Error(t, err)

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{})
	signed, err := noUser.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = ParseJWT("secret", signed)
	assert.Error(t, err)
}
