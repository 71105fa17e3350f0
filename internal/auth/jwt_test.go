package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoberSamy04/natours/internal/config"
)

func setTestConfig(t *testing.T, ttlMinutes int) {
	t.Helper()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-for-signing"
	cfg.JWT.TTL = ttlMinutes
	config.AppConfig = cfg
}

func TestSignAndParseToken(t *testing.T) {
	setTestConfig(t, 60)

	token, err := SignToken("64f1b2c3d4e5f60718293a4b")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64f1b2c3d4e5f60718293a4b", claims.Subject)

	// exp должен лежать в окне TTL
	assert.WithinDuration(t, time.Now().Add(60*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, 5*time.Second)
}

func TestParseToken_WrongSecret(t *testing.T) {
	setTestConfig(t, 60)
	token, err := SignToken("abc")
	require.NoError(t, err)

	config.AppConfig.JWT.Secret = "another-secret"
	_, err = ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrSignatureInvalid)
}

func TestParseToken_Expired(t *testing.T) {
	setTestConfig(t, -1)
	token, err := SignToken("abc")
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseToken_Malformed(t *testing.T) {
	setTestConfig(t, 60)
	_, err := ParseToken("not.a.token")
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("pass1234")
	require.NoError(t, err)
	assert.NotEqual(t, "pass1234", hash)

	assert.True(t, CheckPasswordHash("pass1234", hash))
	assert.False(t, CheckPasswordHash("wrongpass", hash))
}
