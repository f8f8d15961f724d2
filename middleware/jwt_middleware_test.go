package middleware

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := GenerateJWT("64f000000000000000000001", 424242, "owner")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "64f000000000000000000001", claims.UserID)
	assert.Equal(t, int64(424242), claims.TelegramID)
	assert.Equal(t, "owner", claims.Role)
	assert.Greater(t, claims.ExpiresAt, time.Now().Unix())
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateJWT("64f000000000000000000001", 424242, "owner")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "another-secret")
	_, err = ParseJWT(token)
	assert.Error(t, err)
}

func TestParseJWTRejectsBlacklistedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateJWT("64f000000000000000000002", 99, "owner")
	require.NoError(t, err)

	BlacklistToken(token, time.Now().Add(time.Hour))
	_, err = ParseJWT(token)
	assert.Error(t, err)
}

func TestBlacklistConcurrentAccess(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			token := fmt.Sprintf("token-%d", n)
			BlacklistToken(token, time.Now().Add(time.Hour))
			IsTokenBlacklisted(token)
			purgeExpiredTokens(time.Now())
		}(i)
	}
	wg.Wait()
}

func TestPurgeExpiredTokens(t *testing.T) {
	BlacklistToken("stale-token", time.Now().Add(-time.Minute))
	BlacklistToken("live-token", time.Now().Add(time.Hour))

	purgeExpiredTokens(time.Now())

	assert.False(t, IsTokenBlacklisted("stale-token"))
	assert.True(t, IsTokenBlacklisted("live-token"))
}

func TestClaimsValid(t *testing.T) {
	claims := JwtCustomClaims{}
	claims.ExpiresAt = time.Now().Add(-time.Minute).Unix()
	assert.Error(t, claims.Valid())

	claims.ExpiresAt = time.Now().Add(time.Hour).Unix()
	assert.NoError(t, claims.Valid())
}
