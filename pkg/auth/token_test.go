package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farm2fork/farm2fork-backend/pkg/config"
)

func jwtTestConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "farm2fork-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := jwtTestConfig()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: userID, IsAdmin: true, JTI: "session-1"})
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "session-1", claims.ID)
	assert.Equal(t, cfg.Issuer, claims.Issuer)
}

func TestMintValidatesInputs(t *testing.T) {
	now := time.Now()
	payload := AccessTokenPayload{UserID: uuid.New()}

	_, err := MintAccessToken(config.JWTConfig{Issuer: "x", ExpirationMinutes: 5}, now, payload)
	require.Error(t, err)

	_, err = MintAccessToken(config.JWTConfig{Secret: "s", ExpirationMinutes: 5}, now, payload)
	require.Error(t, err)

	_, err = MintAccessToken(config.JWTConfig{Secret: "s", Issuer: "x"}, now, payload)
	require.Error(t, err)

	_, err = MintAccessToken(jwtTestConfig(), now, AccessTokenPayload{})
	require.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cfg := jwtTestConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New()})
	require.NoError(t, err)

	cfg.Secret = "different-secret"
	_, err = ParseAccessToken(cfg, token)
	require.Error(t, err)
}

func TestParseRejectsExpiredButAllowExpiredAccepts(t *testing.T) {
	cfg := jwtTestConfig()
	issued := time.Now().Add(-time.Hour)
	token, err := MintAccessToken(cfg, issued, AccessTokenPayload{UserID: uuid.New(), JTI: "expired-session"})
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	require.Error(t, err)

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "expired-session", claims.ID)
}
