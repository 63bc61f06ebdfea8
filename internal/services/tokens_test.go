package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenService() TokenService {
	return TokenService{
		Secret: []byte("test-secret"),
		Issuer: "village-records",
		TTL:    24 * time.Hour,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tokens := testTokenService()
	signed, exp, err := tokens.CreateToken("admin")
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Add(23*time.Hour).Unix())

	username, err := tokens.VerifyAdminToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
}

func TestVerifyAdminTokenRejectsBadSecret(t *testing.T) {
	signed, _, err := testTokenService().CreateToken("admin")
	require.NoError(t, err)

	other := testTokenService()
	other.Secret = []byte("different-secret")
	_, err = other.VerifyAdminToken(signed)
	assert.Error(t, err)
}

func TestVerifyAdminTokenRejectsWrongIssuer(t *testing.T) {
	minter := testTokenService()
	minter.Issuer = "someone-else"
	signed, _, err := minter.CreateToken("admin")
	require.NoError(t, err)

	_, err = testTokenService().VerifyAdminToken(signed)
	assert.Error(t, err)
}

func TestVerifyAdminTokenRejectsGarbage(t *testing.T) {
	_, err := testTokenService().VerifyAdminToken("not-a-token")
	assert.Error(t, err)
}

func TestVerifyPasswordDevFallback(t *testing.T) {
	tokens := testTokenService()
	assert.True(t, tokens.VerifyPassword("admin123", "", "admin123"))
	assert.False(t, tokens.VerifyPassword("wrong", "", "admin123"))
	assert.False(t, tokens.VerifyPassword("anything", "", ""))
}

func TestVerifyPasswordArgon2id(t *testing.T) {
	tokens := testTokenService()
	hash, err := tokens.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.True(t, tokens.VerifyPassword("s3cret-pass", hash, ""))
	assert.False(t, tokens.VerifyPassword("wrong-pass", hash, ""))
}
