package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test_secret_key_1234567890"
	testIssuer   = "subtracker"
	testAudience = "subtracker-clients"
)

func TestMaker_IssueAndParseToken_ValidCases(t *testing.T) {
	tokenTTL := 15 * time.Minute
	maker := NewMaker(testSecret, testIssuer, testAudience, tokenTTL)

	tests := []struct {
		name     string
		username string
		userUID  string
	}{
		{
			name:     "regular user",
			username: "regular_user",
			userUID:  "5f7c2a0e-0000-4000-8000-000000000001",
		},
		{
			name:     "user with email username",
			username: "user@domain.com",
			userUID:  "5f7c2a0e-0000-4000-8000-000000000002",
		},
		{
			name:     "user with numbers in username",
			username: "user123",
			userUID:  "5f7c2a0e-0000-4000-8000-000000000003",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.IssueToken(tt.username, tt.userUID)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)

			assert.Equal(t, tt.username, claims.Username)
			assert.Equal(t, tt.username, claims.Subject)
			assert.Equal(t, tt.userUID, claims.UserUID)
			assert.Equal(t, testIssuer, claims.Issuer)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestMaker_ParseToken_InvalidTokens(t *testing.T) {
	tokenTTL := 15 * time.Minute
	maker := NewMaker(testSecret, testIssuer, testAudience, tokenTTL)

	validToken, err := maker.IssueToken("testuser", "uid-1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "malformed token",
			token: "invalid.token.here",
		},
		{
			name:  "expired token",
			token: createExpiredToken(t),
		},
		{
			name:  "wrong secret key",
			token: createTokenWithWrongSecret(t),
		},
		{
			name:  "wrong issuer",
			token: createTokenWithIssuer(t, "someone-else"),
		},
		{
			name:  "wrong audience",
			token: createTokenWithAudience(t, "other-clients"),
		},
		{
			name:  "tampered token",
			token: validToken + "tampered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := maker.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestMaker_DifferentSecretKeys(t *testing.T) {
	maker1 := NewMaker("first_secret_key", testIssuer, testAudience, 15*time.Minute)
	maker2 := NewMaker("different_secret_key", testIssuer, testAudience, 15*time.Minute)

	token, err := maker1.IssueToken("testuser", "uid-1")
	require.NoError(t, err)

	claims, err := maker2.ParseToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)

	claims, err = maker1.ParseToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
}

func TestMaker_TokenExpiration(t *testing.T) {
	// Клеймы exp/iat хранятся с точностью до секунды, поэтому TTL короче
	// секунды истекает уже на момент выпуска.
	shortTTL := 2 * time.Second
	maker := NewMaker(testSecret, testIssuer, testAudience, shortTTL)

	token, err := maker.IssueToken("testuser", "uid-1")
	require.NoError(t, err)

	claims, err := maker.ParseToken(token)
	require.NoError(t, err)
	assert.NotNil(t, claims)

	time.Sleep(3 * time.Second)

	_, err = maker.ParseToken(token)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}

func createExpiredToken(t *testing.T) string {
	maker := NewMaker(testSecret, testIssuer, testAudience, -time.Hour)
	token, err := maker.IssueToken("testuser", "uid-1")
	require.NoError(t, err)
	return token
}

func createTokenWithWrongSecret(t *testing.T) string {
	wrongMaker := NewMaker("wrong_secret_key", testIssuer, testAudience, 15*time.Minute)
	token, err := wrongMaker.IssueToken("testuser", "uid-1")
	require.NoError(t, err)
	return token
}

func createTokenWithIssuer(t *testing.T, issuer string) string {
	maker := NewMaker(testSecret, issuer, testAudience, 15*time.Minute)
	token, err := maker.IssueToken("testuser", "uid-1")
	require.NoError(t, err)
	return token
}

func createTokenWithAudience(t *testing.T, audience string) string {
	maker := NewMaker(testSecret, testIssuer, audience, 15*time.Minute)
	token, err := maker.IssueToken("testuser", "uid-1")
	require.NoError(t, err)
	return token
}
