package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/example/shopmate/pkg/config"
	"github.com/example/shopmate/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{
		ID:       "user-1",
		Name:     "Alice",
		Email:    "alice@example.com",
		IsAdmin:  true,
		IsSeller: false,
	}
}

func TestIssueAndVerify(t *testing.T) {
	tokens := NewTokens(&config.AuthConfig{Secret: "test-secret", TokenTTL: time.Hour})

	token, err := tokens.Issue(testUser())
	require.NoError(t, err)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Alice", claims.Name)
	assert.True(t, claims.IsAdmin)
	assert.False(t, claims.IsSeller)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	tokens := NewTokens(&config.AuthConfig{Secret: "test-secret", TokenTTL: time.Hour})

	token, err := tokens.Issue(testUser())
	require.NoError(t, err)

	encoded, signature, ok := strings.Cut(token, ".")
	require.True(t, ok)

	_, err = tokens.Verify(encoded + "x." + signature)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	issuer := NewTokens(&config.AuthConfig{Secret: "secret-a", TokenTTL: time.Hour})
	verifier := NewTokens(&config.AuthConfig{Secret: "secret-b", TokenTTL: time.Hour})

	token, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tokens := NewTokens(&config.AuthConfig{Secret: "test-secret", TokenTTL: time.Hour})

	payload, err := json.Marshal(Claims{
		UserID:    "user-1",
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	})
	require.NoError(t, err)
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	token := encoded + "." + tokens.sign(encoded)

	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
