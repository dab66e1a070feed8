package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tokenSecret = "wishwall-jwt-test-secret"

func issueTestPair(t *testing.T, userID uint, email, role string) *TokenPair {
	t.Helper()
	pair, err := GenerateTokenPair(userID, email, role, tokenSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return pair
}

func TestGenerateTokenPair(t *testing.T) {
	pair := issueTestPair(t, 7, "wisher@example.com", "user")

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
}

func TestValidateToken_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		userID uint
		email  string
		role   string
	}{
		{"regular account", 7, "wisher@example.com", "user"},
		{"admin account", 1, "board-admin@example.com", "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair := issueTestPair(t, tt.userID, tt.email, tt.role)

			for _, token := range []string{pair.AccessToken, pair.RefreshToken} {
				claims, err := ValidateToken(token, tokenSecret)
				require.NoError(t, err)
				assert.Equal(t, tt.userID, claims.UserID)
				assert.Equal(t, tt.email, claims.Email)
				assert.Equal(t, tt.role, claims.Role)
				assert.NotNil(t, claims.ExpiresAt)
				assert.NotNil(t, claims.IssuedAt)
			}
		})
	}
}

func TestValidateToken_RefreshOutlivesAccess(t *testing.T) {
	pair, err := GenerateTokenPair(7, "wisher@example.com", "user", tokenSecret, 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	access, err := ValidateToken(pair.AccessToken, tokenSecret)
	require.NoError(t, err)
	refresh, err := ValidateToken(pair.RefreshToken, tokenSecret)
	require.NoError(t, err)

	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt.Time))
}

func TestValidateToken_Rejections(t *testing.T) {
	pair := issueTestPair(t, 7, "wisher@example.com", "user")

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{"wrong secret", pair.AccessToken, "some-other-secret", ErrInvalidToken},
		{"garbage token", "definitely.not.a-jwt", tokenSecret, ErrInvalidToken},
		{"empty token", "", tokenSecret, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}

func TestValidateToken_Expired(t *testing.T) {
	pair, err := GenerateTokenPair(7, "wisher@example.com", "user", tokenSecret, -time.Minute, -time.Minute)
	require.NoError(t, err)

	claims, err := ValidateToken(pair.AccessToken, tokenSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}

func TestValidateToken_WrongSigningMethod(t *testing.T) {
	// An unsigned token must never validate, whatever its claims say
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: 7,
		Email:  "wisher@example.com",
		Role:   "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	claims, err := ValidateToken(raw, tokenSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Nil(t, claims)
}
