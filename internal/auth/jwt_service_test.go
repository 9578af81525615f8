package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, 7*24*time.Hour)

	token, err := svc.GenerateAccessToken("user-123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	subject, err := svc.VerifyAccessToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestJWTService_VerifyAccessToken_Failures(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, 7*24*time.Hour)

	expiredSvc := NewJWTService("test-secret", -time.Minute, 7*24*time.Hour)
	expired, err := expiredSvc.GenerateAccessToken("user-123")
	assert.NoError(t, err)

	otherSvc := NewJWTService("other-secret", time.Hour, 7*24*time.Hour)
	foreign, err := otherSvc.GenerateAccessToken("user-123")
	assert.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"malformed", "not-a-jwt"},
		{"empty", ""},
		{"expired", expired},
		{"wrong signature", foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, err := svc.VerifyAccessToken(tt.token)
			// every failure collapses into the same error
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Empty(t, subject)
		})
	}
}

func TestJWTService_NewOpaqueToken(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, 7*24*time.Hour)

	first, err := svc.NewOpaqueToken()
	assert.NoError(t, err)
	second, err := svc.NewOpaqueToken()
	assert.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)

	// opaque tokens are not access tokens
	_, err = svc.VerifyAccessToken(first)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RefreshExpiryDate(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour, 7*24*time.Hour)

	expiry := svc.RefreshExpiryDate()
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), expiry, time.Minute)
}
