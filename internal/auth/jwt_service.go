package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken is the single signal for every access token failure: bad
// signature, malformed structure, and natural expiry all collapse into it so
// callers cannot distinguish the cases.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims represents the access token payload. Subject carries the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTService signs and verifies access tokens, and mints the opaque strings
// used as refresh tokens. Access tokens are stateless; refresh tokens are only
// ever looked up against the ledger, never decoded.
type JWTService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewJWTService creates a token service with the given signing secret and
// lifetimes.
func NewJWTService(secret string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateAccessToken produces a signed HS256 token whose subject is the user
// id.
func (s *JWTService) GenerateAccessToken(userID string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyAccessToken validates signature and expiry and returns the embedded
// user id. Every failure mode returns ErrInvalidToken.
func (s *JWTService) VerifyAccessToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// NewOpaqueToken returns a cryptographically random string for use as a
// refresh, verification, or reset token. It is independent of the access
// token signing scheme.
func (s *JWTService) NewOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// RefreshExpiryDate returns the absolute expiry for a refresh token issued
// now.
func (s *JWTService) RefreshExpiryDate() time.Time {
	return time.Now().Add(s.refreshTTL)
}
