package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"yahveh/internal/core/apperror"
	appctx "yahveh/internal/core/context"
)

// Claims is the token payload. Claim names match what the existing
// clients of this API already expect.
type Claims struct {
	UserID   int64  `json:"codUsuario"`
	UserType string `json:"tipoUsuario"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewTokenManager creates a token manager.
func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Issue mints a token for the user and returns it with its expiry instant.
func (m *TokenManager) Issue(user *User) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(m.ttl)

	claims := Claims{
		UserID:   user.UserID,
		UserType: user.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Login,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expires, nil
}

// Validate parses and verifies a bearer token and returns the actor it
// identifies. The signature algorithm is pinned to HMAC.
func (m *TokenManager) Validate(tokenString string) (*appctx.Actor, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer))
	if err != nil || !token.Valid {
		return nil, apperror.NewUnauthorized("invalid or expired token").WithCause(err)
	}

	return &appctx.Actor{
		UserID: claims.UserID,
		Login:  claims.Subject,
		Role:   claims.UserType,
	}, nil
}
