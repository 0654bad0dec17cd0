package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Subject is what a token is issued for.
type Subject struct {
	UserID    string
	TenantID  string
	CompanyID string
	Role      string
}

// TokenIssuer signs HS256 access tokens.
type TokenIssuer struct {
	issuer string
	key    []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer signing HS256 tokens with key that
// expire after ttl.
func NewTokenIssuer(issuer string, key []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{issuer: issuer, key: key, ttl: ttl, now: time.Now}
}

// Issue returns a signed token for s. Every token carries a unique jti so it
// can be revoked individually.
func (i *TokenIssuer) Issue(s Subject) (string, error) {
	if s.UserID == "" || s.TenantID == "" {
		return "", fmt.Errorf("token subject requires user and tenant")
	}
	now := i.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    i.issuer,
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		TenantID:  s.TenantID,
		CompanyID: s.CompanyID,
		Role:      s.Role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
