// Package jwttoken issues and validates the HS256 bearer tokens used by
// the admin surface.
package jwttoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/BikashBaishnab/horibol-website-sub000/internal/platform/middleware"
)

var (
	ErrEmptySigningKey = errors.New("jwt signing key must not be empty")
	ErrInvalidToken    = errors.New("invalid token")
)

// Claims carries the role on top of the registered claim set.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Service signs and validates tokens with a shared symmetric key.
type Service struct {
	signingKey []byte
	issuer     string
	clock      func() time.Time
}

func New(signingKey string) (*Service, error) {
	if signingKey == "" {
		return nil, ErrEmptySigningKey
	}
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     "storefront-account",
		clock:      time.Now,
	}, nil
}

// Generate signs a token for the given subject and role.
func (s *Service) Generate(subject, role string, ttl time.Duration) (string, error) {
	now := s.clock()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken implements middleware.TokenValidator.
func (s *Service) ValidateToken(tokenString string) (*middleware.TokenClaims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return &middleware.TokenClaims{
		Subject: claims.Subject,
		Role:    claims.Role,
	}, nil
}
