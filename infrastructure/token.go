package infrastructure

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"jobly/apperror"
	"jobly/domain"
)

type tokenClaims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// TokenSigner issues and checks HS256 tokens carrying username and
// isAdmin.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ domain.TokenIssuer = (*TokenSigner)(nil)

// NewTokenSigner returns a signer. A zero ttl issues tokens that never
// expire.
func NewTokenSigner(secret string, ttl time.Duration) *TokenSigner {
	return &TokenSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *TokenSigner) Sign(user domain.User) (string, error) {
	now := s.now()
	claims := tokenClaims{
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  user.Username,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("jobly: sign token: %w", err)
	}
	return signed, nil
}

func (s *TokenSigner) Verify(token string) (*domain.Claims, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, apperror.Unauthorized("Invalid token")
	}
	return &domain.Claims{Username: claims.Username, IsAdmin: claims.IsAdmin}, nil
}
