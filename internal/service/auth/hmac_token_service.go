package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/config"
	"github.com/girmesh03/task-manager-api/internal/domain"
)

// Reset tokens invalidate quickly regardless of the access token lifetime.
const resetTokenLifetime = 30 * time.Minute

// hmacTokenService implements TokenService using HMAC-SHA256 signing.
type hmacTokenService struct {
	signingKey       []byte
	tokenLifetime    time.Duration
	resetTokenLength int
	timeFunc         func() time.Time // Injectable for testing
	clockSkew        time.Duration    // Tolerated drift during validation
}

// tokenClaims is the wire structure of the signed token.
type tokenClaims struct {
	UserID         uuid.UUID  `json:"uid"`
	OrganizationID uuid.UUID  `json:"org"`
	DepartmentID   *uuid.UUID `json:"dep,omitempty"`
	TokenType      string     `json:"type"`
	jwt.RegisteredClaims
}

var _ TokenService = (*hmacTokenService)(nil)

// NewTokenService creates a TokenService using HMAC-SHA256 signing.
func NewTokenService(cfg config.AuthConfig) (TokenService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if cfg.TokenLifetime <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive")
	}
	resetLen := cfg.ResetTokenLength
	if resetLen < 16 {
		resetLen = 16
	}
	return &hmacTokenService{
		signingKey:       []byte(cfg.JWTSecret),
		tokenLifetime:    cfg.TokenLifetime,
		resetTokenLength: resetLen,
		timeFunc:         time.Now,
		clockSkew:        30 * time.Second,
	}, nil
}

// GenerateToken implements TokenService.GenerateToken.
func (s *hmacTokenService) GenerateToken(ctx context.Context, actor domain.Actor) (string, error) {
	return s.generate(actor, TokenTypeAccess, s.tokenLifetime, "")
}

// GenerateResetToken implements TokenService.GenerateResetToken. Each reset
// token carries a random ID so individual tokens can be identified in logs.
func (s *hmacTokenService) GenerateResetToken(ctx context.Context, actor domain.Actor) (string, error) {
	jti, err := randomTokenID(s.resetTokenLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate reset token id: %w", err)
	}
	return s.generate(actor, TokenTypeReset, resetTokenLifetime, jti)
}

func (s *hmacTokenService) generate(actor domain.Actor, tokenType string, lifetime time.Duration, jti string) (string, error) {
	if err := actor.Validate(); err != nil {
		return "", err
	}
	now := s.timeFunc()
	claims := tokenClaims{
		UserID:         actor.UserID,
		OrganizationID: actor.OrganizationID,
		DepartmentID:   actor.DepartmentID,
		TokenType:      tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			ID:        jti,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken implements TokenService.ValidateToken.
func (s *hmacTokenService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.validate(tokenString, TokenTypeAccess)
}

// ValidateResetToken implements TokenService.ValidateResetToken.
func (s *hmacTokenService) ValidateResetToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.validate(tokenString, TokenTypeReset)
}

func (s *hmacTokenService) validate(tokenString, wantType string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithTimeFunc(s.timeFunc),
		jwt.WithLeeway(s.clockSkew),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, ErrWrongTokenType
	}
	if claims.UserID == uuid.Nil || claims.OrganizationID == uuid.Nil {
		return nil, ErrInvalidToken
	}

	out := &Claims{
		UserID:         claims.UserID,
		OrganizationID: claims.OrganizationID,
		DepartmentID:   claims.DepartmentID,
		TokenType:      claims.TokenType,
		ID:             claims.ID,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

// randomTokenID returns a hex string over n random bytes.
func randomTokenID(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
