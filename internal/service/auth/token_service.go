package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
)

// Token types carried in the "type" claim.
const (
	TokenTypeAccess = "access"
	TokenTypeReset  = "reset"
)

// TokenService defines operations for issuing and validating actor tokens.
type TokenService interface {
	// GenerateToken creates a signed access token carrying the actor's
	// identity and tenant scope.
	GenerateToken(ctx context.Context, actor domain.Actor) (string, error)

	// ValidateToken validates an access token and extracts its claims.
	// Returns ErrExpiredToken, ErrInvalidToken or ErrWrongTokenType on
	// failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateResetToken creates a short-lived password-reset token for the
	// actor. Reset tokens are not accepted by ValidateToken.
	GenerateResetToken(ctx context.Context, actor domain.Actor) (string, error)

	// ValidateResetToken validates a password-reset token and extracts its
	// claims.
	ValidateResetToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the decoded content of a token.
type Claims struct {
	// UserID is the user the token was issued for.
	UserID uuid.UUID `json:"uid"`

	// OrganizationID and DepartmentID carry the actor's tenant scope so the
	// API layer can authorize without a user lookup.
	OrganizationID uuid.UUID  `json:"org"`
	DepartmentID   *uuid.UUID `json:"dep,omitempty"`

	// TokenType distinguishes access tokens from password-reset tokens.
	TokenType string `json:"type"`

	ExpiresAt time.Time `json:"exp"`
	IssuedAt  time.Time `json:"iat"`
	ID        string    `json:"jti,omitempty"`
}

// Actor reconstructs the domain actor from the claims.
func (c *Claims) Actor() domain.Actor {
	return domain.Actor{
		UserID:         c.UserID,
		OrganizationID: c.OrganizationID,
		DepartmentID:   c.DepartmentID,
	}
}
