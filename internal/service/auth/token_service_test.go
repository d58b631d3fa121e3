package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/girmesh03/task-manager-api/internal/config"
	"github.com/girmesh03/task-manager-api/internal/domain"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:        "0123456789abcdef0123456789abcdef",
		TokenLifetime:    15 * time.Minute,
		ResetTokenLength: 16,
	}
}

func testActor() domain.Actor {
	depID := uuid.New()
	return domain.Actor{
		UserID:         uuid.New(),
		OrganizationID: uuid.New(),
		DepartmentID:   &depID,
	}
}

func TestNewTokenService_RejectsShortSecret(t *testing.T) {
	cfg := testAuthConfig()
	cfg.JWTSecret = "too-short"
	_, err := NewTokenService(cfg)
	assert.Error(t, err)
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	actor := testActor()
	token, err := svc.GenerateToken(context.Background(), actor)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, actor.UserID, claims.UserID)
	assert.Equal(t, actor.OrganizationID, claims.OrganizationID)
	require.NotNil(t, claims.DepartmentID)
	assert.Equal(t, *actor.DepartmentID, *claims.DepartmentID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, actor, claims.Actor())
}

func TestTokenService_ResetTokenNotAcceptedAsAccess(t *testing.T) {
	svc, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	actor := testActor()
	reset, err := svc.GenerateResetToken(context.Background(), actor)
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), reset)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	claims, err := svc.ValidateResetToken(context.Background(), reset)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeReset, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenService_ExpiredToken(t *testing.T) {
	svc, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	impl := svc.(*hmacTokenService)
	issued := time.Now().Add(-2 * time.Hour)
	impl.timeFunc = func() time.Time { return issued }

	token, err := svc.GenerateToken(context.Background(), testActor())
	require.NoError(t, err)

	impl.timeFunc = time.Now
	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenService_TamperedSignature(t *testing.T) {
	svc, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	token, err := svc.GenerateToken(context.Background(), testActor())
	require.NoError(t, err)

	other, err := NewTokenService(config.AuthConfig{
		JWTSecret:     "ffffffffffffffffffffffffffffffff",
		TokenLifetime: 15 * time.Minute,
	})
	require.NoError(t, err)

	_, err = other.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_MissingToken(t *testing.T) {
	svc, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestBcrypt_HashAndCompare(t *testing.T) {
	hasher := NewBcryptHasher(4) // low cost keeps the test fast
	verifier := NewBcryptVerifier()

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	assert.NoError(t, verifier.Compare(hash, "correct horse battery staple"))
	assert.Error(t, verifier.Compare(hash, "wrong password"))
}
