package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/girmesh03/task-manager-api/internal/config"
	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/service/auth"
)

func newTestTokenService(t *testing.T) auth.TokenService {
	t.Helper()
	svc, err := auth.NewTokenService(config.AuthConfig{
		JWTSecret:        "0123456789abcdef0123456789abcdef",
		TokenLifetime:    15 * time.Minute,
		ResetTokenLength: 16,
	})
	require.NoError(t, err)
	return svc
}

func TestAuthenticate(t *testing.T) {
	tokens := newTestTokenService(t)
	mw := NewAuthMiddleware(tokens)

	actor := domain.Actor{UserID: uuid.New(), OrganizationID: uuid.New()}
	token, err := tokens.GenerateToken(context.Background(), actor)
	require.NoError(t, err)

	var gotActor domain.Actor
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotActor, called = GetActor(r)
		w.WriteHeader(http.StatusOK)
	})
	handler := mw.Authenticate(next)

	t.Run("valid token passes actor through", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, called)
		assert.Equal(t, actor.UserID, gotActor.UserID)
		assert.Equal(t, actor.OrganizationID, gotActor.OrganizationID)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		called = false
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/notifications", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
		req.Header.Set("Authorization", "Token "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("reset token not accepted as access token", func(t *testing.T) {
		called = false
		resetToken, err := tokens.GenerateResetToken(context.Background(), actor)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
		req.Header.Set("Authorization", "Bearer "+resetToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})
}
