package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/email"
	"github.com/girmesh03/task-manager-api/internal/platform/logger"
	"github.com/girmesh03/task-manager-api/internal/service/auth"
	"github.com/girmesh03/task-manager-api/internal/store"
)

// RegisterInput carries everything needed to create a user account.
type RegisterInput struct {
	OrganizationID uuid.UUID
	DepartmentID   *uuid.UUID
	Email          string
	Name           string
	Password       string
	CreatedBy      uuid.UUID
}

// UserService covers registration, authentication and the account-level
// email flows. Welcome and password-reset emails go through the same queue
// as notification emails, gated by the matching preference flags.
type UserService struct {
	db       *sql.DB
	users    store.UserStore
	hasher   auth.PasswordHasher
	verifier auth.PasswordVerifier
	tokens   auth.TokenService
	queue    *email.Queue
	appURL   string
	logger   *slog.Logger
}

// NewUserService creates the user service.
func NewUserService(
	db *sql.DB,
	users store.UserStore,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	tokens auth.TokenService,
	queue *email.Queue,
	appURL string,
	log *slog.Logger,
) *UserService {
	if log == nil {
		log = slog.Default()
	}
	return &UserService{
		db:       db,
		users:    users,
		hasher:   hasher,
		verifier: verifier,
		tokens:   tokens,
		queue:    queue,
		appURL:   appURL,
		logger:   log.With(slog.String("component", "user_service")),
	}
}

// Register creates a user with a hashed password and default email
// preferences, then enqueues a welcome email.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(input.OrganizationID, input.Email, input.Name, input.CreatedBy)
	if err != nil {
		return nil, err
	}
	if input.CreatedBy == uuid.Nil {
		// Self-service signup: the account is its own creator.
		user.CreatedBy = user.ID
	}
	user.DepartmentID = input.DepartmentID

	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	log.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("organization_id", user.OrganizationID.String()))

	s.sendWelcomeEmail(ctx, user)
	return user, nil
}

// Authenticate verifies the email/password pair and issues an access token.
// Returns ErrInvalidCredentials regardless of which part failed.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (string, *domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		log.Warn("failed login attempt", slog.String("user_id", user.ID.String()))
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(ctx, domain.Actor{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		DepartmentID:   user.DepartmentID,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, user, nil
}

// RequestPasswordReset issues a reset token and enqueues the reset email.
// An unknown email is not an error so the endpoint does not leak which
// addresses exist.
func (s *UserService) RequestPasswordReset(ctx context.Context, emailAddr string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("password reset requested for unknown email")
			return nil
		}
		return err
	}
	if !user.EmailPreferences.Enabled || !user.EmailPreferences.PasswordReset {
		log.Debug("password reset email suppressed by preferences",
			slog.String("user_id", user.ID.String()))
		return nil
	}

	token, err := s.tokens.GenerateResetToken(ctx, domain.Actor{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		DepartmentID:   user.DepartmentID,
	})
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.appURL, token)
	subject, htmlBody, textBody, err := email.RenderPasswordReset(email.TemplateData{
		RecipientName: user.Name,
		AppURL:        resetURL,
	})
	if err != nil {
		return fmt.Errorf("failed to render reset email: %w", err)
	}

	job, err := email.NewJob(user.Email, subject, htmlBody, textBody, email.JobContext{UserID: user.ID})
	if err != nil {
		return err
	}
	if err := s.queue.Enqueue(job); err != nil {
		log.Warn("failed to enqueue reset email",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
	}
	return nil
}

// ResetPassword applies a new password to the account the reset token was
// issued for.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.tokens.ValidateResetToken(ctx, token)
	if err != nil {
		return err
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).UpdatePassword(ctx, claims.UserID, hashed)
	})
}

// UpdateEmailPreferences replaces the actor's own preference document.
func (s *UserService) UpdateEmailPreferences(ctx context.Context, actor domain.Actor, prefs domain.EmailPreferences) error {
	return s.users.UpdateEmailPreferences(ctx, actor.UserID, prefs)
}

// sendWelcomeEmail enqueues the welcome email when the user's preferences
// allow it. Failures never fail the registration.
func (s *UserService) sendWelcomeEmail(ctx context.Context, user *domain.User) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !user.EmailPreferences.Enabled || !user.EmailPreferences.WelcomeEmails {
		return
	}
	subject, htmlBody, textBody, err := email.RenderWelcome(email.TemplateData{
		RecipientName: user.Name,
		AppURL:        s.appURL,
	})
	if err != nil {
		log.Warn("failed to render welcome email", slog.String("error", err.Error()))
		return
	}
	job, err := email.NewJob(user.Email, subject, htmlBody, textBody, email.JobContext{UserID: user.ID})
	if err != nil {
		log.Warn("failed to build welcome email job", slog.String("error", err.Error()))
		return
	}
	if err := s.queue.Enqueue(job); err != nil {
		log.Warn("failed to enqueue welcome email",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
	}
}
