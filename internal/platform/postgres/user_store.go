package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/platform/logger"
	"github.com/girmesh03/task-manager-api/internal/store"
)

// UserStore implements store.UserStore on PostgreSQL. Email preferences are
// stored as a jsonb document alongside the row.
type UserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewUserStore creates a PostgreSQL user store.
func NewUserStore(db store.DBTX, log *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &UserStore{
		db:     db,
		logger: log.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*UserStore)(nil)

const userColumns = `id, organization_id, department_id, email, name, hashed_password,
	email_preferences, is_deleted, deleted_at, deleted_by, created_at, created_by`

// Create saves a new user. Returns store.ErrEmailExists when the email is
// already taken.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return err
	}
	prefs, err := marshalJSONB(user.EmailPreferences)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (id, organization_id, department_id, email, name, hashed_password,
			email_preferences, is_deleted, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, $8, $9)
	`
	_, err = s.db.ExecContext(ctx, query,
		user.ID, user.OrganizationID, nullUUID(user.DepartmentID),
		user.Email, user.Name, user.HashedPassword, prefs,
		user.CreatedAt, user.CreatedBy)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate email during user creation",
				slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	log.Info("user created",
		slog.String("user_id", user.ID.String()),
		slog.String("organization_id", user.OrganizationID.String()))
	return nil
}

// GetByID retrieves a user regardless of lifecycle state.
// Returns store.ErrUserNotFound if no row exists.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail retrieves an active user by email.
// Returns store.ErrUserNotFound if no active row matches.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 AND is_deleted = FALSE`, email)
}

func (s *UserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	var (
		user      domain.User
		depID     uuid.NullUUID
		prefs     []byte
		isDeleted bool
		deletedAt sql.NullTime
		deletedBy uuid.NullUUID
		createdAt time.Time
		createdBy uuid.UUID
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.OrganizationID, &depID, &user.Email, &user.Name, &user.HashedPassword,
		&prefs, &isDeleted, &deletedAt, &deletedBy, &createdAt, &createdBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, MapError(err)
	}
	if depID.Valid {
		d := depID.UUID
		user.DepartmentID = &d
	}
	if err := unmarshalJSONB(prefs, &user.EmailPreferences); err != nil {
		return nil, err
	}
	user.Lifecycle = lifecycleFrom(isDeleted, deletedAt, deletedBy, createdAt, createdBy)
	return &user, nil
}

// UpdateEmailPreferences replaces the user's preference document.
// Returns store.ErrUserNotFound when the user does not exist or is deleted.
func (s *UserStore) UpdateEmailPreferences(ctx context.Context, id uuid.UUID, prefs domain.EmailPreferences) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	doc, err := marshalJSONB(prefs)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET email_preferences = $2 WHERE id = $1 AND is_deleted = FALSE`,
		id, doc)
	if err != nil {
		return MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrUserNotFound
	}
	log.Info("email preferences updated", slog.String("user_id", id.String()))
	return nil
}

// UpdatePassword replaces the user's password hash.
// Returns store.ErrUserNotFound when the user does not exist or is deleted.
func (s *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET hashed_password = $2 WHERE id = $1 AND is_deleted = FALSE`,
		id, hashedPassword)
	if err != nil {
		return MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrUserNotFound
	}
	log.Info("password updated", slog.String("user_id", id.String()))
	return nil
}

// ListIDsByOrganization lists user IDs in an organization, filtered by
// lifecycle state.
func (s *UserStore) ListIDsByOrganization(ctx context.Context, orgID uuid.UUID, state store.StateFilter) ([]uuid.UUID, error) {
	query := `SELECT id FROM users WHERE organization_id = $1` + stateClause(state)
	rows, err := s.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, MapError(err)
	}
	return collectIDs(rows)
}

// ListIDsByDepartment lists user IDs in a department, filtered by lifecycle
// state.
func (s *UserStore) ListIDsByDepartment(ctx context.Context, depID uuid.UUID, state store.StateFilter) ([]uuid.UUID, error) {
	query := `SELECT id FROM users WHERE department_id = $1` + stateClause(state)
	rows, err := s.db.QueryContext(ctx, query, depID)
	if err != nil {
		return nil, MapError(err)
	}
	return collectIDs(rows)
}

// FilterValidRecipients intersects candidates with active members of the
// organization. Order follows the candidates slice; duplicates are dropped.
func (s *UserStore) FilterValidRecipients(ctx context.Context, candidates []uuid.UUID, orgID uuid.UUID) ([]uuid.UUID, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	query := `
		SELECT id FROM users
		WHERE organization_id = $1 AND is_deleted = FALSE AND id IN (` + placeholders(2, len(candidates)) + `)`
	args := append([]any{orgID}, idArgs(candidates)...)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	found, err := collectIDs(rows)
	if err != nil {
		return nil, err
	}

	valid := make(map[uuid.UUID]bool, len(found))
	for _, id := range found {
		valid[id] = true
	}
	var out []uuid.UUID
	for _, id := range candidates {
		if valid[id] {
			out = append(out, id)
			valid[id] = false
		}
	}
	return out, nil
}

// MarkDeleted soft-deletes users, returning the IDs transitioned.
func (s *UserStore) MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error) {
	return markDeletedIDs(ctx, s.db, "users", ids, deletedAt, deletedBy)
}

// Restore restores soft-deleted users, returning the IDs transitioned.
func (s *UserStore) Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return restoreIDs(ctx, s.db, "users", ids)
}

// WithTx returns a copy bound to the transaction.
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{db: tx, logger: s.logger}
}
