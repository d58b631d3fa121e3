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

// NotificationStore implements store.NotificationStore on PostgreSQL.
// Recipients and read receipts are jsonb documents; membership queries use
// containment so recipient and unread lookups stay single-statement.
type NotificationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewNotificationStore creates a PostgreSQL notification store.
func NewNotificationStore(db store.DBTX, log *slog.Logger) *NotificationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &NotificationStore{
		db:     db,
		logger: log.With(slog.String("component", "notification_store")),
	}
}

var _ store.NotificationStore = (*NotificationStore)(nil)

const notificationColumns = `id, organization_id, department_id, type, title, message,
	entity_id, entity_model, recipients, read_by,
	email_sent, email_attempts, email_sent_at, email_error,
	is_deleted, deleted_at, deleted_by, created_at, created_by`

// Create saves a new notification.
func (s *NotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := n.Validate(); err != nil {
		return err
	}
	recipients, err := marshalJSONB(n.Recipients)
	if err != nil {
		return err
	}
	readBy, err := marshalJSONB(n.ReadBy)
	if err != nil {
		return err
	}

	var entityModel any
	if n.EntityModel != nil {
		entityModel = string(*n.EntityModel)
	}

	query := `
		INSERT INTO notifications (id, organization_id, department_id, type, title, message,
			entity_id, entity_model, recipients, read_by,
			email_sent, email_attempts, email_sent_at, email_error,
			is_deleted, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, FALSE, $15, $16)
	`
	_, err = s.db.ExecContext(ctx, query,
		n.ID, n.OrganizationID, nullUUID(n.DepartmentID),
		string(n.Type), n.Title, n.Message,
		nullUUID(n.EntityID), entityModel, recipients, readBy,
		n.EmailDelivery.Sent, n.EmailDelivery.Attempts, n.EmailDelivery.SentAt, n.EmailDelivery.Error,
		n.CreatedAt, n.CreatedBy)
	if err != nil {
		log.Error("failed to create notification",
			slog.String("notification_id", n.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	log.Info("notification created",
		slog.String("notification_id", n.ID.String()),
		slog.String("type", string(n.Type)),
		slog.Int("recipients", len(n.Recipients)))
	return nil
}

// GetByID retrieves a notification regardless of lifecycle state.
// Returns store.ErrNotificationNotFound if no row exists.
func (s *NotificationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotificationNotFound
		}
		return nil, MapError(err)
	}
	return n, nil
}

// ListByRecipient pages through a user's active notifications, newest
// first.
func (s *NotificationStore) ListByRecipient(ctx context.Context, userID uuid.UUID, page store.Page) ([]*domain.Notification, error) {
	member, err := containsUUID(userID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE recipients @> $1 AND is_deleted = FALSE
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, member, page.Limit, page.Offset)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var out []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, MapError(err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// CountUnread counts the user's active notifications without a read
// receipt from them.
func (s *NotificationStore) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	member, err := containsUUID(userID)
	if err != nil {
		return 0, err
	}
	receipt, err := marshalJSONB([]map[string]string{{"user_id": userID.String()}})
	if err != nil {
		return 0, err
	}

	query := `
		SELECT COUNT(*)
		FROM notifications
		WHERE recipients @> $1 AND NOT read_by @> $2 AND is_deleted = FALSE
	`
	var count int64
	if err := s.db.QueryRowContext(ctx, query, member, receipt).Scan(&count); err != nil {
		return 0, MapError(err)
	}
	return count, nil
}

// AppendReadReceipt records that the user read the notification. Appending
// is idempotent: a second receipt for the same user is a no-op.
// Returns store.ErrNotificationNotFound when the notification does not
// exist.
func (s *NotificationStore) AppendReadReceipt(ctx context.Context, id uuid.UUID, userID uuid.UUID, readAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	existing, err := marshalJSONB([]map[string]string{{"user_id": userID.String()}})
	if err != nil {
		return err
	}
	receipt, err := marshalJSONB([]domain.ReadReceipt{{UserID: userID, ReadAt: readAt}})
	if err != nil {
		return err
	}

	query := `
		UPDATE notifications
		SET read_by = read_by || $3
		WHERE id = $1 AND NOT read_by @> $2 AND is_deleted = FALSE
	`
	result, err := s.db.ExecContext(ctx, query, id, existing, receipt)
	if err != nil {
		return MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		// Either the receipt already exists or the notification is gone;
		// only the latter is an error.
		var exists bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1 AND is_deleted = FALSE)`, id).
			Scan(&exists)
		if err != nil {
			return MapError(err)
		}
		if !exists {
			return store.ErrNotificationNotFound
		}
		return nil
	}
	log.Debug("read receipt appended",
		slog.String("notification_id", id.String()),
		slog.String("user_id", userID.String()))
	return nil
}

// UpdateEmailDelivery replaces the delivery status fields.
// Returns store.ErrNotificationNotFound when the notification does not
// exist.
func (s *NotificationStore) UpdateEmailDelivery(ctx context.Context, id uuid.UUID, delivery domain.EmailDelivery) error {
	query := `
		UPDATE notifications
		SET email_sent = $2, email_attempts = $3, email_sent_at = $4, email_error = $5
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		id, delivery.Sent, delivery.Attempts, delivery.SentAt, delivery.Error)
	if err != nil {
		return MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return MapError(err)
	}
	if affected == 0 {
		return store.ErrNotificationNotFound
	}
	return nil
}

// ListIDsByEntities lists notification IDs referencing any of the given
// entities, filtered by lifecycle state.
func (s *NotificationStore) ListIDsByEntities(ctx context.Context, entities []domain.Ref, state store.StateFilter) ([]uuid.UUID, error) {
	if len(entities) == 0 {
		return nil, nil
	}
	predicate, args := refsPredicate("entity_id", "entity_model", entities, 1)
	query := `SELECT id FROM notifications WHERE ` + predicate + stateClause(state)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	return collectIDs(rows)
}

// MarkDeleted soft-deletes notifications, returning the IDs transitioned.
func (s *NotificationStore) MarkDeleted(ctx context.Context, ids []uuid.UUID, deletedAt time.Time, deletedBy uuid.UUID) ([]uuid.UUID, error) {
	return markDeletedIDs(ctx, s.db, "notifications", ids, deletedAt, deletedBy)
}

// Restore restores soft-deleted notifications, returning the IDs
// transitioned.
func (s *NotificationStore) Restore(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return restoreIDs(ctx, s.db, "notifications", ids)
}

// WithTx returns a copy bound to the transaction.
func (s *NotificationStore) WithTx(tx *sql.Tx) store.NotificationStore {
	return &NotificationStore{db: tx, logger: s.logger}
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(row rowScanner) (*domain.Notification, error) {
	var (
		n           domain.Notification
		depID       uuid.NullUUID
		nType       string
		entityID    uuid.NullUUID
		entityModel sql.NullString
		recipients  []byte
		readBy      []byte
		sentAt      sql.NullTime
		isDeleted   bool
		deletedAt   sql.NullTime
		deletedBy   uuid.NullUUID
		createdAt   time.Time
		createdBy   uuid.UUID
	)
	err := row.Scan(
		&n.ID, &n.OrganizationID, &depID, &nType, &n.Title, &n.Message,
		&entityID, &entityModel, &recipients, &readBy,
		&n.EmailDelivery.Sent, &n.EmailDelivery.Attempts, &sentAt, &n.EmailDelivery.Error,
		&isDeleted, &deletedAt, &deletedBy, &createdAt, &createdBy,
	)
	if err != nil {
		return nil, err
	}
	n.Type = domain.ActionType(nType)
	if depID.Valid {
		d := depID.UUID
		n.DepartmentID = &d
	}
	if entityID.Valid {
		e := entityID.UUID
		n.EntityID = &e
	}
	if entityModel.Valid {
		m := domain.EntityModel(entityModel.String)
		n.EntityModel = &m
	}
	if sentAt.Valid {
		t := sentAt.Time
		n.EmailDelivery.SentAt = &t
	}
	if err := unmarshalJSONB(recipients, &n.Recipients); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(readBy, &n.ReadBy); err != nil {
		return nil, err
	}
	n.Lifecycle = lifecycleFrom(isDeleted, deletedAt, deletedBy, createdAt, createdBy)
	return &n, nil
}
