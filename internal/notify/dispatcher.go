package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/girmesh03/task-manager-api/internal/domain"
	"github.com/girmesh03/task-manager-api/internal/email"
	"github.com/girmesh03/task-manager-api/internal/platform/logger"
	"github.com/girmesh03/task-manager-api/internal/realtime"
	"github.com/girmesh03/task-manager-api/internal/store"
)

// NotificationEvent is the event name pushed over the realtime channel.
const NotificationEvent = "notification"

// DispatchOptions selects which channels a dispatch uses.
type DispatchOptions struct {
	WithRealtime bool
	WithEmail    bool
}

// Dispatcher fans a persisted notification out to the delivery channels.
// It must only be called after the business transaction has committed;
// nothing it does can roll the mutation back, and all failures are logged
// rather than returned.
type Dispatcher struct {
	users   store.UserStore
	filter  *PreferenceFilter
	emitter realtime.Emitter
	queue   *email.Queue
	appURL  string
	logger  *slog.Logger
}

// NewDispatcher creates a dispatcher. appURL is embedded in email bodies so
// recipients can jump to the entity.
func NewDispatcher(
	users store.UserStore,
	filter *PreferenceFilter,
	emitter realtime.Emitter,
	queue *email.Queue,
	appURL string,
	log *slog.Logger,
) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		users:   users,
		filter:  filter,
		emitter: emitter,
		queue:   queue,
		appURL:  appURL,
		logger:  log.With("component", "delivery_dispatcher"),
	}
}

// Dispatch runs both channels for one notification. A nil notification is a
// no-op so callers can pass the Persist result straight through.
func (d *Dispatcher) Dispatch(ctx context.Context, n *domain.Notification, opts DispatchOptions) {
	if n == nil {
		return
	}
	if opts.WithRealtime {
		d.dispatchRealtime(ctx, n)
	}
	if opts.WithEmail {
		d.dispatchEmail(ctx, n)
	}
}

// dispatchRealtime emits to the recipient list, then to the broader tenant
// audiences for dashboard-level updates. Emission failures are swallowed.
func (d *Dispatcher) dispatchRealtime(ctx context.Context, n *domain.Notification) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	audiences := []realtime.Audience{
		realtime.RecipientsAudience(n.Recipients),
		realtime.OrganizationAudience(n.OrganizationID),
	}
	if n.DepartmentID != nil {
		audiences = append(audiences, realtime.DepartmentAudience(*n.DepartmentID))
	}

	for _, audience := range audiences {
		if err := d.emitter.Emit(ctx, audience, NotificationEvent, n); err != nil {
			log.Warn("realtime emission failed",
				"notification_id", n.ID,
				"scope", audience.Scope,
				"error", err)
		}
	}
}

// dispatchEmail queues one job per eligible recipient. Eligibility and
// addresses are resolved first so every job carries the final batch size,
// letting the worker update the notification after the whole cycle.
func (d *Dispatcher) dispatchEmail(ctx context.Context, n *domain.Notification) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	type target struct {
		userID  uuid.UUID
		address string
		name    string
	}
	var targets []target
	for _, userID := range n.Recipients {
		if !d.filter.Allowed(ctx, userID, n.Type, ChannelEmail) {
			continue
		}
		user, err := d.users.GetByID(ctx, userID)
		if err != nil {
			log.Warn("skipping email for unloadable recipient",
				"notification_id", n.ID,
				"user_id", userID,
				"error", err)
			continue
		}
		targets = append(targets, target{userID: userID, address: user.Email, name: user.Name})
	}
	if len(targets) == 0 {
		log.Debug("no email-eligible recipients", "notification_id", n.ID)
		return
	}

	for _, tgt := range targets {
		subject, html, text, err := email.RenderNotification(n.Type, email.TemplateData{
			RecipientName: tgt.name,
			Title:         n.Title,
			Message:       n.Message,
			AppURL:        d.appURL,
		})
		if err != nil {
			log.Error("failed to render notification email",
				"notification_id", n.ID,
				"user_id", tgt.userID,
				"error", err)
			continue
		}
		job, err := email.NewJob(tgt.address, subject, html, text, email.JobContext{
			NotificationID: n.ID,
			UserID:         tgt.userID,
			BatchSize:      len(targets),
		})
		if err != nil {
			log.Error("failed to build email job",
				"notification_id", n.ID,
				"user_id", tgt.userID,
				"error", err)
			continue
		}
		if err := d.queue.Enqueue(job); err != nil {
			log.Error("failed to enqueue email job",
				"notification_id", n.ID,
				"user_id", tgt.userID,
				"error", err)
		}
	}
}

// DeliveryRecorder persists the outcome of one email delivery cycle on the
// notification. It satisfies email.DeliveryRecorder.
type DeliveryRecorder struct {
	notifications store.NotificationStore
	logger        *slog.Logger
}

// NewDeliveryRecorder creates a recorder over the notification store.
func NewDeliveryRecorder(notifications store.NotificationStore, log *slog.Logger) *DeliveryRecorder {
	if log == nil {
		log = slog.Default()
	}
	return &DeliveryRecorder{
		notifications: notifications,
		logger:        log.With("component", "delivery_recorder"),
	}
}

// RecordDelivery increments the cycle counter and stores the outcome.
// Attempts counts delivery cycles over the whole recipient set, not
// per-job retries.
func (r *DeliveryRecorder) RecordDelivery(ctx context.Context, notificationID uuid.UUID, succeeded bool, errMsg string) error {
	n, err := r.notifications.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}

	delivery := n.EmailDelivery
	delivery.Attempts++
	delivery.Sent = succeeded
	delivery.Error = errMsg
	if succeeded {
		now := time.Now().UTC()
		delivery.SentAt = &now
		delivery.Error = ""
	}
	return r.notifications.UpdateEmailDelivery(ctx, notificationID, delivery)
}
