package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/girmesh03/task-manager-api/internal/api"
	"github.com/girmesh03/task-manager-api/internal/cascade"
	"github.com/girmesh03/task-manager-api/internal/config"
	"github.com/girmesh03/task-manager-api/internal/email"
	"github.com/girmesh03/task-manager-api/internal/notify"
	"github.com/girmesh03/task-manager-api/internal/platform/postgres"
	"github.com/girmesh03/task-manager-api/internal/realtime"
	"github.com/girmesh03/task-manager-api/internal/reminder"
	"github.com/girmesh03/task-manager-api/internal/service"
	"github.com/girmesh03/task-manager-api/internal/service/auth"
)

// application holds every long-lived component of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	queue     *email.Queue
	worker    *email.Worker
	hub       *realtime.Hub
	scheduler *reminder.Scheduler
	router    http.Handler
}

// newApplication wires the whole dependency graph: stores over the shared
// connection pool, the cascade executor and notification pipeline on top of
// them, and the HTTP router on top of the services. The email worker is
// started here and stopped in cleanup.
func newApplication(cfg *config.Config, db *sql.DB, log *slog.Logger) *application {
	stores := cascade.Stores{
		Organizations: postgres.NewOrganizationStore(db, log),
		Departments:   postgres.NewDepartmentStore(db, log),
		Users:         postgres.NewUserStore(db, log),
		Tasks:         postgres.NewTaskStore(db, log),
		Activities:    postgres.NewActivityStore(db, log),
		Comments:      postgres.NewCommentStore(db, log),
		Attachments:   postgres.NewAttachmentStore(db, log),
		Notifications: postgres.NewNotificationStore(db, log),
		Materials:     postgres.NewMaterialStore(db, log),
		Vendors:       postgres.NewVendorStore(db, log),
	}

	hub := realtime.NewHub(log)
	queue := email.NewQueue(cfg.Email.QueueSize, log)
	sender := email.NewSMTPSender(cfg.Email, log)
	recorder := notify.NewDeliveryRecorder(stores.Notifications, log)
	worker := email.NewWorker(queue, sender, recorder, email.WorkerConfig{
		RetryAttempts: cfg.Email.RetryAttempts,
		RetryDelay:    cfg.Email.RetryDelay,
	}, log)
	worker.Start()

	executor := cascade.NewExecutor(stores, log)
	resolver := notify.NewResolver(stores.Tasks, log)
	filter := notify.NewPreferenceFilter(stores.Users, log)
	notifications := notify.NewService(stores.Users, stores.Notifications, log)
	dispatcher := notify.NewDispatcher(stores.Users, filter, hub, queue, cfg.Server.AppURL, log)

	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		log.Error("failed to build token service", slog.String("error", err.Error()))
		// Configuration was validated at load; reaching this is a bug.
		panic(err)
	}

	lifecycle := service.NewLifecycleService(db, executor, resolver, notifications, dispatcher, stores, log)
	users := service.NewUserService(
		db,
		stores.Users,
		auth.NewBcryptHasher(cfg.Auth.BCryptCost),
		auth.NewBcryptVerifier(),
		tokens,
		queue,
		cfg.Server.AppURL,
		log,
	)
	notificationReads := service.NewNotificationService(stores.Notifications, log)

	scheduler := reminder.NewScheduler(stores.Tasks, lifecycle, reminder.Config{
		Interval: cfg.Reminder.Interval,
		LeadTime: cfg.Reminder.LeadTime,
	}, log)
	scheduler.Start()

	router := api.NewRouter(api.RouterDeps{
		Users:         users,
		Notifications: notificationReads,
		Lifecycle:     lifecycle,
		Tokens:        tokens,
		Hub:           hub,
		Logger:        log,
	})

	return &application{
		config:    cfg,
		logger:    log,
		db:        db,
		queue:     queue,
		worker:    worker,
		hub:       hub,
		scheduler: scheduler,
		router:    router,
	}
}

// cleanup stops background work in dependency order: the scheduler stops
// producing jobs, then the queue closes so the worker drains remaining
// jobs before stopping.
func (app *application) cleanup() {
	app.scheduler.Stop()
	app.queue.Close()
	app.worker.Stop()
	app.logger.Info("application cleanup complete")
}

// openDatabase opens the pgx connection pool and verifies it with a ping.
func openDatabase(cfg config.DatabaseConfig, log *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connection established")
	return db, nil
}
