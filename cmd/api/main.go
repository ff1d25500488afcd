package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadpilot_backend/internal/adapters/storage"
	"leadpilot_backend/internal/auth"
	"leadpilot_backend/internal/companies"
	"leadpilot_backend/internal/email"
	"leadpilot_backend/internal/events"
	apphttp "leadpilot_backend/internal/http"
	"leadpilot_backend/internal/http/router"
	"leadpilot_backend/internal/leads"
	"leadpilot_backend/internal/leads/analyzer"
	"leadpilot_backend/internal/leads/pipeline"
	"leadpilot_backend/internal/leads/repository"
	leadservice "leadpilot_backend/internal/leads/service"
	"leadpilot_backend/internal/scheduler"
	"leadpilot_backend/platform/config"
	"leadpilot_backend/platform/db"
	"leadpilot_backend/platform/logger"
	"leadpilot_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if err := auth.EnsureAdmin(ctx, pool, cfg.AdminEmail, cfg.AdminPassword, log); err != nil {
		log.Error("failed to seed admin account", "error", err)
		panic("failed to seed admin account: " + err.Error())
	}

	eventBus := events.NewInMemoryBus(log)

	var blobs storage.BlobStore
	if cfg.IsMinIOEnabled() {
		store, err := storage.NewMinIOStore(cfg)
		if err != nil {
			log.Error("failed to initialize storage", "error", err)
			panic("failed to initialize storage: " + err.Error())
		}
		if err := withRetry(ctx, log, "ensure uploads bucket", 5, 2*time.Second, func() error {
			return store.EnsureBucketExists(ctx)
		}); err != nil {
			log.Error("failed to ensure uploads bucket", "error", err)
			panic("failed to ensure uploads bucket: " + err.Error())
		}
		blobs = store
		log.Info("storage initialized", "bucket", cfg.GetMinioBucketLeadUploads())
	} else {
		log.Warn("MINIO_ENDPOINT not configured; raw file uploads disabled")
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	leadRepo := repository.New(pool)
	vision := analyzer.New(cfg, log)
	pipe := pipeline.New(leadRepo, vision, eventBus, log)

	enqueuer, closeEnqueuer := initEnqueuer(cfg, pipe, log)
	if closeEnqueuer != nil {
		defer closeEnqueuer()
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	companiesModule := companies.NewModule(pool, eventBus, val, log)
	authModule := auth.NewModule(pool, cfg, val, log)
	leadsModule := leads.NewModule(pool, blobs, enqueuer, companiesModule.Service(), eventBus, val, log)

	// Notifications subscribe to lead events; they never block intake.
	var sender email.Sender = email.NoopSender{}
	if cfg.IsEmailEnabled() {
		sender = email.NewSMTPSender(cfg.GetSMTPHost(), cfg.GetSMTPPort(), cfg.GetSMTPUsername(),
			cfg.GetSMTPPassword(), cfg.GetEmailFromAddress(), cfg.GetEmailFromName())
		log.Info("email sender initialized", "host", cfg.GetSMTPHost())
	} else {
		log.Warn("SMTP not configured; notification email disabled")
	}
	email.NewNotifier(sender, companiesModule.Service()).Register(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			authModule,
			companiesModule,
			leadsModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

// initEnqueuer returns the analysis trigger. With Redis configured it
// enqueues asynq tasks for the worker binary; without Redis it advances
// leads in-process so local development needs no extra services.
func initEnqueuer(cfg config.SchedulerConfig, pipe *pipeline.Pipeline, log *logger.Logger) (leadservice.Enqueuer, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; running lead analysis in-process")
		return &inprocessRunner{pipe: pipe, log: log}, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}

	return client, func() {
		_ = client.Close()
	}
}

// inprocessRunner advances a lead in a detached goroutine. Used only when
// no Redis is available; the guarded pipeline write keeps it safe to race.
type inprocessRunner struct {
	pipe *pipeline.Pipeline
	log  *logger.Logger
}

func (r *inprocessRunner) EnqueueLeadAnalyze(_ context.Context, leadID int64) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := r.pipe.Advance(ctx, leadID); err != nil {
			r.log.WithLead(leadID).Error("in-process analysis failed", "error", err)
		}
	}()
	return nil
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
