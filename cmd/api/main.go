package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/syllatech-api/internal/http/handlers"
	"github.com/diagnosis/syllatech-api/internal/notify"
	"github.com/diagnosis/syllatech-api/internal/platform/cache"
	"github.com/diagnosis/syllatech-api/internal/platform/geo"
	"github.com/diagnosis/syllatech-api/internal/platform/mailer"
	"github.com/diagnosis/syllatech-api/internal/repo/postgres"
	"github.com/diagnosis/syllatech-api/internal/service"
	"github.com/diagnosis/syllatech-api/internal/tasks"
	"github.com/diagnosis/syllatech-api/pkg/config"
	"github.com/diagnosis/syllatech-api/pkg/database"
	"github.com/diagnosis/syllatech-api/pkg/events"
	"github.com/diagnosis/syllatech-api/pkg/logger"
	mw "github.com/diagnosis/syllatech-api/pkg/middleware"
)

const (
	idempotencyTTL     = 24 * time.Hour
	idempotencyCleanup = time.Hour
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(ctx, db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		db.Close()
		os.Exit(1)
	}

	queue := tasks.New(tasks.Options{
		Workers:     cfg.Tasks.Workers,
		Size:        cfg.Tasks.QueueSize,
		TaskTimeout: cfg.Tasks.Timeout,
	})
	campaignQueue := tasks.New(tasks.Options{
		Workers:     1,
		Size:        cfg.Tasks.CampaignQueueSize,
		TaskTimeout: cfg.Tasks.CampaignTimeout,
	})
	pool := tasks.Pool{queue, campaignQueue}

	bgCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()

	var store mw.IdempotencyStore
	var redisStore *cache.RedisStore
	if cfg.Redis.URL != "" {
		redisStore, err = cache.NewRedisStore(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Warn("Redis unavailable, falling back to Postgres idempotency keys", "error", err)
			redisStore = nil
		} else {
			store = redisStore
		}
	}
	if store == nil {
		pgStore := postgres.NewIdempotencyRepo(db)
		queue.Every(bgCtx, "idempotency.cleanup", idempotencyCleanup, func(ctx context.Context) error {
			n, err := pgStore.CleanupExpired(ctx)
			if err == nil && n > 0 {
				logger.InfoContext(ctx, "expired idempotency keys removed", "count", n)
			}
			return err
		})
		store = pgStore
	}

	var bus events.Publisher = events.NopBus{}
	if cfg.NATS.URL != "" {
		nb, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Warn("NATS unavailable, events disabled", "error", err)
		} else {
			bus = nb
		}
	}

	sender := mailer.New(cfg.Email)
	if !sender.Enabled() {
		logger.Warn("No mail provider configured, emails will be skipped")
	}
	dispatcher := notify.NewDispatcher(sender, queue, notify.Links{
		SiteURL:    cfg.Site.PublicURL,
		BackendURL: cfg.Site.BackendURL,
	}, cfg.Email.OwnerAddress())

	repos := service.Repos{
		Bookings:     postgres.NewBookingRepo(db),
		Newsletter:   postgres.NewNewsletterRepo(db),
		Contacts:     postgres.NewContactRepo(db),
		Unsubscribed: postgres.NewUnsubscribeRepo(db),
		Status:       postgres.NewStatusRepo(db),
		Visits:       postgres.NewVisitRepo(db),
		Settings:     postgres.NewSettingsRepo(db),
		Audience:     postgres.NewAudienceRepo(db),
	}

	h := handlers.New(handlers.Services{
		Submissions:  service.NewSubmissionService(repos, dispatcher, bus),
		Availability: service.NewAvailabilityService(repos.Settings, repos.Bookings),
		Visits:       service.NewVisitTracker(repos.Visits, geo.NewClient(cfg.Geo.Endpoint, cfg.Geo.Timeout), queue),
		Admin: service.NewAdminService(repos, pool, service.AdminOptions{
			EnvSecret:  cfg.Auth.AdminSecret,
			JWTSecret:  cfg.Auth.JWTSecret,
			SessionTTL: cfg.Auth.AdminSessionTTL,
		}),
		Campaigns: service.NewCampaignService(repos, dispatcher, campaignQueue, cfg.Tasks.CampaignConcurrency),
	})

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("syllatech-api"))
	r.Use(mw.Logging)
	r.Use(mw.Recover)
	r.Use(mw.CORS(cfg.Server.CORSOrigins))
	r.Use(mw.Health(db.Ping))
	r.Mount("/api", h.Routes(mw.IdempotencyMiddleware(store, idempotencyTTL)))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		stopBackground()
		if err := pool.Shutdown(ctx); err != nil {
			logger.Warn("Background tasks did not finish", "error", err, "stats", pool.Stats())
		}
	}()

	logger.Info("Starting server", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	<-done

	if err := bus.Close(); err != nil {
		logger.Warn("Event bus close error", "error", err)
	}
	if redisStore != nil {
		if err := redisStore.Close(); err != nil {
			logger.Warn("Redis close error", "error", err)
		}
	}
	db.Close()
	logger.Info("Server stopped")
}
