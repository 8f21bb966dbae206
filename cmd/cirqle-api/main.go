package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	_ "github.com/cirqle/cirqle-api/api/swagger"
	"github.com/cirqle/cirqle-api/internal/handler"
	"github.com/cirqle/cirqle-api/internal/middleware"
	"github.com/cirqle/cirqle-api/internal/repository"
	"github.com/cirqle/cirqle-api/internal/server"
	"github.com/cirqle/cirqle-api/internal/service"
	"github.com/cirqle/cirqle-api/pkg/cache"
	"github.com/cirqle/cirqle-api/pkg/config"
	"github.com/cirqle/cirqle-api/pkg/database"
	"github.com/cirqle/cirqle-api/pkg/firebase"
	"github.com/cirqle/cirqle-api/pkg/jobs"
	"github.com/cirqle/cirqle-api/pkg/logger"
	"github.com/cirqle/cirqle-api/pkg/mail"
)

const (
	shutdownTimeout = 15 * time.Second
	mailSendTimeout = 10 * time.Second
	mailJobTimeout  = 30 * time.Second
)

// @title Cirqle API
// @version 1.0.0
// @description Personal booking pages: host settings, public calendars and the appointment booking flow.
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect to redis", zap.Error(err))
	}

	var (
		kv        repository.KVStore = repository.NewMemoryKVStore()
		cacheRepo service.CacheRepository
	)
	if redisClient != nil {
		defer redisClient.Close()
		kv = repository.NewKVStore(redisClient)
		cacheRepo = repository.NewCacheRepository(redisClient, "cirqle")
	} else {
		logr.Warn("redis disabled; booking sessions and one-time tokens are kept in process memory")
	}

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Booking.ProfileCacheTTL, logr, cacheRepo != nil)
	validate := service.NewValidator()

	users := repository.NewUserRepository(db)
	calendars := repository.NewCalendarRepository(db)
	bookings := repository.NewBookingRepository(db)
	prefs := repository.NewPreferencesRepository(db)
	sessions := repository.NewSessionRepository(kv, cfg.Booking.SessionTTL)
	tokens := repository.NewTokenRepository(kv)

	sender, err := mail.NewSender(cfg.Mail, logr)
	if err != nil {
		logr.Fatal("failed to configure mail sender", zap.Error(err))
	}
	notifier := service.NewNotificationService(sender, bookings, metrics, service.NotificationConfig{
		AdminAddress:  cfg.Mail.AdminAddress,
		PublicBaseURL: cfg.PublicBaseURL,
		SendTimeout:   mailSendTimeout,
	}, logr)

	// Failed e-mail is logged and counted, never retried.
	emailQueue := jobs.NewQueue("email", notifier.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Notifications.Workers,
		BufferSize: cfg.Notifications.BufferSize,
		MaxRetries: 0,
		JobTimeout: mailJobTimeout,
		Logger:     logr,
	})
	notifier.SetDispatcher(emailQueue)
	emailQueue.Start(context.Background())
	defer emailQueue.Stop()

	ioTimeout := cfg.Booking.IOTimeout
	authSvc := service.NewAuthService(users, tokens, notifier, validate, logr, service.AuthConfig{
		AccessTokenSecret:    cfg.JWT.Secret,
		AccessTokenExpiry:    cfg.JWT.Expiration,
		Issuer:               cfg.JWT.Issuer,
		VerificationTokenTTL: cfg.Auth.VerificationTokenTTL,
		ResetTokenTTL:        cfg.Auth.ResetTokenTTL,
		IOTimeout:            ioTimeout,
	})
	hostSvc := service.NewHostService(users, calendars, notifier, cacheSvc, validate, logr, service.HostConfig{
		PublicBaseURL:   cfg.PublicBaseURL,
		DefaultTimezone: cfg.Booking.DefaultTimezone,
		IOTimeout:       ioTimeout,
		ProfileCacheTTL: cfg.Booking.ProfileCacheTTL,
	})
	availabilitySvc := service.NewAvailabilityService(hostSvc, bookings, metrics, logr, ioTimeout)
	bookingSvc := service.NewBookingService(hostSvc, bookings, prefs, notifier, validate, metrics, logr, ioTimeout)
	flowSvc := service.NewBookingFlowService(sessions, hostSvc, availabilitySvc, bookingSvc, metrics, logr, ioTimeout)
	prefsSvc := service.NewPreferencesService(prefs, validate, ioTimeout)
	exportSvc := service.NewExportService(bookingSvc, logr, nil, nil)

	tokenValidator, err := newTokenValidator(ctx, cfg, authSvc, users, logr)
	if err != nil {
		logr.Fatal("failed to configure authentication", zap.Error(err))
	}

	router := server.NewRouter(server.Dependencies{
		Config:    cfg,
		Logger:    logr,
		Metrics:   metrics,
		Tokens:    tokenValidator,
		RateLimit: middleware.NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst, logr),
	}, server.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		Host:         handler.NewHostHandler(hostSvc),
		Preferences:  handler.NewPreferencesHandler(prefsSvc),
		Agenda:       handler.NewAgendaHandler(bookingSvc, exportSvc),
		Availability: handler.NewAvailabilityHandler(availabilitySvc),
		Booking:      handler.NewBookingHandler(hostSvc, bookingSvc),
		Flow:         handler.NewFlowHandler(flowSvc),
		Email:        handler.NewEmailHandler(notifier, logr),
		Metrics:      handler.NewMetricsHandler(metrics, readinessChecks(db, redisClient), logr),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("auth_provider", cfg.Auth.Provider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

// newTokenValidator selects the identity provider named by AUTH_PROVIDER.
func newTokenValidator(ctx context.Context, cfg *config.Config, local *service.AuthService, users *repository.UserRepository, logr *zap.Logger) (middleware.TokenValidator, error) {
	switch cfg.Auth.Provider {
	case "", config.AuthProviderLocal:
		return local, nil
	case config.AuthProviderFirebase:
		client, err := firebase.NewAuthClient(ctx, cfg.Auth)
		if err != nil {
			return nil, err
		}
		return service.NewFirebaseTokenValidator(client, users, logr, cfg.Booking.IOTimeout), nil
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
	}
}

func readinessChecks(db *sqlx.DB, client *redis.Client) map[string]handler.ReadinessCheck {
	checks := map[string]handler.ReadinessCheck{"postgres": db.PingContext}
	if client != nil {
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	return checks
}
