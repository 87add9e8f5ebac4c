package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/proGsa/travel-booking/internal/core/port"
	"github.com/proGsa/travel-booking/internal/infra/config"
	"github.com/proGsa/travel-booking/internal/infra/database"
	kafkainfra "github.com/proGsa/travel-booking/internal/infra/kafka"
	"github.com/proGsa/travel-booking/internal/infra/logger"
	"github.com/proGsa/travel-booking/internal/infra/mail"
	redisinfra "github.com/proGsa/travel-booking/internal/infra/redis"
	"github.com/proGsa/travel-booking/internal/infra/security"
	"github.com/proGsa/travel-booking/internal/infra/telemetry"
	postgresrepo "github.com/proGsa/travel-booking/internal/repository/postgres"
	redisrepo "github.com/proGsa/travel-booking/internal/repository/redis"
	"github.com/proGsa/travel-booking/internal/transport/http/middleware"
	"github.com/proGsa/travel-booking/internal/transport/http/routes"
	"github.com/proGsa/travel-booking/internal/usecase"
)

// Application owns the wired dependency graph and the HTTP server lifecycle.
type Application struct {
	cfg      *config.AppConfig
	engine   *gin.Engine
	logger   *zap.Logger
	postgres *database.Postgres
	redis    *redisinfra.Client
	producer *kafkainfra.Producer
	tracing  *telemetry.TracerProvider
}

// New builds the full application: config-driven infrastructure, repositories,
// services, and the HTTP router.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log := logger.Init(cfg.App.Env)

	tracing, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}

	pg, err := database.NewPostgres(ctx, cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	redisClient, err := redisinfra.NewClient(ctx, cfg.Redis)
	if err != nil {
		pg.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	keyProvider, err := security.NewKeyProvider(cfg.App.Env, cfg.JWT.KeyDirectory)
	if err != nil {
		return nil, fmt.Errorf("init key provider: %w", err)
	}

	tokenGenerator, err := security.NewTokenGenerator(keyProvider, "v1")
	if err != nil {
		return nil, fmt.Errorf("init token generator: %w", err)
	}

	argonCfg := security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}
	if err := security.ConfigureArgon2(argonCfg); err != nil {
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	repos := postgresrepo.NewRepositories(pg.Pool)

	attemptStore := redisrepo.NewAttemptRepository(redisClient.Redis(), cfg.Auth.LockoutTTL, cfg.Auth.LockoutTTL)
	challengeStore := redisrepo.NewChallengeRepository(redisClient.Redis())

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitRepository(redisClient.Redis(), redisrepo.SlidingWindowConfig{
		KeyPrefix: "travel:rate-limit",
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	var mailer port.Mailer
	if cfg.SMTP.Host != "" {
		mailer = mail.NewSMTPMailer(cfg.SMTP, log)
	} else {
		log.Info("smtp host not configured, logging verification codes instead")
		mailer = mail.NewLogMailer(log)
	}

	var eventPublisher port.EventPublisher
	var producer *kafkainfra.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	metrics := telemetry.NewMetrics(nil)
	passwordValidator := security.DefaultPasswordValidator()

	authService := usecase.NewAuthService(
		cfg,
		repos.Users,
		attemptStore,
		challengeStore,
		mailer,
		eventPublisher,
		tokenGenerator,
		keyProvider,
		log,
	).WithMetrics(metrics)

	registrationService := usecase.NewRegistrationService(repos.Users, eventPublisher, passwordValidator, authService, log)
	passwordService := usecase.NewPasswordService(repos.Users, attemptStore, eventPublisher, passwordValidator, log)
	userService := usecase.NewUserService(repos.Users, repos.Travels, log)
	catalogService := usecase.NewCatalogService(repos.Cities, repos.Accommodations, repos.Entertainments, repos.DirectoryRoutes, log)
	travelService := usecase.NewTravelService(repos.Travels, repos.Routes, log)

	httpMetrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Metrics:     httpMetrics,
		Database:    pg,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Auth:         authService,
			Registration: registrationService,
			Passwords:    passwordService,
			Users:        userService,
			Catalog:      catalogService,
			Travels:      travelService,
		},
	})

	return &Application{
		cfg:      cfg,
		engine:   engine,
		logger:   log,
		postgres: pg,
		redis:    redisClient,
		producer: producer,
		tracing:  tracing,
	}, nil
}

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.postgres != nil {
			a.postgres.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.producer != nil {
			_ = a.producer.Close()
		}
	}()
	defer func() {
		if a.tracing != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = a.tracing.Shutdown(shutdownCtx)
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting travel booking API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
