package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Creastina/bambushain/internal/config"
	"github.com/Creastina/bambushain/internal/database"
	"github.com/Creastina/bambushain/internal/handler"
	"github.com/Creastina/bambushain/internal/jobs"
	"github.com/Creastina/bambushain/internal/mail"
	"github.com/Creastina/bambushain/internal/middleware"
	"github.com/Creastina/bambushain/internal/repository"
	"github.com/Creastina/bambushain/internal/service"
	"github.com/Creastina/bambushain/internal/telemetry"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsDevelopment() {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		slog.Error("failed to set up tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := database.ApplySchema(ctx, db); err != nil {
		slog.Error("failed to apply schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize mail delivery
	var sender mail.Sender = mail.LogSender{}
	if cfg.Mail.APIKey != "" {
		sender = mail.NewResendSender(cfg.Mail.APIKey, cfg.Mail.From)
	} else {
		slog.Warn("no mail api key configured, mails are only logged")
	}

	var mailWorker *mail.Worker
	if cfg.Mail.RedisAddress != "" {
		mailWorker = mail.NewWorker(cfg.Mail.RedisAddress, sender)
		if err := mailWorker.Start(); err != nil {
			slog.Error("failed to start mail worker", slog.String("error", err.Error()))
			os.Exit(1)
		}
		queue := mail.NewQueueSender(cfg.Mail.RedisAddress)
		defer func() { _ = queue.Close() }()
		sender = queue
	}

	mailer, err := mail.NewMailer(mail.MailerConfig{
		Sender:         sender,
		SupportAddress: cfg.Mail.SupportAddress,
		BaseURL:        cfg.Server.BaseURL,
		TwoFactorTTL:   cfg.Auth.TwoFactorTTL,
	})
	if err != nil {
		slog.Error("failed to parse mail templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	groveRepo := repository.NewGroveRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	characterRepo := repository.NewCharacterRepository(db)
	crafterRepo := repository.NewCrafterRepository(db)
	fighterRepo := repository.NewFighterRepository(db)
	housingRepo := repository.NewHousingRepository(db)
	freeCompanyRepo := repository.NewFreeCompanyRepository(db)
	customFieldRepo := repository.NewCustomFieldRepository(db)
	eventRepo := repository.NewEventRepository(db)

	// Initialize broadcasters
	eventBroadcaster := service.NewEventBroadcaster(cfg.Broadcast.PingInterval)
	calendarBroadcaster := service.NewCalendarBroadcaster(cfg.Broadcast.PingInterval)

	// Initialize services
	tokenService := service.NewTokenService(service.TokenServiceConfig{
		TokenRepo: tokenRepo,
		TTL:       cfg.Auth.TokenTTL,
	})

	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:     userRepo,
		GroveRepo:    groveRepo,
		TokenService: tokenService,
		Mailer:       mailer,
		TwoFactorTTL: cfg.Auth.TwoFactorTTL,
	})

	userService := service.NewUserService(service.UserServiceConfig{
		UserRepo:     userRepo,
		GroveRepo:    groveRepo,
		TokenService: tokenService,
		Mailer:       mailer,
	})

	groveService := service.NewGroveService(service.GroveServiceConfig{
		GroveRepo: groveRepo,
		UserRepo:  userRepo,
		Mailer:    mailer,
	})

	characterService := service.NewCharacterService(service.CharacterServiceConfig{
		CharacterRepo:   characterRepo,
		CrafterRepo:     crafterRepo,
		FighterRepo:     fighterRepo,
		HousingRepo:     housingRepo,
		FreeCompanyRepo: freeCompanyRepo,
	})

	customFieldService := service.NewCustomFieldService(customFieldRepo)

	eventService := service.NewEventService(service.EventServiceConfig{
		EventRepo: eventRepo,
		Publisher: eventBroadcaster,
		Calendar:  calendarBroadcaster,
	})

	supportService := service.NewSupportService(mailer)

	// Start background jobs
	tokenCleanup := jobs.NewTokenCleanup(tokenService, authService, time.Hour)
	tokenCleanup.Start()

	// Rate limiter for the login routes
	loginLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Rate:   cfg.RateLimit.RequestsPerMinute,
		Window: time.Minute,
		Burst:  cfg.RateLimit.Burst,
	})

	// Register routes
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Health: handler.NewHealthHandler(db),
		Auth: handler.NewAuthHandler(handler.AuthHandlerConfig{
			AuthService:  authService,
			CookieName:   cfg.Auth.CookieName,
			CookieSecure: cfg.Auth.CookieSecure,
			TokenTTL:     cfg.Auth.TokenTTL,
		}),
		User:        handler.NewUserHandler(userService),
		Grove:       handler.NewGroveHandler(groveService),
		Character:   handler.NewCharacterHandler(characterService),
		CustomField: handler.NewCustomFieldHandler(customFieldService),
		Event:       handler.NewEventHandler(eventService),
		Support:     handler.NewSupportHandler(supportService),
		SSE:         handler.NewSSEHandler(eventBroadcaster, calendarBroadcaster),
	}, handler.RouteGuards{
		Auth:       middleware.Auth(authService, cfg.Auth.CookieName),
		Admin:      middleware.AdminKey(cfg.Auth.AdminAPIKey),
		LoginLimit: middleware.RateLimit(loginLimiter),
	})

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Tracing,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Open streams would otherwise hold Shutdown until the timeout
	eventBroadcaster.Close()
	calendarBroadcaster.Close()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	tokenCleanup.Stop()
	loginLimiter.Stop()
	if mailWorker != nil {
		mailWorker.Stop()
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("failed to flush traces", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
