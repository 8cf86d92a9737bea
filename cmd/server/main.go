// Package main runs the Cercle Partages HTTP API with graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"cerclepartages/config"
	"cerclepartages/internal/adapters/auth"
	"cerclepartages/internal/adapters/email"
	"cerclepartages/internal/adapters/queue"
	"cerclepartages/internal/adapters/storage"
	httpdelivery "cerclepartages/internal/delivery/http"
	"cerclepartages/internal/delivery/http/controllers"
	"cerclepartages/internal/delivery/http/middleware"
	"cerclepartages/internal/domain"
	"cerclepartages/internal/repository/postgres"
	"cerclepartages/internal/services"
)

const serviceTimeout = 5 * time.Second

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		logger.Error("database", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		logger.Error("migrate", "err", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	presenterRepo := postgres.NewEventPresenterRepository(db)
	documentRepo := postgres.NewEventDocumentRepository(db)
	invitationRepo := postgres.NewInvitationRepository(db)

	// Email: direct sends, or through the Redis queue when configured.
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.SES.Region,
			AccessKeyID:     cfg.Email.SES.AccessKeyID,
			SecretAccessKey: cfg.Email.SES.SecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("mailer", "err", err)
		os.Exit(1)
	}

	var mailQueue domain.MailQueue
	if cfg.Redis.Addr != "" {
		rdb, err := queue.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Error("redis", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
		mailQueue = queue.NewQueue(rdb, logger)
		logger.Info("email queue enabled", "addr", cfg.Redis.Addr)
	}

	// Object storage. Without a region uploads are rejected at the
	// handlers, everything else keeps working.
	var store domain.ObjectStore
	if cfg.S3.Region != "" {
		s3Store, err := storage.NewS3(ctx, storage.Config{
			Region:          cfg.S3.Region,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			ImagesBucket:    cfg.S3.ImagesBucket,
			VideosBucket:    cfg.S3.VideosBucket,
			DocumentsBucket: cfg.S3.DocumentsBucket,
			AvatarsBucket:   cfg.S3.AvatarsBucket,
		}, logger)
		if err != nil {
			logger.Warn("s3 disabled", "err", err)
		} else {
			store = s3Store
		}
	}

	hasher := auth.NewBcryptHasher(bcrypt.DefaultCost)
	issuer := auth.NewJWTIssuer(cfg.JWTSecret)
	verifier := auth.NewJWTVerifier(cfg.JWTSecret)

	// Services
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), mailQueue, cfg.Email.ContactAddress, logger)
	authService := services.NewAuthService(userRepo, roleRepo, profileRepo, invitationRepo, hasher, issuer, cfg.TokenExpiry, serviceTimeout, time.Now)
	profileService := services.NewProfileService(profileRepo, serviceTimeout)
	eventService := services.NewEventService(eventRepo, registrationRepo, presenterRepo, documentRepo, profileRepo, roleRepo, emailService, store, cfg.PublicBaseURL, serviceTimeout)
	registrationService := services.NewRegistrationService(registrationRepo, eventRepo, serviceTimeout)
	invitationService := services.NewInvitationService(invitationRepo, emailService, cfg.PublicBaseURL, cfg.InvitationTTL, serviceTimeout, time.Now)
	userAdminService := services.NewUserAdminService(userRepo, roleRepo, profileRepo, serviceTimeout)

	// Controllers and routes
	router := httpdelivery.NewRouter(httpdelivery.Controllers{
		Auth:          controllers.NewAuthController(logger, authService),
		Profiles:      controllers.NewProfileController(logger, profileService),
		Events:        controllers.NewEventController(logger, eventService),
		Registrations: controllers.NewRegistrationController(logger, registrationService),
		Invitations:   controllers.NewInvitationController(logger, invitationService),
		Users:         controllers.NewUserController(logger, userAdminService),
		Media:         controllers.NewMediaController(logger, store, eventService, profileService),
		Contact:       controllers.NewContactController(logger, emailService),
	}, verifier, roleRepo, logger)

	handler := middlewareChain(cfg, logger, router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", "err", err)
	}
	logger.Info("server stopped")
}

func middlewareChain(cfg *config.Config, logger *slog.Logger, next http.Handler) http.Handler {
	return middleware.LoggingMiddleware(logger, middleware.CORS(cfg.AllowedOrigins, next))
}
