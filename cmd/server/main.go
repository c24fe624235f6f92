// @title Newsletter API
// @version 1.0
// @description Newsletter subscriptions with email confirmation, and admin newsletter publishing.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"newsletterapi/config"
	_ "newsletterapi/docs"
	"newsletterapi/internal/adapters/auth"
	"newsletterapi/internal/adapters/email"
	httpdelivery "newsletterapi/internal/delivery/http"
	"newsletterapi/internal/delivery/http/controllers"
	"newsletterapi/internal/repository/postgres"
	"newsletterapi/internal/services"
)

const confirmationPath = "/subscriptions/confirm"

func main() {
	cfg, err := config.Load()
	logger := config.InitLogger()
	if err != nil {
		logger.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}
	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.MigrateOnStart {
		if err := postgres.Migrate(ctx, db, logger); err != nil {
			return err
		}
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:           cfg.EmailClient.Provider,
		BaseURL:            cfg.EmailClient.BaseURL,
		AuthorizationToken: cfg.EmailClient.AuthorizationToken,
		FromAddress:        cfg.EmailClient.SenderEmail,
		FromName:           cfg.EmailClient.SenderName,
		Timeout:            cfg.EmailClient.Timeout(),
		SES: email.SESConfig{
			Region:             cfg.EmailClient.SES.Region,
			AccessKeyID:        cfg.EmailClient.SES.AccessKeyID,
			SecretAccessKey:    cfg.EmailClient.SES.SecretAccessKey,
			InsecureSkipVerify: cfg.EmailClient.SES.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create mailer: %w", err)
	}

	// Repositories
	subscriptionStore := postgres.NewSubscriptionRepository(db, logger)
	userRepo := postgres.NewUserRepository(db)

	// Services
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	subscriptionService := services.NewSubscriptionService(
		subscriptionStore,
		auth.NewRandomTokenGenerator(auth.SubscriptionTokenLength),
		emailService,
		strings.TrimSuffix(cfg.Application.BaseURL, "/")+confirmationPath,
		logger,
	)
	newsletterService := services.NewNewsletterService(subscriptionStore, mailer, cfg.Server.PublishTimeout, logger)
	adminService := services.NewAdminService(
		userRepo,
		auth.NewBcryptHasher(bcrypt.DefaultCost),
		auth.NewJWTIssuer(cfg.Auth.JWTSecret),
		auth.NewJWTVerifier(cfg.Auth.JWTSecret),
		cfg.Auth.JWTExpiry,
	)

	if cfg.Auth.AdminEmail != "" {
		if _, err := adminService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			return fmt.Errorf("failed to provision admin user: %w", err)
		}
		logger.Info("admin user provisioned", "email", cfg.Auth.AdminEmail)
	}

	router := httpdelivery.NewRouter(httpdelivery.Controllers{
		Health:       controllers.NewHealthController(),
		Subscription: controllers.NewSubscriptionController(logger, subscriptionService),
		Admin:        controllers.NewAdminController(logger, adminService),
		Newsletter:   controllers.NewNewsletterController(logger, newsletterService),
	}, adminService, logger)

	srv := &http.Server{
		Addr:         cfg.Application.Addr(),
		Handler:      httpdelivery.NewHandler(router, logger, cfg.Server.RequestTimeout, cfg.Server.CORSAllowedOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func openDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
