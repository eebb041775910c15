// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"net/smtp"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/gatherly/gatherly/internal/config"
	"github.com/gatherly/gatherly/internal/database"
	"github.com/gatherly/gatherly/internal/handler"
	"github.com/gatherly/gatherly/internal/notify"
	"github.com/gatherly/gatherly/internal/repository"
	"github.com/gatherly/gatherly/internal/service"
	"github.com/gatherly/gatherly/internal/summary"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Fatal("startup failed", zap.Error(err))
	}
}

func run(log *zap.Logger) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// ── 1. Connect to PostgreSQL ──────────────────────────────────────────
	pool, err := database.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()
	if err := database.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Info("connected to postgres", zap.String("db", cfg.Database.DBName))

	// Optional Redis count cache.
	var counts *repository.CountCache
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		counts = repository.NewCountCache(client, cfg.Redis.CountTTL)
		log.Info("registration count cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// Notification sink: SMTP when configured, log sink otherwise.
	var sink notify.Notifier
	if cfg.SMTP.Host != "" {
		var auth smtp.Auth
		if cfg.SMTP.Username != "" {
			auth = smtp.PlainAuth("", cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.Host)
		}
		sink = notify.NewSMTPNotifier(cfg.SMTP.Addr(), cfg.SMTP.From, auth)
	} else {
		sink = notify.NewLogNotifier(log)
	}
	dispatcher := notify.NewDispatcher(sink, log, 256)
	defer dispatcher.Close()

	// ── 2. Wire up layers ────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	eventRepo := repository.NewEventRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	regRepo := repository.NewRegistrationRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)

	authSvc := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	eventSvc := service.NewEventService(eventRepo, categoryRepo, regRepo, counts)
	regSvc := service.NewRegistrationService(eventRepo, regRepo, counts, dispatcher)
	feedbackSvc := service.NewFeedbackService(eventRepo, regRepo, feedbackRepo, summary.Static{})
	messageSvc := service.NewMessageService(messageRepo, userRepo)

	authHandler := handler.NewAuthHandler(authSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	regHandler := handler.NewRegistrationHandler(regSvc)
	feedbackHandler := handler.NewFeedbackHandler(feedbackSvc)
	messageHandler := handler.NewMessageHandler(messageSvc)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger(log))     // structured access log
	r.Use(handler.CORS)            // permissive CORS for browser clients

	r.Get("/health", handler.HealthCheck)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(handler.RequireAuth(authSvc))

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", eventHandler.ListCategories)
			r.Post("/", eventHandler.CreateCategory)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventHandler.ListEvents)
			r.Post("/", eventHandler.CreateEvent)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", eventHandler.GetEvent)
				r.Put("/", eventHandler.UpdateEvent)
				r.Delete("/", eventHandler.DeleteEvent)

				r.Post("/register", regHandler.Register)
				r.Delete("/register", regHandler.Cancel)
				r.Get("/registrations", regHandler.ListRegistrations)
				r.Post("/registrations/{userID}/attended", regHandler.MarkAttended)

				r.Get("/feedback", feedbackHandler.ListFeedback)
				r.Post("/feedback", feedbackHandler.SubmitFeedback)
				r.Get("/suggestions", feedbackHandler.ListSuggestions)
				r.Post("/suggestions", feedbackHandler.SubmitSuggestion)
				r.Get("/summary", feedbackHandler.Summary)
			})
		})

		r.Get("/dashboard", eventHandler.Dashboard)
		r.Get("/profile/registrations", regHandler.MyRegistrations)

		r.Route("/messages", func(r chi.Router) {
			r.Get("/", messageHandler.Inbox)
			r.Post("/", messageHandler.Send)
			r.Get("/{userID}", messageHandler.Conversation)
		})
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-quit:
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
