package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/charitymap/charitymap-api/internal/http/handlers"
	authmw "github.com/charitymap/charitymap-api/internal/http/middleware"
	"github.com/charitymap/charitymap-api/internal/mailer"
	"github.com/charitymap/charitymap-api/internal/repo/postgres"
	"github.com/charitymap/charitymap-api/internal/service"
	"github.com/charitymap/charitymap-api/pkg/config"
	"github.com/charitymap/charitymap-api/pkg/database"
	"github.com/charitymap/charitymap-api/pkg/events"
	"github.com/charitymap/charitymap-api/pkg/logger"
	mw "github.com/charitymap/charitymap-api/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	// Connect to database
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Event bus is optional; without NATS events are discarded
	var bus events.Publisher = events.NewNoopBus()
	if cfg.NATS.URL != "" {
		natsBus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		bus = natsBus
	}
	defer bus.Close()

	// Redis backs the auth rate limiter
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	// Mailer
	var mail mailer.Service
	if cfg.Email.DevMode {
		mail = mailer.NewDevMailer()
	} else {
		mail = mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}

	// Initialize repositories
	usersRepo := postgres.NewUsersRepo(pool)
	invitesRepo := postgres.NewInvitesRepo(pool)
	eventsRepo := postgres.NewEventsRepo(pool)

	// Initialize services
	authService := service.NewAuthService(usersRepo, invitesRepo, mail, bus, cfg)
	eventsService := service.NewEventsService(eventsRepo, bus)

	// Initialize handlers and the authorization gate
	h := handlers.New(authService, eventsService)
	gate := authmw.NewAuthenticator(usersRepo, cfg.Auth.JWTSecret)
	authLimit := authmw.NewRateLimiter(redisClient, authmw.RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
	})

	// Setup router
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.Frontend.BaseURL},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.Health)

	r.Route("/auth", func(r chi.Router) {
		r.With(authLimit.Middleware()).Post("/login", h.Login)
		r.With(authLimit.Middleware()).Post("/register", h.Register)
		r.Get("/verify-invite/{token}", h.VerifyInvite)

		r.Group(func(r chi.Router) {
			r.Use(gate.RequireAuth)
			r.Get("/me", h.Me)
			r.With(gate.RequireAdmin).Post("/create-invite", h.CreateInvite)
		})
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.ListEvents)
		r.Get("/{id}", h.GetEvent)

		r.Group(func(r chi.Router) {
			r.Use(gate.RequireAuth)
			r.Post("/", h.CreateEvent)
			r.Put("/{id}", h.UpdateEvent)
			r.Delete("/{id}", h.DeleteEvent)
		})
	})

	r.With(gate.RequireAuth).Get("/my-events", h.MyEvents)

	// Start server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("API server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API server", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("API server error", "error", err)
		os.Exit(1)
	}
}
