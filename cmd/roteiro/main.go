// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/roteiro-cms/roteiro/internal/ai"
	"github.com/roteiro-cms/roteiro/internal/cache"
	"github.com/roteiro-cms/roteiro/internal/config"
	"github.com/roteiro-cms/roteiro/internal/geoip"
	"github.com/roteiro-cms/roteiro/internal/handler/api"
	"github.com/roteiro-cms/roteiro/internal/logging"
	"github.com/roteiro-cms/roteiro/internal/middleware"
	"github.com/roteiro-cms/roteiro/internal/service"
	"github.com/roteiro-cms/roteiro/internal/session"
	"github.com/roteiro-cms/roteiro/internal/store"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Roteiro - Hotel Blog CMS\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ROTEIRO_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ROTEIRO_DB_PATH          SQLite database path (default: ./data/roteiro.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ROTEIRO_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ROTEIRO_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ROTEIRO_AI_API_KEY       OpenAI-compatible API key for content generation (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ROTEIRO_AI_BASE_URL      Chat API base URL (default: Groq)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ROTEIRO_REDIS_URL        Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ROTEIRO_GEOIP_DB_PATH    GeoLite2 country database path (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("roteiro %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the events table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Cache: Redis when configured, in-process memory otherwise
	backend := cache.New(cache.Options{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:    cfg.CacheMaxSize,
	})
	defer func() {
		if err := backend.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	postCache := cache.NewPostCache(backend, time.Duration(cfg.CacheTTL)*time.Second)
	if cfg.UseRedisCache() {
		slog.Info("cache initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache initialized", "backend", "memory")
	}

	// GeoIP country lookup for the audit trail (optional)
	geo := geoip.NewLookup()
	if err := geo.Init(cfg.GeoIPDBPath); err != nil {
		slog.Warn("geoip init failed, country enrichment disabled", "error", err)
	}
	defer func() { _ = geo.Close() }()

	eventService := service.NewEventService(db, geo)
	postService := service.NewPostService(db, postCache, eventService)

	// AI content generation (optional)
	var generator *ai.Generator
	if cfg.AIEnabled() {
		aiClient, err := ai.NewClient(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		if err != nil {
			return fmt.Errorf("initializing ai client: %w", err)
		}
		generator = ai.NewGenerator(aiClient)
		slog.Info("content generation enabled", "base_url", cfg.AIBaseURL, "model", cfg.AIModel)
	} else {
		slog.Info("content generation disabled, no API key configured")
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))
	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)

	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	csrfMiddleware := middleware.CSRF(csrfConfig)
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	publicRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)

	apiHandler := api.NewHandler(db, postService, eventService, generator, sessionManager, loginProtection)

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			api.WriteError(w, http.StatusServiceUnavailable, "unhealthy", "Database unreachable", nil)
			return
		}
		api.WriteSuccess(w, map[string]string{"status": "ok", "version": appVersion}, nil)
	})

	// Public blog endpoints
	r.Group(func(r chi.Router) {
		r.Use(publicRateLimiter.Middleware())
		r.Get("/api/blog", apiHandler.ListPublishedPosts)
		r.Get("/api/blog/{slug}", apiHandler.GetPublishedPost)
	})

	// Auth endpoints (rate limited + account lockout on POST /login)
	r.Group(func(r chi.Router) {
		r.Use(publicRateLimiter.Middleware())
		r.Use(csrfMiddleware)
		r.With(loginProtection.Middleware()).Post("/api/auth/login", apiHandler.Login)
		r.Post("/api/auth/logout", apiHandler.Logout)
		r.With(middleware.Auth(sessionManager), middleware.LoadUser(sessionManager, db)).
			Get("/api/auth/me", apiHandler.Me)
	})

	// Dashboard endpoints (session authenticated)
	r.Route("/api", func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))

		// Posts: role and tenant checks happen in the service layer
		r.Get("/posts", apiHandler.ListPosts)
		r.Post("/posts", apiHandler.CreatePost)
		r.Get("/posts/{id}", apiHandler.GetPost)
		r.Put("/posts/{id}", apiHandler.UpdatePost)
		r.Delete("/posts/{id}", apiHandler.DeletePost)

		// Hotel detail: admins read any, staff read their own
		r.Get("/hotels/{id}", apiHandler.GetHotel)

		// AI content generation
		r.Post("/generate/article", apiHandler.GenerateArticle)
		r.Post("/generate/suggestions", apiHandler.SuggestTopics)

		// Admin-only management
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())

			r.Get("/admin/hotels", apiHandler.ListHotels)
			r.Post("/admin/hotels", apiHandler.CreateHotel)
			r.Put("/admin/hotels/{id}", apiHandler.UpdateHotel)

			r.Get("/admin/users", apiHandler.ListUsers)
			r.Post("/admin/users", apiHandler.CreateUser)
			r.Get("/admin/users/{id}", apiHandler.GetUser)

			r.Get("/admin/stats", apiHandler.AdminStats)

			r.Get("/admin/keys", apiHandler.ListAPIKeys)
			r.Post("/admin/keys", apiHandler.CreateAPIKey)
			r.Delete("/admin/keys/{id}", apiHandler.DeactivateAPIKey)
		})
	})

	// Integration API (API key authenticated)
	r.Route("/api/v1", func(r chi.Router) {
		apiRateLimiter := middleware.NewGlobalRateLimiter(100, 200)
		r.Use(apiRateLimiter.Middleware())

		r.Get("/status", apiHandler.Status)

		r.Group(func(r chi.Router) {
			r.Use(middleware.APIKeyAuth(db))
			r.Use(middleware.APIRateLimit(10, 20))

			r.Get("/auth", apiHandler.AuthInfo)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission("posts:read"))
				r.Get("/posts", apiHandler.IntegrationListPosts)
				r.Get("/posts/{id}", apiHandler.IntegrationGetPost)
			})
		})
	})
	slog.Info("REST API mounted", "public", "/api/blog", "dashboard", "/api", "integration", "/api/v1")

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}
