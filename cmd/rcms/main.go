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

	"github.com/rcmslabs/rcms/internal/cache"
	"github.com/rcmslabs/rcms/internal/config"
	"github.com/rcmslabs/rcms/internal/handler/api"
	"github.com/rcmslabs/rcms/internal/handler/site"
	"github.com/rcmslabs/rcms/internal/logging"
	"github.com/rcmslabs/rcms/internal/middleware"
	"github.com/rcmslabs/rcms/internal/scheduler"
	"github.com/rcmslabs/rcms/internal/service"
	"github.com/rcmslabs/rcms/internal/session"
	"github.com/rcmslabs/rcms/internal/store"
	"github.com/rcmslabs/rcms/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "rCMS - Research Content Management System\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RCMS_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RCMS_DB_PATH           SQLite database path (default: ./data/rcms.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RCMS_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RCMS_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RCMS_SITE_URL          Public base URL for sitemap and canonical links\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RCMS_UPLOADS_DIR       Media uploads directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RCMS_REDIS_URL         Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RCMS_DO_SEED           Seed the default admin and sample content (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "\nFor more information, see: https://github.com/rcmslabs/rcms\n")
	}

	flag.Parse()

	// Handle -h/-help flag
	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	// Handle -v/-version flag
	if *showVersion {
		_, _ = fmt.Printf("rcms %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := &version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Setup logger
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

	// Initialize database
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		err = db.Close()
		if err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	// Run migrations
	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the audit log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	eventLogHandler := logging.NewEventLogHandler(textHandler, db)
	logger = slog.New(eventLogHandler)
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	// Seed default admin and sample content
	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	// Initialize session manager
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Initialize the published-page cache: Redis when configured, memory
	// otherwise
	cacher, err := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	})
	if err != nil {
		slog.Warn("cache backend unavailable, falling back to memory", "error", err)
		cacher = cache.NewWithTTL(time.Duration(cfg.CacheTTL) * time.Second)
	}
	defer func() {
		if err := cacher.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	pageCache := cache.NewPageCache(cacher, store.New(db), time.Duration(cfg.CacheTTL)*time.Second)
	if cfg.UseRedisCache() {
		slog.Info("cache initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache initialized", "backend", "memory")
	}

	// Initialize services
	eventService := service.NewEventService(db)
	pageService := service.NewPageService(db, eventService, pageCache)
	userService := service.NewUserService(db, eventService)
	researchService := service.NewResearchService(db, eventService)
	contentService := service.NewContentService(db, eventService)
	mediaService := service.NewMediaService(db, eventService, cfg.UploadsDir)
	themeService, err := service.NewThemeService(ctx, db, eventService)
	if err != nil {
		return fmt.Errorf("initializing theme service: %w", err)
	}

	// Initialize and start scheduler
	sched := scheduler.New(db, eventService, logger, int64(cfg.RevisionKeep))
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Initialize handlers
	apiHandler := api.NewHandler(db, sessionManager, api.Services{
		Pages:    pageService,
		Users:    userService,
		Themes:   themeService,
		Research: researchService,
		Content:  contentService,
		Media:    mediaService,
		Events:   eventService,
	})
	apiHandler.SetSiteURL(cfg.SiteURL)

	siteHandler := site.NewHandler(site.Config{
		DB:              db,
		Logger:          logger,
		SiteURL:         cfg.SiteURL,
		SecurityContact: cfg.SecurityContact,
		DisallowAll:     cfg.IsDevelopment(),
	})

	// Create router
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))                    // Gzip compression with level 5
	r.Use(chimw.GetHead)                        // Handle HEAD requests for uptime monitoring
	r.Use(middleware.Timeout(30 * time.Second)) // 30 second request timeout

	// Security headers middleware (CSP, HSTS, X-Frame-Options, etc.)
	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))

	r.Use(sessionManager.LoadAndSave)

	// CSRF protection for browser-originated state-changing requests.
	// The API is session-authenticated, so it is covered too.
	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	r.Use(middleware.CSRF(csrfConfig))
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	// Health check
	r.Get("/healthz", apiHandler.Healthz)

	// Crawler-facing surfaces
	r.Get("/sitemap.xml", siteHandler.Sitemap)
	r.Get("/robots.txt", siteHandler.Robots)
	r.Get("/.well-known/security.txt", siteHandler.SecurityTxt)

	// REST API, rate limited per IP
	apiRateLimiter := middleware.NewGlobalRateLimiter(100.0, 200)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiRateLimiter.Middleware())
		r.Mount("/", apiHandler.Routes())
	})

	// Uploaded media with long-lived cache headers
	r.Handle("/uploads/*", middleware.StaticCache(604800)(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir)))))

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // Longer to allow for large uploads and slow connections
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			"addr", cfg.ServerAddr(),
			"env", cfg.Env,
			"version", versionInfo.Version,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
