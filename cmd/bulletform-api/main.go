// Package main is the entry point for the bulletform-api server.
// Licensing is self-contained: keys are minted on purchase webhooks and
// validated against the local key-value store, with no vendor API calls
// on the request path.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/bulletform/bulletform-api/internal/config"
	"github.com/bulletform/bulletform-api/internal/constants"
	"github.com/bulletform/bulletform-api/internal/http/handlers"
	"github.com/bulletform/bulletform-api/internal/http/mw"
	"github.com/bulletform/bulletform-api/internal/kv"
	"github.com/bulletform/bulletform-api/internal/logging"
	"github.com/bulletform/bulletform-api/internal/repository"
	"github.com/bulletform/bulletform-api/internal/service"
	"github.com/bulletform/bulletform-api/internal/version"
)

func main() {
	// Initialize logger with TTY detection and format control
	logger := logging.SetDefault()

	// Log version info first thing
	v := version.Get()
	logger.Info("starting bulletform-api",
		"version", v.Version,
		"commit", v.Commit,
		"built", v.Date,
		"go_version", v.GoVersion,
	)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize the key-value store backing usage counters and licenses
	var store kv.Store
	if cfg.HasKVStore() {
		redisStore, err := kv.Connect(context.Background(), cfg.KVURL)
		if err != nil {
			logger.Error("failed to connect to key-value store", "error", err)
			os.Exit(1)
		}
		defer func() { _ = redisStore.Close() }()
		store = redisStore
		logger.Info("key-value store connected")
	} else {
		// Counters vanish on restart and are per-instance. Fine for local
		// development, wrong for production.
		store = kv.NewMemoryStore()
		logger.Warn("KV_URL not set, using in-process store")
	}

	// Initialize repositories and services
	repos := repository.NewRepositories(store, logger)
	services := service.NewServices(cfg, repos, logger)

	// Create router
	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(mw.ClientIP())
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	// Request timeout middleware with per-path deadlines. The generate
	// endpoint waits on the upstream model call, so it gets the extended
	// deadline; this must be the only timeout on the chain or the shorter
	// default would cap it.
	router.Use(mw.Timeout(mw.TimeoutConfig{
		Default:          constants.DefaultRequestTimeout,
		Extended:         constants.GenerateRequestTimeout,
		ExtendedPatterns: []string{"/generate"},
	}))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Request size limit (1MB) - prevent large payload attacks
	router.Use(middleware.RequestSize(1 * 1024 * 1024))

	// Global per-instance rate limit by IP
	router.Use(mw.RateLimitByIP(cfg.GlobalIPRatePerMinute))

	// Cache-Control defaults per route
	router.Use(mw.Cache(mw.DefaultCacheConfig()))

	// Main API with OpenAPI docs
	humaConfig := huma.DefaultConfig("Bulletform API", v.Version)
	humaConfig.Info.Description = "Resume bullet point generator with free daily quota and one-time license purchases."
	humaConfig.Servers = []*huma.Server{
		{URL: cfg.BaseURL, Description: "API Server"},
	}
	api := humachi.New(router, humaConfig)

	// Config for hidden routes (K8s probes - no docs needed)
	hiddenConfig := huma.DefaultConfig("Bulletform API", v.Version)
	hiddenConfig.DocsPath = ""
	hiddenConfig.OpenAPIPath = ""
	hiddenConfig.SchemasPath = ""
	hiddenAPI := humachi.New(router, hiddenConfig)

	// Health check and public pricing
	huma.Get(api, "/api/v1/health", handlers.HealthCheck)
	huma.Get(api, "/api/v1/pricing/tiers", handlers.ListTiers)

	// Kubernetes probes (hidden from docs)
	huma.Get(hiddenAPI, "/healthz", handlers.Livez)
	readyzHandler := handlers.NewReadyzHandler(store)
	huma.Get(hiddenAPI, "/readyz", readyzHandler.Readyz)

	// License verification and order lookup
	licenseHandler := handlers.NewLicenseHandler(services.License, logger)
	huma.Post(api, "/api/v1/verify-license", licenseHandler.VerifyLicense)
	huma.Get(api, "/api/v1/license/{orderId}", licenseHandler.GetLicenseByOrder)

	// Daily analytics
	statsHandler := handlers.NewStatsHandler(repos.Usage, logger)
	huma.Get(api, "/api/v1/stats/daily/{date}", statsHandler.GetDailyStats)

	// Purchase webhook (signature verified by handler, not user auth)
	purchaseWebhook := handlers.NewWebhookHandler(services.License, cfg.WebhookSecret, logger)
	router.Method(http.MethodPost, "/api/v1/webhooks/purchase", purchaseWebhook)

	// Generation route with the store-backed cross-instance limiter
	router.Group(func(r chi.Router) {
		r.Use(mw.KVRateLimit(mw.KVRateLimitConfig{
			Store:  store,
			Limit:  cfg.GenerateRatePerMinute,
			Window: time.Minute,
			Logger: logger,
		}))

		generateAPI := humachi.New(r, hiddenConfig)
		generateHandler := handlers.NewGenerateHandler(services.Generation, logger)
		huma.Post(generateAPI, "/api/v1/generate", generateHandler.Generate)
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: constants.GenerateRequestTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
		<-sigChan

		logger.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown error", "error", err)
		}
	}()

	// Start server
	logger.Info("starting server", "port", cfg.Port, "base_url", cfg.BaseURL)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
