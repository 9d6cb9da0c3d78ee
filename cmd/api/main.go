// Package main is the entrypoint for the SkyPeek API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"

	"github.com/skypeek/skypeek/internal/cache"
	"github.com/skypeek/skypeek/internal/config"
	"github.com/skypeek/skypeek/internal/handler"
	"github.com/skypeek/skypeek/internal/metrics"
	"github.com/skypeek/skypeek/internal/middleware"
	"github.com/skypeek/skypeek/internal/repository"
	"github.com/skypeek/skypeek/internal/server"
	"github.com/skypeek/skypeek/internal/service"
	"github.com/skypeek/skypeek/internal/weather"
	"github.com/skypeek/skypeek/internal/weather/openweather"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Apply pending migrations before opening the pool
	if cfg.MigrateOnStart {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			logger.Error(
				"failed to run migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL, cache.PoolConfig{
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Initialize weather provider
	providerClient := openweather.New(openweather.Config{
		APIKey:       cfg.OpenWeatherAPIKey,
		GeocodingURL: cfg.GeocodingURL,
		WeatherURL:   cfg.WeatherURL,
		Lang:         cfg.WeatherLang,
		HTTPClient:   weather.NewHTTPClient(cfg.ProviderTimeout),
	})

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	weatherService := service.NewWeatherService(providerClient, providerClient, repo, metricsRecorder)
	statsService := service.NewStatsService(repo)
	suggestService := service.NewSuggestService(repo, providerClient, metricsRecorder, logger)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	weatherHandler := handler.NewWeatherHandler(weatherService, logger)
	historyHandler := handler.NewHistoryHandler(weatherService, logger)
	statsHandler := handler.NewStatsHandler(statsService, logger)
	citiesHandler := handler.NewCitiesHandler(suggestService, logger)

	// Setup router
	r := setupRouter(routerDeps{
		base:    h,
		health:  healthHandler,
		weather: weatherHandler,
		history: historyHandler,
		stats:   statsHandler,
		cities:  citiesHandler,
		repo:    repo,
		cache:   cacheClient,
		cfg:     cfg,
		logger:  logger,
	})

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"weather_lang", cfg.WeatherLang,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// runMigrations applies pending migrations from ./migrations.
func runMigrations(databaseURL string) error {
	m, err := migrate.New("file://migrations", databaseURL)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// routerDeps bundles everything the router needs.
type routerDeps struct {
	base    *handler.Handler
	health  *handler.HealthHandler
	weather *handler.WeatherHandler
	history *handler.HistoryHandler
	stats   *handler.StatsHandler
	cities  *handler.CitiesHandler
	repo    *repository.Repository
	cache   *cache.Cache
	cfg     *config.Config
	logger  *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))

	// Probes (no session, no rate limit)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)

	// Root info endpoint
	r.Get("/", deps.base.Hello)

	sessionCfg := middleware.SessionConfig{
		Logger: deps.logger,
		Users:  deps.repo,
		Secure: deps.cfg.IsProduction(),
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  deps.logger,
		Cache:   deps.cache,
		Enabled: deps.cfg.RateLimitEnabled,
		RPS:     deps.cfg.RateLimitRPS,
		Burst:   deps.cfg.RateLimitBurst,
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", deps.health.Health)

		// Session-scoped endpoints: identity is resolved once per
		// request from the session cookie.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Session(sessionCfg))

			r.With(middleware.RateLimitIP(rateLimitCfg)).Get("/weather", deps.weather.GetWeather)
			r.Get("/history", deps.history.GetHistory)
			r.Get("/last-city", deps.history.GetLastCity)
		})

		// Aggregate and autocomplete endpoints need no identity.
		r.Get("/stats", deps.stats.GetStats)
		r.Get("/stats/city/{city}", deps.stats.GetCityStats)
		r.Get("/cities", deps.cities.SearchCities)
	})

	// 404 and 405 handlers
	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
