// Package main is the entrypoint for the Shopverse API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/shopverse/shopverse/internal/auth"
	"github.com/shopverse/shopverse/internal/cache"
	"github.com/shopverse/shopverse/internal/config"
	"github.com/shopverse/shopverse/internal/handler"
	"github.com/shopverse/shopverse/internal/metrics"
	"github.com/shopverse/shopverse/internal/middleware"
	"github.com/shopverse/shopverse/internal/migrations"
	"github.com/shopverse/shopverse/internal/repository"
	"github.com/shopverse/shopverse/internal/server"
	"github.com/shopverse/shopverse/internal/service"
	"github.com/shopverse/shopverse/internal/session"
)

// sessionPurgeInterval is how often expired Postgres sessions are deleted.
const sessionPurgeInterval = 15 * time.Minute

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Apply schema migrations
	if cfg.MigrateOnStart {
		if err := migrations.Up(ctx, cfg.DatabaseURL); err != nil {
			logger.Error(
				"failed to apply migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		logger.Info("database migrations applied")
	}

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.WithPoolSize(cfg.DBMaxConns, cfg.DBMinConns))
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize cache
	var cacheClient *cache.Cache
	if cfg.NeedsRedis() {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			repo.Close()
			os.Exit(1)
		}
		logger.Info("connected to Redis")
	}

	// Initialize sessions
	sessions, janitor := newSessionStore(cfg, repo, cacheClient, logger)

	// Initialize services
	var metricsRecorder metrics.Recorder = metrics.NewNoop()
	var metricsHandler *handler.MetricsHandler
	if cfg.MetricsEnabled {
		inMemory := metrics.NewInMemory()
		metricsRecorder = inMemory
		metricsHandler = handler.NewMetricsHandler(inMemory)
	}

	hasher := auth.Hasher{Params: auth.DefaultParams}
	verifier := auth.NewVerifier(repo, auth.VerifierOptions{
		Hasher:         hasher,
		AllowPlaintext: cfg.PasswordLegacyPlaintext,
	})
	if cfg.PasswordLegacyPlaintext {
		logger.Warn("legacy plaintext passwords are accepted; run rehash-passwords to convert them")
	}

	authService := service.NewAuthService(repo, sessions, verifier, hasher, logger, metricsRecorder)
	profileService := service.NewProfileService(repo, hasher, logger, metricsRecorder)
	orderService := service.NewOrderService(repo, logger, metricsRecorder)

	// Initialize handlers
	cookie := session.CookieOptions{
		Name:   cfg.SessionCookieName,
		Secure: cfg.SessionCookieSecure,
	}

	var cacheHealth handler.HealthChecker
	var limiter middleware.AuthLimiter
	if cacheClient != nil {
		cacheHealth = cacheClient
		limiter = cacheClient
	}

	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.IsDevelopment = cfg.IsDevelopment()
	securityCfg.MaxRequestBodySize = cfg.MaxRequestBodySize

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	// Setup router
	r := handler.NewRouter(handler.RouterConfig{
		Logger:  logger,
		Root:    handler.New(logger),
		Health:  handler.NewHealthHandler(repo, cacheHealth, logger),
		Auth:    handler.NewAuthHandler(authService, cookie, logger),
		Profile: handler.NewProfileHandler(profileService, logger),
		Orders:  handler.NewOrderHandler(orderService, logger),
		Metrics: metricsHandler,
		Session: middleware.SessionConfig{
			Logger:        logger,
			Authenticator: authService,
			Cookie:        cookie,
		},
		RateLimit: middleware.RateLimitConfig{
			Logger:  logger,
			Limiter: limiter,
			Metrics: metricsRecorder,
			Enabled: cfg.RateLimitAuthEnabled,
			RPS:     cfg.RateLimitAuthRPS,
			Burst:   cfg.RateLimitAuthBurst,
		},
		Security:              securityCfg,
		CORS:                  corsCfg,
		TrustForwardedHeaders: cfg.TrustForwardedHeaders,
	})

	// Create and run server
	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error {
			return cacheClient.Close()
		})
	}
	if janitor != nil {
		srv.OnShutdown("session-janitor", janitor)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"session_store", cfg.SessionStore,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newSessionStore builds the configured session backend. For Postgres it
// also starts a janitor that purges expired rows; the returned function
// stops it.
func newSessionStore(cfg *config.Config, repo *repository.Repository, cacheClient *cache.Cache, logger *slog.Logger) (session.Store, server.ShutdownFunc) {
	switch cfg.SessionStore {
	case config.SessionStoreMemory:
		logger.Warn("using in-memory session store; sessions are lost on restart and not shared between instances")
		return session.NewMemoryStore(cfg.SessionTTL), nil
	case config.SessionStorePostgres:
		store := session.NewPostgresStore(repo.Pool(), cfg.SessionTTL)
		return store, startSessionJanitor(store, sessionPurgeInterval, logger)
	default:
		return session.NewRedisStore(cacheClient.Client(), cfg.SessionTTL), nil
	}
}

// startSessionJanitor purges expired sessions now and then every interval.
func startSessionJanitor(store *session.PostgresStore, interval time.Duration, logger *slog.Logger) server.ShutdownFunc {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	purge := func() {
		n, err := store.PurgeExpired(ctx)
		if err != nil {
			if ctx.Err() == nil {
				logger.Warn("session purge failed", "error", err)
			}
			return
		}
		if n > 0 {
			logger.Info("expired sessions purged", "count", n)
		}
	}

	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		purge()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				purge()
			}
		}
	}()

	return func(shutdownCtx context.Context) error {
		cancel()
		select {
		case <-done:
			return nil
		case <-shutdownCtx.Done():
			return shutdownCtx.Err()
		}
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
	switch strings.ToLower(level) {
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
