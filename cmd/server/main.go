package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garnizeh/jobtracker/api"
	dbfs "github.com/garnizeh/jobtracker/db"
	"github.com/garnizeh/jobtracker/internal/config"
	"github.com/garnizeh/jobtracker/internal/db"
	"github.com/garnizeh/jobtracker/internal/health"
	"github.com/garnizeh/jobtracker/internal/identity"
	"github.com/garnizeh/jobtracker/internal/repository/postgres"
	"github.com/garnizeh/jobtracker/internal/repository/sqlite"
	"github.com/garnizeh/jobtracker/internal/tracker"
	"github.com/garnizeh/jobtracker/internal/validation"
	"github.com/garnizeh/jobtracker/pkg/repository"
	"github.com/redis/go-redis/v9"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	api.SetLogger(logger)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("starting jobtracker", slog.String("version", version), slog.String("build_time", buildTime))

	ctx := context.Background()

	// Open database connection
	conn, err := db.New(ctx, cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Error("failed to open db", slog.Any("err", err))
		os.Exit(1)
	}

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, conn, dbfs.Migrations, logger); err != nil {
			logger.Error("failed to migrate db", slog.Any("err", err))
			conn.Close()
			os.Exit(1)
		}
	}

	store := newStore(conn, logger)
	checkers := []health.Checker{health.NewPingChecker("database", store)}

	var revocations identity.RevocationStore = identity.NoRevocations{}
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		redisRevocations := identity.NewRedisRevocations(rdb)
		if err := redisRevocations.Ping(ctx); err != nil {
			logger.Warn("redis not reachable at startup", slog.String("addr", cfg.Redis.Addr), slog.Any("err", err))
		}
		revocations = redisRevocations
		checkers = append(checkers, health.NewPingChecker("redis", redisRevocations))
	}

	idp, err := identity.NewLocal(store, identity.Options{
		Secret:      cfg.JWTSecret,
		Issuer:      cfg.JWTIssuer,
		TTL:         cfg.TokenDuration,
		Revocations: revocations,
		Logger:      logger,
	})
	if err != nil {
		logger.Error("failed to set up identity provider", slog.Any("err", err))
		os.Exit(1)
	}

	validator, err := validation.NewValidator(dbfs.Schemas, "schemas")
	if err != nil {
		logger.Error("failed to load request schemas", slog.Any("err", err))
		os.Exit(1)
	}

	handler := api.SetupRoutes(api.Deps{
		Version:   version,
		BuildTime: buildTime,
		Identity:  idp,
		Tracker:   tracker.New(store, tracker.Options{Logger: logger}),
		Validator: validator,
		Readiness: health.NewService(checkers...),
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", slog.String("addr", cfg.Addr), slog.String("driver", conn.Driver()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed to start", slog.Any("err", err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("err", err))
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("error closing redis", slog.Any("err", err))
		}
	}

	// Close database connection
	if err := conn.Close(); err != nil {
		logger.Error("error closing db", slog.Any("err", err))
	}

	logger.Info("server exited")
}

func newStore(conn *db.DB, logger *slog.Logger) repository.Store {
	if conn.Driver() == db.DriverPostgres {
		return postgres.New(conn, logger)
	}
	return sqlite.New(conn, logger)
}
