package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	apiHttp "github.com/signupflow/backend/internal/api/http"
	"github.com/signupflow/backend/internal/cache"
	"github.com/signupflow/backend/internal/config"
	"github.com/signupflow/backend/internal/db"
	"github.com/signupflow/backend/internal/repository"
	"github.com/signupflow/backend/internal/server"
	"github.com/signupflow/backend/internal/service"
	"github.com/signupflow/backend/pkg/clock"
	"github.com/signupflow/backend/pkg/hash"
	"github.com/signupflow/backend/pkg/logger"
	"github.com/signupflow/backend/pkg/otp"
)

func main() {
	// Init cfg from environment variables
	cfg := config.MustLoad()

	appLogger := logger.SetupLogger(cfg.Env, cfg.LogLevel)
	defer appLogger.Sync() //nolint:errcheck

	appLogger.Info("starting signup verification api", zap.String("env", cfg.Env))
	appLogger.Debug("debug messages are enabled")

	repos, cleanup, err := buildRepositories(cfg, appLogger)
	if err != nil {
		appLogger.Error("storage init problem", zap.Error(err))
		os.Exit(1)
	}
	defer cleanup()

	services := service.NewServices(service.Deps{
		Config:       cfg,
		Hasher:       hash.NewBcryptHasher(cfg.Auth.BcryptCost),
		OTPGenerator: otp.NewRandomGenerator(),
		Clock:        clock.New(),
		Repos:        repos,
	})
	handlers := apiHttp.NewHandlers(services, cfg)

	// HTTP Server
	srv := server.NewServer(cfg, handlers.Init(cfg))
	go func() {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("error occurred while running http server", zap.Error(err))
		}
	}()
	appLogger.Info("server started", zap.String("port", cfg.HttpServer.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	ctx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	if err := srv.Stop(ctx); err != nil {
		appLogger.Error("failed to stop server", zap.Error(err))
	}

	appLogger.Info("app stopped")
}

// buildRepositories selects the store backends from config. The returned
// cleanup closes whatever connections were opened.
func buildRepositories(cfg *config.Config, appLogger *zap.Logger) (*repository.Repositories, func(), error) {
	repos := &repository.Repositories{}
	closers := make([]func(), 0, 2)
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	switch cfg.Storage.UsersBackend {
	case "memory":
		repos.Users = repository.NewMemoryUsers()
	case "mysql":
		dbMySQL, err := db.New(cfg.Database)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() {
			if err := dbMySQL.Close(); err != nil {
				appLogger.Error("error when closing mysql", zap.Error(err))
			}
		})
		appLogger.Info("mysql connection done")
		repos.Users = repository.NewMySQLUsers(dbMySQL)
	default:
		return nil, cleanup, errors.New("unknown users storage backend: " + cfg.Storage.UsersBackend)
	}

	switch cfg.Storage.OTPBackend {
	case "memory":
		repos.OTPs = repository.NewMemoryOTPs()
	case "redis":
		redisClient, err := cache.NewRedis(cfg.Cache)
		if err != nil {
			return nil, cleanup, err
		}
		closers = append(closers, func() {
			if err := redisClient.Close(); err != nil {
				appLogger.Error("error when closing redis", zap.Error(err))
			}
		})
		appLogger.Info("redis connection done")
		repos.OTPs = repository.NewRedisOTPs(redisClient)
	default:
		return nil, cleanup, errors.New("unknown otp storage backend: " + cfg.Storage.OTPBackend)
	}

	return repos, cleanup, nil
}
