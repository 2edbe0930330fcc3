// Package subtracker собирает основное приложение: хранилище, миграции,
// кеш, сервисы и HTTP-сервер с graceful shutdown.
package subtracker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/kmalakhov/subtracker/internal/cache"
	"github.com/kmalakhov/subtracker/internal/config"
	"github.com/kmalakhov/subtracker/internal/lib/jwt"
	"github.com/kmalakhov/subtracker/internal/migrations"
	authservice "github.com/kmalakhov/subtracker/internal/services/auth"
	subservice "github.com/kmalakhov/subtracker/internal/services/subscription"
	"github.com/kmalakhov/subtracker/internal/storage/repository"
)

// Version отдаётся эндпоинтом /health.
const Version = "1.0.0"

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker)
	subscriptionService := subservice.NewSubscriptionService(db, cacheRedis, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, authService, subscriptionService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.db.DB.Close()
		return err
	}
}
