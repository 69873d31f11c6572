// Package server boots the catalog's infrastructure from config and runs the
// HTTP and gRPC listeners until the context is cancelled.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/internal/kernel"
	"github.com/shashiranjanraj/catalog/pkg/auth"
	"github.com/shashiranjanraj/catalog/pkg/cache"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/grpc"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/session"
	"github.com/shashiranjanraj/catalog/pkg/storage"
)

const (
	tokenTTL        = 24 * time.Hour
	shutdownTimeout = 15 * time.Second
)

// Infra holds the connections opened by Boot. Close releases all of them.
type Infra struct {
	DB    *gorm.DB
	Cache cache.Store
	Disk  storage.Disk

	closers []func()
}

func (in *Infra) Close() {
	for i := len(in.closers) - 1; i >= 0; i-- {
		in.closers[i]()
	}
	in.closers = nil
}

// Boot loads config and opens the database, cache and storage disk.
func Boot(ctx context.Context) (*Infra, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	in := &Infra{}

	if uri := config.LogMongoURI(); uri != "" {
		h, closeFn, err := logger.DialMongo(uri, config.LogMongoDatabase(), config.LogMongoCollection(), slog.LevelInfo)
		if err != nil {
			logger.Warn("mongo log sink disabled", "error", err)
		} else {
			logger.Attach(h)
			in.closers = append(in.closers, closeFn)
		}
	}

	db, err := database.Open(config.DatabaseDriver(), config.DatabaseDSN())
	if err != nil {
		in.Close()
		return nil, err
	}
	in.DB = db
	in.closers = append(in.closers, func() {
		if err := database.Close(db); err != nil {
			logger.Error("database close failed", "error", err)
		}
	})

	if addr := config.RedisAddr(); addr != "" {
		rdb, err := cache.ConnectRedis(ctx, addr, config.RedisPassword())
		if err != nil {
			in.Close()
			return nil, err
		}
		in.Cache = rdb
		in.closers = append(in.closers, func() { _ = rdb.Close() })
	} else {
		logger.Info("REDIS_ADDR not set, sessions are kept in memory")
		in.Cache = cache.NewMemory()
	}

	disk, err := storage.New(storage.FromConfig())
	if err != nil {
		in.Close()
		return nil, err
	}
	in.Disk = disk

	return in, nil
}

// KernelDeps derives the HTTP kernel dependencies from config.
func KernelDeps(in *Infra) (kernel.Deps, error) {
	rates, err := services.ParseRates(config.CurrencyRates())
	if err != nil {
		return kernel.Deps{}, fmt.Errorf("CURRENCY_RATES: %w", err)
	}

	opts := session.DefaultOptions()
	opts.TTL = config.SessionTTL()
	opts.Secure = config.IsProduction()

	d := kernel.Deps{
		DB:        in.DB,
		Cache:     in.Cache,
		Disk:      in.Disk,
		Converter: services.NewConverter(rates),
		Tokens:    auth.NewTokenIssuer(config.JWTSecret(), tokenTTL),
		Session:   opts,
		RateLimit: config.Int("API_RATE_LIMIT", 120),
	}
	return d, nil
}

// Run serves HTTP on APP_PORT and gRPC health on GRPC_PORT until ctx is done,
// then drains both.
func Run(ctx context.Context) error {
	in, err := Boot(ctx)
	if err != nil {
		return err
	}
	defer in.Close()

	deps, err := KernelDeps(in)
	if err != nil {
		return err
	}
	if config.IsProduction() && config.JWTSecret() == "change-me-in-production" {
		logger.Warn("JWT_SECRET is the development default")
	}

	k, err := kernel.New(deps)
	if err != nil {
		return err
	}
	defer k.Close()

	var rpc *grpc.Server
	if port := strings.ToLower(config.GRPCPort()); port != "0" && port != "off" {
		rpc, err = grpc.Start(port, func(ctx context.Context) error {
			return database.Ping(ctx, in.DB)
		})
		if err != nil {
			return err
		}
	}
	defer rpc.Stop()

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           k.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("catalog listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
