// Package app wires configuration, the store backend, the directory
// coordinator and the HTTP server together.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/siteboard/internal/auth"
	"github.com/MrSnakeDoc/siteboard/internal/config"
	"github.com/MrSnakeDoc/siteboard/internal/directory"
	"github.com/MrSnakeDoc/siteboard/internal/httpserver"
	"github.com/MrSnakeDoc/siteboard/internal/httpserver/deps"
	"github.com/MrSnakeDoc/siteboard/internal/kv"
	"github.com/MrSnakeDoc/siteboard/internal/logger"
	"github.com/MrSnakeDoc/siteboard/internal/redis"
	"github.com/MrSnakeDoc/siteboard/internal/scheduler"
	"github.com/MrSnakeDoc/siteboard/internal/sources/seed"
	"github.com/MrSnakeDoc/siteboard/internal/store"
	"github.com/MrSnakeDoc/siteboard/internal/version"
)

type App struct {
	cfg        *config.Config
	logger     logger.Logger
	backend    kv.Store
	directory  *directory.Service
	server     *httpserver.Server
	reconciler *scheduler.Reconciler
}

// New opens the configured backend and builds every component. The caller
// owns the returned App and must Close it.
func New(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	backend, err := openBackend(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	ns := func(name string) kv.Store {
		if cfg.KeyPrefix == "" {
			return kv.Namespace(backend, name)
		}
		return kv.Namespace(backend, cfg.KeyPrefix+":"+name)
	}
	submissions := ns(store.NamespaceSubmissions)
	sites := ns(store.NamespaceSites)

	creds := auth.NewCredentials(ns(store.NamespaceAdmin), cfg.AdminUsername, cfg.AdminPassword, cfg.TokenTTL)
	svc := directory.New(
		store.NewRepository(submissions, sites),
		store.NewIndex(submissions),
		store.NewIndex(sites),
		log,
		directory.WithReviewer(creds.Username()),
	)

	d := deps.Deps{
		Logger:           log,
		StartTime:        time.Now(),
		Version:          version.Version,
		Commit:           version.Commit,
		BuildDate:        version.BuildDate,
		GoVersion:        version.GoVersion,
		Directory:        svc,
		Credentials:      creds,
		Store:            backend,
		AllowedHosts:     cfg.AllowedHosts,
		AllowedCIDRS:     cfg.AllowedCIDRS,
		TrustProxy:       cfg.TrustProxy,
		SubmitRateBurst:  cfg.SubmitRateBurst,
		SubmitRatePerMin: cfg.SubmitRatePerMin,
	}

	a := &App{
		cfg:       cfg,
		logger:    log,
		backend:   backend,
		directory: svc,
		server:    httpserver.New(cfg, log, d),
	}
	if cfg.ReconcileInterval > 0 {
		a.reconciler = scheduler.NewReconciler(svc, log, cfg.ReconcileInterval)
	}
	return a, nil
}

func openBackend(ctx context.Context, cfg *config.Config, log logger.Logger) (kv.Store, error) {
	switch cfg.StoreBackend {
	case kv.BackendRedis:
		client, err := redis.Connect(ctx, redis.Options{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, err
		}
		return kv.NewRedis(client), nil

	case kv.BackendBadger:
		b, err := kv.OpenBadger(cfg.BadgerDir, log)
		if err != nil {
			return nil, err
		}
		log.Info("badger store opened", logger.String("dir", cfg.BadgerDir))
		return b, nil

	case kv.BackendMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return kv.NewMemory(), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// Handler exposes the router, for tests that drive the full stack.
func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

// Seed imports the configured seed file, if any.
func (a *App) Seed(ctx context.Context) error {
	if a.cfg.SeedFile == "" {
		return nil
	}
	file, err := seed.NewLoader(a.cfg.SeedFile).Load()
	if err != nil {
		return err
	}
	added, err := a.directory.ImportSites(ctx, seed.MapSites(file))
	if err != nil {
		return fmt.Errorf("seed import failed: %w", err)
	}
	a.logger.Info("seed file imported",
		logger.String("file", a.cfg.SeedFile),
		logger.Int("added", added))
	return nil
}

// Reconcile runs a single reconciliation pass.
func (a *App) Reconcile(ctx context.Context) (directory.RepairReport, error) {
	return a.directory.Reconcile(ctx)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("starting " + version.String())

	if err := a.Seed(ctx); err != nil {
		return err
	}

	if a.reconciler != nil {
		a.reconciler.Start(ctx)
		a.logger.Info("index reconciler started",
			logger.Duration("interval", a.cfg.ReconcileInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutting down gracefully")
	case runErr = <-errCh:
	}

	if a.reconciler != nil {
		a.reconciler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		runErr = errors.Join(runErr, fmt.Errorf("failed to stop server: %w", err))
	}
	return runErr
}

// Close releases the store backend.
func (a *App) Close() error {
	if err := a.backend.Close(); err != nil {
		a.logger.Warn("failed to close store", logger.Error(err))
		return err
	}
	a.logger.Info("store closed cleanly")
	return nil
}
