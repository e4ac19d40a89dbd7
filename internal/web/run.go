package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bigredeye/gradebook/internal/config"
	"github.com/bigredeye/gradebook/internal/database"
	lf "github.com/bigredeye/gradebook/internal/logfield"
	"github.com/bigredeye/gradebook/internal/store"
	"github.com/bigredeye/gradebook/internal/store/redisstore"
)

// openStore builds the configured backend. The returned func releases it.
func openStore(ctx context.Context, conf *config.Config, logger *zap.Logger) (store.Store, func(), error) {
	var (
		backend store.Store
		closers []func()
	)

	switch conf.Storage.Backend {
	case config.BackendMemory:
		backend = store.NewMemory()
	case config.BackendDataBase:
		db, err := database.OpenDataBase(logger, conf)
		if err != nil {
			return nil, nil, err
		}
		backend = db
		closers = append(closers, func() {
			if err := db.Close(); err != nil {
				logger.Warn("Failed to close database", zap.Error(err))
			}
		})
	case config.BackendRedis:
		client, err := redisstore.Connect(ctx, conf)
		if err != nil {
			return nil, nil, err
		}
		backend = redisstore.New(client, conf.Redis.Prefix, logger)
		closers = append(closers, func() {
			if err := client.Close(); err != nil {
				logger.Warn("Failed to close redis client", zap.Error(err))
			}
		})
	default:
		return nil, nil, errors.Errorf("Unknown storage backend %q", conf.Storage.Backend)
	}

	if conf.Cache.TTL > 0 {
		cached := store.NewCached(backend, conf.Cache.TTL, conf.Cache.MaxSize, logger)
		backend = cached
		closers = append(closers, cached.Stop)
	}

	logger.Info("Opened grade store", lf.Backend(conf.Storage.Backend), zap.Duration("cache_ttl", conf.Cache.TTL))

	return backend, func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}, nil
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
func Run(ctx context.Context, logger *zap.Logger, conf *config.Config) error {
	backend, closeStore, err := openStore(ctx, conf, logger)
	if err != nil {
		return errors.Wrap(err, "Failed to open store")
	}
	defer closeStore()

	s, err := newServer(conf, logger, backend)
	if err != nil {
		return errors.Wrap(err, "Failed to create server")
	}

	gin.SetMode(gin.ReleaseMode)
	r, err := s.router()
	if err != nil {
		return errors.Wrap(err, "Failed to setup routes")
	}

	srv := &http.Server{
		Addr:    conf.Server.ListenAddress,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting server", zap.String("bind_address", conf.Server.ListenAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "Server failed")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()
		return errors.Wrap(srv.Shutdown(shutdownCtx), "Failed to shutdown server")
	})

	return g.Wait()
}
