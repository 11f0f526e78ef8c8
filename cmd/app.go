package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kozaktomas/face-attendance/internal/config"
	"github.com/kozaktomas/face-attendance/internal/database"
	"github.com/kozaktomas/face-attendance/internal/database/mariadb"
	"github.com/kozaktomas/face-attendance/internal/database/memory"
	"github.com/kozaktomas/face-attendance/internal/database/postgres"
	"github.com/kozaktomas/face-attendance/internal/database/redis"
	"github.com/kozaktomas/face-attendance/internal/logger"
	"github.com/kozaktomas/face-attendance/internal/metrics"
)

const redisReadyTimeout = 15 * time.Second

// app bundles what every command needs: config, logger and the two
// repositories on top of the configured store.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    database.Store
	profiles *database.ProfileRepository
	records  *database.RecordRepository
}

func newApp(ctx context.Context) (*app, error) {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.App.Env, cfg.App.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	ctx = logger.With(logger.ContextWithLogger(ctx, log), zap.String("store", cfg.Store.Driver))

	metrics.RegisterRecognitionMetrics()

	store, err := openStore(ctx, &cfg.Store)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	log.Debug("store opened",
		zap.String("driver", cfg.Store.Driver),
		zap.String("key_prefix", cfg.Store.KeyPrefix),
	)

	return &app{
		cfg:      cfg,
		logger:   log,
		store:    store,
		profiles: database.NewProfileRepository(store, cfg.Store.KeyPrefix),
		records:  database.NewRecordRepository(store, cfg.Store.KeyPrefix),
	}, nil
}

// openStore connects to the backend selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.StoreConfig) (database.Store, error) {
	switch cfg.Driver {
	case "memory":
		return memory.New(), nil
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, errors.New("DATABASE_URL environment variable is required for the postgres store")
		}
		store, err := postgres.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
		}
		return store, nil
	case "mariadb":
		if cfg.MariaDBDSN == "" {
			return nil, errors.New("MARIADB_DSN environment variable is required for the mariadb store")
		}
		store, err := mariadb.Open(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize MariaDB: %w", err)
		}
		return store, nil
	case "redis":
		if len(cfg.RedisAddrs) == 0 {
			return nil, errors.New("REDIS_ADDRS environment variable is required for the redis store")
		}
		store, err := redis.NewStore(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		if err := store.WaitForReady(ctx, redisReadyTimeout); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q (want memory, postgres, mariadb or redis)", cfg.Driver)
	}
}

// Close releases the store connection and flushes the logger.
func (a *app) Close() {
	if closer, ok := a.store.(database.Closer); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("closing store", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
