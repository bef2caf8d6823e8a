package app

import (
	"context"
	"fmt"

	"github.com/castlens/castlens-go/internal/analytics"
	"github.com/castlens/castlens-go/internal/config"
	"github.com/castlens/castlens-go/internal/provider"
	"github.com/castlens/castlens-go/internal/provider/airstack"
	"github.com/castlens/castlens-go/internal/provider/neynar"
	"github.com/castlens/castlens-go/internal/server"
	"github.com/castlens/castlens-go/internal/service/cache"
	"github.com/castlens/castlens-go/internal/service/database"
	"github.com/castlens/castlens-go/internal/service/snapshot"
	"go.uber.org/zap"
)

// Container bundles the assembled services behind the HTTP server.
type Container struct {
	Config *config.Config
	Logger *zap.Logger
	Server *server.Server

	closers []func()
}

// Close releases infrastructure resources in reverse assembly order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles all infrastructure services. Heavy-weight initialization
// (cache, database, provider selection) happens here so the server stays
// focused on request handling.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	providerClient, err := buildProvider(cfg, logger)
	if err != nil {
		return nil, err
	}

	var analyticsCache analytics.Cache
	if cfg.Redis.Enabled {
		cacheSvc, cacheErr := cache.NewService(cache.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, logger)
		if cacheErr != nil {
			return nil, fmt.Errorf("failed to create cache service: %w", cacheErr)
		}
		closers = append(closers, func() {
			_ = cacheSvc.Close()
		})
		analyticsCache = cacheSvc
	}

	var (
		snapshots analytics.SnapshotStore
		history   server.SnapshotSource
	)
	if cfg.Postgres.Enabled {
		postgresSvc, pgErr := database.NewPostgresService(database.Config{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
		}, logger)
		if pgErr != nil {
			return nil, fmt.Errorf("failed to create postgres service: %w", pgErr)
		}
		closers = append(closers, func() {
			_ = postgresSvc.Close()
		})

		repo := snapshot.NewRepository(postgresSvc, logger)
		if schemaErr := repo.EnsureSchema(ctx); schemaErr != nil {
			return nil, fmt.Errorf("failed to prepare snapshot schema: %w", schemaErr)
		}
		snapshots = repo
		history = repo
	}

	analyticsSvc := analytics.NewService(providerClient, analyticsCache, snapshots, logger)
	httpServer := server.NewServer(analyticsSvc, history, logger)

	logger.Info("Services assembled",
		zap.String("provider", cfg.Provider.Name),
		zap.Bool("cache", cfg.Redis.Enabled),
		zap.Bool("snapshots", cfg.Postgres.Enabled),
	)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Server:  httpServer,
		closers: closers,
	}, nil
}

func buildProvider(cfg *config.Config, logger *zap.Logger) (provider.Client, error) {
	switch cfg.Provider.Name {
	case config.ProviderNeynar:
		return neynar.NewClient(cfg.Neynar.APIKeys, logger)
	case config.ProviderAirstack:
		return airstack.NewClient(cfg.Airstack.APIKey, logger)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider.Name)
	}
}
