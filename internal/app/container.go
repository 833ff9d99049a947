package app

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/kapu/youtube-dashboard-go/internal/auth"
	"github.com/kapu/youtube-dashboard-go/internal/classify"
	"github.com/kapu/youtube-dashboard-go/internal/config"
	"github.com/kapu/youtube-dashboard-go/internal/server"
	"github.com/kapu/youtube-dashboard-go/internal/service"
	"github.com/kapu/youtube-dashboard-go/internal/snapshot"
	"github.com/kapu/youtube-dashboard-go/internal/store"
)

// Container bundles the assembled services behind the HTTP server.
type Container struct {
	Config     *config.Config
	Logger     *zap.Logger
	Store      store.Store
	Aggregator *service.AggregationService
	Scheduler  *service.SyncScheduler
	Server     *server.Server

	closers []func()
}

// Close tears down infrastructure in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles all infrastructure services. Heavy initialization
// (store backends, upstream clients) happens here so main stays small.
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

	classifier, err := classify.ForScheme(cfg.Channel.ClassifierScheme)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}
	builder := snapshot.NewBuilder(classifier, logger)

	var st store.Store
	switch cfg.Storage.Backend {
	case store.BackendFile:
		st, err = store.NewFileStore(cfg.Storage.DataDir, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create file store: %w", err)
		}
	case store.BackendRedis:
		redisStore, rErr := store.NewRedisStore(store.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, cfg.Storage.RetentionDays, logger)
		if rErr != nil {
			return nil, fmt.Errorf("failed to create redis store: %w", rErr)
		}
		closers = append(closers, func() {
			_ = redisStore.Close()
		})
		st = redisStore
	case store.BackendPostgres:
		pgStore, pErr := store.NewPostgresStore(store.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
			SSLMode:  cfg.Postgres.SSLMode,
		}, logger)
		if pErr != nil {
			return nil, fmt.Errorf("failed to create postgres store: %w", pErr)
		}
		closers = append(closers, func() {
			_ = pgStore.Close()
		})
		st = pgStore
	case store.BackendMemory:
		st = store.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	fetcher := buildFetcher(ctx, cfg, logger)

	aggregator := service.NewAggregationService(
		fetcher, st, builder, cfg.Channel.ID, cfg.Storage.RetentionDays, logger)

	tokens := auth.NewTokenService(cfg.Auth.Password, cfg.Auth.TokenSecret, logger)
	srv := server.New(aggregator, tokens, logger)

	var scheduler *service.SyncScheduler
	if cfg.Sync.Enabled && fetcher != nil {
		scheduler = service.NewSyncScheduler(aggregator, cfg.Sync.Interval, logger)
	}

	return &Container{
		Config:     cfg,
		Logger:     logger,
		Store:      st,
		Aggregator: aggregator,
		Scheduler:  scheduler,
		Server:     srv,
		closers:    closers,
	}, nil
}

// buildFetcher picks the upstream credential mode: API key first, saved OAuth
// token second. With neither the dashboard serves stored history only.
func buildFetcher(ctx context.Context, cfg *config.Config, logger *zap.Logger) service.ChannelFetcher {
	if cfg.YouTube.APIKey != "" {
		yt, err := service.NewYouTubeService(cfg.YouTube.APIKey, logger)
		if err != nil {
			logger.Warn("Failed to initialize YouTube service", zap.Error(err))
			return nil
		}
		logger.Info("YouTube upstream enabled", zap.String("mode", "API Key"))
		return yt
	}

	if _, err := os.Stat(cfg.YouTube.OAuthTokenFile); err == nil {
		client, err := service.OAuthClient(ctx, cfg.YouTube.OAuthCredentialsFile, cfg.YouTube.OAuthTokenFile, logger)
		if err != nil {
			logger.Warn("Failed to load OAuth credentials", zap.Error(err))
			return nil
		}
		yt, err := service.NewYouTubeServiceWithClient(client, logger)
		if err != nil {
			logger.Warn("Failed to initialize YouTube service", zap.Error(err))
			return nil
		}
		logger.Info("YouTube upstream enabled", zap.String("mode", "OAuth"))
		return yt
	}

	logger.Warn("No YouTube credentials configured, serving stored history only")
	return nil
}
