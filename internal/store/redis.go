package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kapu/youtube-dashboard-go/internal/domain"
	"github.com/kapu/youtube-dashboard-go/pkg/errors"
)

const snapshotKeyPrefix = "dashboard:snapshot:"

func snapshotKey(date string) string {
	return snapshotKeyPrefix + date
}

func dateFromKey(key string) string {
	return strings.TrimPrefix(key, snapshotKeyPrefix)
}

// expiredSnapshotKeys filters the dates strictly before cutoff; the cutoff
// day itself is retained. Dates are lexicographically ordered day strings.
func expiredSnapshotKeys(dates []string, cutoff string) []string {
	expired := make([]string, 0, len(dates))
	for _, date := range dates {
		if date < cutoff {
			expired = append(expired, snapshotKey(date))
		}
	}
	return expired
}

// RedisStore keeps snapshots as JSON values keyed by date. Keys carry a TTL a
// little past the retention window so an idle deployment still converges to
// the pruned state.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewRedisStore(cfg RedisConfig, retentionDays int, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.NewStorageError("failed to connect to Redis", "init", "", err)
	}

	logger.Info("Redis snapshot store connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &RedisStore{
		client: client,
		logger: logger,
		ttl:    time.Duration(retentionDays+1) * 24 * time.Hour,
	}, nil
}

func (rs *RedisStore) Put(ctx context.Context, date string, snap *domain.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return errors.NewStorageError("failed to encode snapshot", "put", date, err)
	}
	if err := rs.client.Set(ctx, snapshotKey(date), data, rs.ttl).Err(); err != nil {
		rs.logger.Error("Snapshot write failed", zap.String("date", date), zap.Error(err))
		return errors.NewStorageError("failed to write snapshot", "put", date, err)
	}
	return nil
}

func (rs *RedisStore) Get(ctx context.Context, date string) (*domain.Snapshot, error) {
	value, err := rs.client.Get(ctx, snapshotKey(date)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		rs.logger.Error("Snapshot read failed", zap.String("date", date), zap.Error(err))
		return nil, errors.NewStorageError("failed to read snapshot", "get", date, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(value), &snap); err != nil {
		return nil, errors.NewStorageError("failed to decode snapshot", "get", date, err)
	}
	return &snap, nil
}

func (rs *RedisStore) ListDates(ctx context.Context) ([]string, error) {
	keys, err := rs.client.Keys(ctx, snapshotKeyPrefix+"*").Result()
	if err != nil {
		return nil, errors.NewStorageError("failed to list snapshot keys", "list", "", err)
	}

	dates := make([]string, 0, len(keys))
	for _, key := range keys {
		dates = append(dates, dateFromKey(key))
	}
	sort.Strings(dates)
	return dates, nil
}

func (rs *RedisStore) PruneOlderThan(ctx context.Context, cutoff string) error {
	dates, err := rs.ListDates(ctx)
	if err != nil {
		return err
	}

	expired := expiredSnapshotKeys(dates, cutoff)
	if len(expired) == 0 {
		return nil
	}

	deleted, err := rs.client.Del(ctx, expired...).Result()
	if err != nil {
		return errors.NewStorageError("failed to delete expired snapshots", "prune", cutoff, err)
	}
	rs.logger.Debug("Expired snapshots removed", zap.Int64("count", deleted))
	return nil
}

func (rs *RedisStore) Close() error {
	return rs.client.Close()
}
