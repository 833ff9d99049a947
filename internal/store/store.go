package store

import (
	"context"

	"github.com/kapu/youtube-dashboard-go/internal/domain"
)

// Store persists one snapshot per calendar day, keyed by "YYYY-MM-DD".
//
// Put overwrites any snapshot already stored for the date. Get returns
// (nil, nil) when no snapshot exists for the date: absence is a valid
// result, not an error. PruneOlderThan deletes snapshots strictly older
// than the cutoff date, keeping the cutoff day itself, and is a no-op when
// nothing qualifies. A failure on one date must not affect other dates.
type Store interface {
	Put(ctx context.Context, date string, snap *domain.Snapshot) error
	Get(ctx context.Context, date string) (*domain.Snapshot, error)
	ListDates(ctx context.Context) ([]string, error)
	PruneOlderThan(ctx context.Context, cutoff string) error
}

// Backend names accepted by the configuration.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)
