package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/youtube/v3"

	"github.com/kapu/youtube-dashboard-go/internal/domain"
	"github.com/kapu/youtube-dashboard-go/internal/snapshot"
	"github.com/kapu/youtube-dashboard-go/internal/store"
	"github.com/kapu/youtube-dashboard-go/internal/trend"
	"github.com/kapu/youtube-dashboard-go/internal/util"
	dasherr "github.com/kapu/youtube-dashboard-go/pkg/errors"
)

// ChannelFetcher pulls channel statistics and recent videos from upstream.
type ChannelFetcher interface {
	FetchChannelData(ctx context.Context, channelID string) (*youtube.Channel, []*youtube.Video, error)
}

// AggregationService ties the fetch, build, store and trend stages together.
// It backs both the read path (DashboardData) and the write path (Sync).
type AggregationService struct {
	fetcher       ChannelFetcher
	store         store.Store
	builder       *snapshot.Builder
	channelID     string
	retentionDays int
	logger        *zap.Logger

	now func() time.Time
}

// NewAggregationService creates the service. fetcher may be nil; the read
// path then serves stored history only and Sync fails.
func NewAggregationService(fetcher ChannelFetcher, st store.Store, builder *snapshot.Builder, channelID string, retentionDays int, logger *zap.Logger) *AggregationService {
	return &AggregationService{
		fetcher:       fetcher,
		store:         st,
		builder:       builder,
		channelID:     channelID,
		retentionDays: retentionDays,
		logger:        logger,
		now:           time.Now,
	}
}

// Sync fetches the channel's current state, builds today's snapshot and
// persists it, overwriting an earlier run for the same day. Old snapshots
// beyond the retention window are pruned best-effort.
func (as *AggregationService) Sync(ctx context.Context) (*domain.SyncResult, error) {
	if as.fetcher == nil {
		return nil, dasherr.NewNotReadyError("no upstream client configured, sync unavailable")
	}

	now := as.now()
	today := util.DayUTC(now)

	channel, videos, err := as.fetcher.FetchChannelData(ctx, as.channelID)
	if err != nil {
		return nil, dasherr.NewUpstreamError("failed to fetch channel data", err)
	}

	snap := as.builder.Build(channel, videos, now)

	if err := as.store.Put(ctx, today, snap); err != nil {
		return nil, dasherr.NewStorageError("failed to persist snapshot", "put", today, err)
	}

	cutoff := util.DaysBefore(now, as.retentionDays)
	if err := as.store.PruneOlderThan(ctx, cutoff); err != nil {
		as.logger.Warn("Snapshot prune failed",
			zap.String("cutoff", cutoff),
			zap.Error(err))
	}

	as.logger.Info("Sync complete",
		zap.String("date", today),
		zap.Int("videos", snap.Summary.TotalVideos),
		zap.Int64("totalViews", snap.Summary.TotalViews))

	return &domain.SyncResult{
		Success:         true,
		VideosProcessed: snap.Summary.TotalVideos,
		TotalViews:      snap.Summary.TotalViews,
		LastUpdated:     snap.Timestamp,
	}, nil
}

// DashboardData assembles the payload the dashboard renders. When today's
// snapshot is already stored it is served with trends walked from history.
// Otherwise the current state is built live from upstream and the series is
// recomputed from the fetched videos; nothing is persisted on this path.
func (as *AggregationService) DashboardData(ctx context.Context) (*domain.DashboardPayload, error) {
	now := as.now()
	today := util.DayUTC(now)

	current, err := as.store.Get(ctx, today)
	if err != nil {
		as.logger.Warn("Failed to load today's snapshot",
			zap.String("date", today),
			zap.Error(err))
	}

	var source trend.Source
	switch {
	case current != nil:
		source = trend.NewHistorySource(as.store, as.logger)
	case as.fetcher != nil:
		channel, videos, err := as.fetcher.FetchChannelData(ctx, as.channelID)
		if err != nil {
			return nil, dasherr.NewUpstreamError("failed to fetch channel data", err)
		}
		current = as.builder.Build(channel, videos, now)
		source = trend.NewLiveSource()
	default:
		current, err = as.latestStored(ctx)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, dasherr.NewNotReadyError("no snapshots stored and no upstream client configured")
		}
		source = trend.NewHistorySource(as.store, as.logger)
	}

	points, comparisons, err := source.Derive(ctx, current, now)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardPayload{
		Current:     current,
		Comparisons: comparisons,
		Trends:      points,
		LastUpdated: current.Timestamp,
	}, nil
}

func (as *AggregationService) latestStored(ctx context.Context) (*domain.Snapshot, error) {
	dates, err := as.store.ListDates(ctx)
	if err != nil {
		return nil, dasherr.NewStorageError("failed to list snapshots", "list", "", err)
	}
	if len(dates) == 0 {
		return nil, nil
	}

	latest := dates[0]
	for _, d := range dates[1:] {
		if d > latest {
			latest = d
		}
	}

	snap, err := as.store.Get(ctx, latest)
	if err != nil {
		return nil, dasherr.NewStorageError("failed to load snapshot", "get", latest, err)
	}
	return snap, nil
}
