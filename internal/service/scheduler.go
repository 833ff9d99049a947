package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SyncScheduler runs periodic snapshot syncs so the dashboard keeps serving
// stored history even when nobody triggers a manual sync.
type SyncScheduler struct {
	aggregator *AggregationService
	interval   time.Duration
	logger     *zap.Logger
	ticker     *time.Ticker
	stopCh     chan struct{}
}

const syncTimeout = 2 * time.Minute

func NewSyncScheduler(aggregator *AggregationService, interval time.Duration, logger *zap.Logger) *SyncScheduler {
	return &SyncScheduler{
		aggregator: aggregator,
		interval:   interval,
		logger:     logger,
		stopCh:     make(chan struct{}),
	}
}

func (ss *SyncScheduler) Start(ctx context.Context) {
	ss.ticker = time.NewTicker(ss.interval)

	ss.logger.Info("Sync scheduler started",
		zap.Duration("interval", ss.interval))

	go func() {
		for {
			select {
			case <-ss.ticker.C:
				ss.runSync(ctx)
			case <-ss.stopCh:
				ss.logger.Info("Sync scheduler stopped")
				return
			case <-ctx.Done():
				ss.logger.Info("Sync scheduler context cancelled")
				return
			}
		}
	}()
}

func (ss *SyncScheduler) Stop() {
	if ss.ticker != nil {
		ss.ticker.Stop()
	}
	close(ss.stopCh)
}

func (ss *SyncScheduler) runSync(ctx context.Context) {
	syncCtx, cancel := context.WithTimeout(ctx, syncTimeout)
	defer cancel()

	result, err := ss.aggregator.Sync(syncCtx)
	if err != nil {
		ss.logger.Error("Scheduled sync failed", zap.Error(err))
		return
	}

	ss.logger.Info("Scheduled sync completed",
		zap.Int("videos", result.VideosProcessed),
		zap.Int64("totalViews", result.TotalViews))
}
