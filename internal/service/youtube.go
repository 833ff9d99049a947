package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTubeService wraps the YouTube Data API v3 with a daily quota ledger.
type YouTubeService struct {
	service    *youtube.Service
	logger     *zap.Logger
	quotaUsed  int
	quotaMu    sync.Mutex
	quotaReset time.Time
}

const (
	// YouTube Data API quota costs (units per day / per call)
	dailyQuotaLimit   = 10000
	searchQuotaCost   = 100 // search.list cost
	channelsQuotaCost = 1   // channels.list cost
	videosQuotaCost   = 1   // videos.list cost

	quotaSafetyMargin = 500

	// search.list page limit; also the videos.list batch ceiling
	maxVideosPerFetch = 50
)

// NewYouTubeService creates an API-key backed client.
func NewYouTubeService(apiKey string, logger *zap.Logger) (*YouTubeService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is required")
	}

	service, err := youtube.NewService(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}

	return newYouTubeService(service, logger), nil
}

// NewYouTubeServiceWithClient creates a client on a pre-authorized HTTP
// client, the OAuth credential mode.
func NewYouTubeServiceWithClient(client *http.Client, logger *zap.Logger) (*YouTubeService, error) {
	service, err := youtube.NewService(context.Background(), option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return newYouTubeService(service, logger), nil
}

func newYouTubeService(service *youtube.Service, logger *zap.Logger) *YouTubeService {
	ys := &YouTubeService{
		service:    service,
		logger:     logger,
		quotaReset: getNextQuotaReset(),
	}
	logger.Info("YouTube service initialized", zap.Time("quotaReset", ys.quotaReset))
	return ys
}

// getNextQuotaReset calculates the next quota reset time (midnight Pacific).
func getNextQuotaReset() time.Time {
	pt, _ := time.LoadLocation("America/Los_Angeles")
	now := time.Now().In(pt)
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, pt)
}

func (ys *YouTubeService) checkQuota(cost int) error {
	ys.quotaMu.Lock()
	defer ys.quotaMu.Unlock()

	if time.Now().After(ys.quotaReset) {
		ys.quotaUsed = 0
		ys.quotaReset = getNextQuotaReset()
		ys.logger.Info("YouTube API quota auto-reset", zap.Time("nextReset", ys.quotaReset))
	}

	if ys.quotaUsed+cost > (dailyQuotaLimit - quotaSafetyMargin) {
		return &QuotaExceededError{
			Used:      ys.quotaUsed,
			Limit:     dailyQuotaLimit,
			Requested: cost,
			ResetTime: ys.quotaReset,
		}
	}

	return nil
}

func (ys *YouTubeService) consumeQuota(cost int) {
	ys.quotaMu.Lock()
	defer ys.quotaMu.Unlock()

	ys.quotaUsed += cost
	remaining := dailyQuotaLimit - ys.quotaUsed

	ys.logger.Debug("YouTube API quota consumed",
		zap.Int("cost", cost),
		zap.Int("used", ys.quotaUsed),
		zap.Int("remaining", remaining))

	if remaining < quotaSafetyMargin {
		ys.logger.Warn("YouTube API quota running low",
			zap.Int("remaining", remaining),
			zap.Time("resetTime", ys.quotaReset))
	}
}

// GetQuotaStatus returns current quota usage information.
func (ys *YouTubeService) GetQuotaStatus() (used int, remaining int, resetTime time.Time) {
	ys.quotaMu.Lock()
	defer ys.quotaMu.Unlock()

	if time.Now().After(ys.quotaReset) {
		return 0, dailyQuotaLimit, getNextQuotaReset()
	}
	return ys.quotaUsed, dailyQuotaLimit - ys.quotaUsed, ys.quotaReset
}

// GetChannel fetches statistics and snippet for one channel. A successful
// call with no matching channel returns nil; the builder zeroes it out.
func (ys *YouTubeService) GetChannel(ctx context.Context, channelID string) (*youtube.Channel, error) {
	if err := ys.checkQuota(channelsQuotaCost); err != nil {
		return nil, err
	}

	call := ys.service.Channels.List([]string{"statistics", "snippet"}).Id(channelID)
	resp, err := call.Context(ctx).Do()
	if err != nil {
		ys.logger.Error("Failed to fetch channel",
			zap.String("channel", channelID),
			zap.Error(err))
		return nil, wrapAPIError("YouTube channels error", err)
	}
	ys.consumeQuota(channelsQuotaCost)

	if len(resp.Items) == 0 {
		ys.logger.Warn("Channel not found upstream", zap.String("channel", channelID))
		return nil, nil
	}
	return resp.Items[0], nil
}

// SearchRecentVideoIDs lists the channel's most recent video IDs, newest
// first.
func (ys *YouTubeService) SearchRecentVideoIDs(ctx context.Context, channelID string, maxResults int64) ([]string, error) {
	if err := ys.checkQuota(searchQuotaCost); err != nil {
		return nil, err
	}

	call := ys.service.Search.List([]string{"id"}).
		ChannelId(channelID).
		Type("video").
		Order("date").
		MaxResults(maxResults)

	resp, err := call.Context(ctx).Do()
	if err != nil {
		ys.logger.Error("Failed to search recent videos",
			zap.String("channel", channelID),
			zap.Error(err))
		return nil, wrapAPIError("YouTube search error", err)
	}
	ys.consumeQuota(searchQuotaCost)

	videoIDs := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			videoIDs = append(videoIDs, item.Id.VideoId)
		}
	}

	ys.logger.Debug("Recent videos searched",
		zap.String("channel", channelID),
		zap.Int("count", len(videoIDs)))

	return videoIDs, nil
}

// GetVideoDetails fetches statistics, snippet and duration for a batch of
// video IDs, 50 per request. A failed batch is logged and skipped; the call
// fails only when every batch failed.
func (ys *YouTubeService) GetVideoDetails(ctx context.Context, videoIDs []string) ([]*youtube.Video, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}

	batches := (len(videoIDs) + maxVideosPerFetch - 1) / maxVideosPerFetch
	if err := ys.checkQuota(batches * videosQuotaCost); err != nil {
		return nil, err
	}

	videos := make([]*youtube.Video, 0, len(videoIDs))
	failed := 0

	for i := 0; i < len(videoIDs); i += maxVideosPerFetch {
		end := i + maxVideosPerFetch
		if end > len(videoIDs) {
			end = len(videoIDs)
		}
		batch := videoIDs[i:end]

		call := ys.service.Videos.List([]string{"statistics", "snippet", "contentDetails"}).
			Id(batch...)

		resp, err := call.Context(ctx).Do()
		// each issued request costs quota whether it succeeded or not
		ys.consumeQuota(videosQuotaCost)
		if err != nil {
			ys.logger.Error("Failed to fetch video details",
				zap.Int("batch_size", len(batch)),
				zap.Error(err))
			failed++
			continue
		}
		videos = append(videos, resp.Items...)
	}

	if len(videos) == 0 && failed > 0 {
		return nil, fmt.Errorf("all video detail batches failed: %d errors", failed)
	}

	ys.logger.Debug("Video details fetched",
		zap.Int("requested", len(videoIDs)),
		zap.Int("returned", len(videos)))

	return videos, nil
}

// FetchChannelData pulls everything one snapshot needs. The channel call is
// independent of the video pipeline and runs concurrently with it; the
// search call must complete before the per-video details fetch.
func (ys *YouTubeService) FetchChannelData(ctx context.Context, channelID string) (*youtube.Channel, []*youtube.Video, error) {
	var (
		channel *youtube.Channel
		videos  []*youtube.Video
	)

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		ch, err := ys.GetChannel(ctx, channelID)
		if err != nil {
			return err
		}
		channel = ch
		return nil
	})
	p.Go(func(ctx context.Context) error {
		ids, err := ys.SearchRecentVideoIDs(ctx, channelID, maxVideosPerFetch)
		if err != nil {
			return err
		}
		details, err := ys.GetVideoDetails(ctx, ids)
		if err != nil {
			return err
		}
		videos = details
		return nil
	})

	if err := p.Wait(); err != nil {
		return nil, nil, err
	}

	ys.logger.Info("Channel data fetched",
		zap.String("channel", channelID),
		zap.Int("videos", len(videos)))

	return channel, videos, nil
}

func wrapAPIError(message string, err error) error {
	if apiErr, ok := err.(*googleapi.Error); ok && apiErr.Code == 403 {
		return fmt.Errorf("%s: quota or permission denied: %w", message, err)
	}
	return fmt.Errorf("%s: %w", message, err)
}

// QuotaExceededError represents a quota limit error.
type QuotaExceededError struct {
	Used      int
	Limit     int
	Requested int
	ResetTime time.Time
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("YouTube API quota exceeded: used %d/%d (requested %d more), resets at %s",
		e.Used, e.Limit, e.Requested, e.ResetTime.Format(time.RFC3339))
}
