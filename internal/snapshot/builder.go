package snapshot

import (
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/youtube/v3"

	"github.com/kapu/youtube-dashboard-go/internal/classify"
	"github.com/kapu/youtube-dashboard-go/internal/domain"
	"github.com/kapu/youtube-dashboard-go/internal/util"
)

// recentWindowDays bounds the "recent videos" counter in the summary.
const recentWindowDays = 30

// Builder turns raw upstream payloads into the canonical daily snapshot.
// Build is a pure transform: persistence is the caller's responsibility, and
// malformed or missing fields coerce to zero values instead of failing.
type Builder struct {
	classifier classify.Classifier
	logger     *zap.Logger
}

func NewBuilder(classifier classify.Classifier, logger *zap.Logger) *Builder {
	return &Builder{
		classifier: classifier,
		logger:     logger,
	}
}

// Build produces the snapshot for the calendar day of now. Output is
// deterministic given identical input and clock.
func (b *Builder) Build(channel *youtube.Channel, videos []*youtube.Video, now time.Time) *domain.Snapshot {
	records := make([]*domain.VideoRecord, 0, len(videos))
	for _, v := range videos {
		if v == nil || v.Id == "" {
			continue
		}
		records = append(records, b.buildRecord(v))
	}

	summary := domain.Summary{TotalVideos: len(records)}
	categories := make(map[domain.Category]int)
	recentCutoff := now.AddDate(0, 0, -recentWindowDays)

	for _, rec := range records {
		summary.TotalViews += rec.Views
		summary.TotalLikes += rec.Likes
		summary.TotalComments += rec.Comments
		categories[rec.Category]++
		if !rec.PublishedAt.IsZero() && rec.PublishedAt.After(recentCutoff) {
			summary.RecentVideos++
		}
	}
	summary.AvgViews = util.RoundedDiv(summary.TotalViews, int64(util.Max(summary.TotalVideos, 1)))

	snap := &domain.Snapshot{
		Date:       util.DayUTC(now),
		Timestamp:  now.UTC(),
		Summary:    summary,
		Videos:     records,
		Categories: categories,
		Channel:    buildChannelInfo(channel),
	}

	b.logger.Debug("Snapshot built",
		zap.String("date", snap.Date),
		zap.Int("videos", summary.TotalVideos),
		zap.Int64("total_views", summary.TotalViews))

	return snap
}

func (b *Builder) buildRecord(v *youtube.Video) *domain.VideoRecord {
	rec := &domain.VideoRecord{ID: v.Id}

	var description string
	if v.Snippet != nil {
		rec.Title = v.Snippet.Title
		description = v.Snippet.Description
		if v.Snippet.PublishedAt != "" {
			if ts, err := time.Parse(time.RFC3339, v.Snippet.PublishedAt); err == nil {
				rec.PublishedAt = ts
			} else {
				b.logger.Debug("Unparseable publish time, leaving zero",
					zap.String("video", v.Id),
					zap.String("published_at", v.Snippet.PublishedAt))
			}
		}
	}

	if v.Statistics != nil {
		rec.Views = int64(v.Statistics.ViewCount)
		rec.Likes = int64(v.Statistics.LikeCount)
		rec.Comments = int64(v.Statistics.CommentCount)
	}

	if v.ContentDetails != nil {
		rec.DurationSeconds = ParseDuration(v.ContentDetails.Duration)
	}

	rec.Category = b.classifier.Classify(rec.Title, description, rec.DurationSeconds)
	return rec
}

func buildChannelInfo(channel *youtube.Channel) domain.ChannelInfo {
	info := domain.ChannelInfo{Name: "Unknown"}
	if channel == nil {
		return info
	}
	if channel.Snippet != nil && channel.Snippet.Title != "" {
		info.Name = channel.Snippet.Title
	}
	if channel.Statistics != nil {
		info.SubscriberCount = channel.Statistics.SubscriberCount
		info.VideoCount = channel.Statistics.VideoCount
		info.ViewCount = channel.Statistics.ViewCount
	}
	return info
}
