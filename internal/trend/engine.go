package trend

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/youtube-dashboard-go/internal/domain"
	"github.com/kapu/youtube-dashboard-go/internal/store"
	"github.com/kapu/youtube-dashboard-go/internal/util"
)

// WindowDays is the span of the derived trend series.
const WindowDays = 30

// Source derives the 30-day series and the reference comparisons for the
// calendar day of "today". The current snapshot is the one already produced
// for today; the history source ignores it, the live source recomputes from
// its video list.
type Source interface {
	Derive(ctx context.Context, current *domain.Snapshot, today time.Time) ([]domain.TrendPoint, domain.Comparisons, error)
}

// HistorySource reads precomputed summaries out of the snapshot store. Days
// without a stored snapshot are omitted, not zero-filled, so the series is
// only as dense as the retained history.
type HistorySource struct {
	store  store.Store
	logger *zap.Logger
}

func NewHistorySource(st store.Store, logger *zap.Logger) *HistorySource {
	return &HistorySource{store: st, logger: logger}
}

func (hs *HistorySource) Derive(ctx context.Context, _ *domain.Snapshot, today time.Time) ([]domain.TrendPoint, domain.Comparisons, error) {
	points := make([]domain.TrendPoint, 0, WindowDays)

	for i := WindowDays - 1; i >= 0; i-- {
		day := util.DaysBefore(today, i)
		snap, err := hs.store.Get(ctx, day)
		if err != nil {
			// a broken day must not abort the walk
			hs.logger.Warn("Snapshot lookup failed, treating day as absent",
				zap.String("date", day),
				zap.Error(err))
			continue
		}
		if snap == nil {
			continue
		}
		points = append(points, domain.TrendPoint{
			Date:     day,
			Views:    snap.Summary.TotalViews,
			Videos:   snap.Summary.TotalVideos,
			AvgViews: snap.Summary.AvgViews,
		})
	}

	return points, Compare(points), nil
}

// LiveSource recomputes the series from a single fresh pull. Every one of the
// 30 days is emitted; cumulative views are today's counts attributed to each
// publish day, since historical per-day view counts are not tracked anywhere.
type LiveSource struct{}

func NewLiveSource() *LiveSource {
	return &LiveSource{}
}

func (LiveSource) Derive(_ context.Context, current *domain.Snapshot, today time.Time) ([]domain.TrendPoint, domain.Comparisons, error) {
	var videos []*domain.VideoRecord
	if current != nil {
		videos = current.Videos
	}

	points := make([]domain.TrendPoint, 0, WindowDays)
	for i := WindowDays - 1; i >= 0; i-- {
		day := util.DaysBefore(today, i)

		var views int64
		var count, fresh int
		for _, v := range videos {
			if v.PublishedAt.IsZero() {
				continue
			}
			published := util.DayUTC(v.PublishedAt)
			if published == day {
				fresh++
			}
			if published <= day {
				views += v.Views
				count++
			}
		}

		points = append(points, domain.TrendPoint{
			Date:      day,
			Views:     views,
			Videos:    count,
			AvgViews:  util.RoundedDiv(views, int64(count)),
			NewVideos: fresh,
		})
	}

	return points, Compare(points), nil
}

// Reference offsets, in days back from the series' last point.
const (
	yesterdayOffset = 1
	lastWeekOffset  = 7
	lastMonthOffset = 28
)

// Compare derives the yesterday / lastWeek / lastMonth deltas from an
// ordered series. References are date-aware: yesterday needs a point dated
// exactly one day before the last point, while lastWeek and lastMonth take
// the most recent point at least 7 and 28 days back. A missing reference
// leaves its comparison nil.
func Compare(points []domain.TrendPoint) domain.Comparisons {
	var c domain.Comparisons
	if len(points) < 2 {
		return c
	}

	last := points[len(points)-1]
	end, err := util.ParseDay(last.Date)
	if err != nil {
		return c
	}

	yesterday := util.DaysBefore(end, yesterdayOffset)
	weekCutoff := util.DaysBefore(end, lastWeekOffset)
	monthCutoff := util.DaysBefore(end, lastMonthOffset)

	for i := len(points) - 2; i >= 0; i-- {
		p := points[i]
		if c.Yesterday == nil && p.Date == yesterday {
			c.Yesterday = delta(last, p)
		}
		if c.LastWeek == nil && p.Date <= weekCutoff {
			c.LastWeek = delta(last, p)
		}
		if c.LastMonth == nil && p.Date <= monthCutoff {
			c.LastMonth = delta(last, p)
		}
	}

	return c
}

func delta(current, reference domain.TrendPoint) *domain.Comparison {
	return &domain.Comparison{
		Views:    current.Views - reference.Views,
		Videos:   current.Videos - reference.Videos,
		AvgViews: current.AvgViews - reference.AvgViews,
	}
}
