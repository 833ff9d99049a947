package snapshot

import (
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/youtube/v3"

	"github.com/kapu/youtube-dashboard-go/internal/classify"
	"github.com/kapu/youtube-dashboard-go/internal/domain"
)

func testBuilder() *Builder {
	return NewBuilder(classify.HashtagClassifier{}, zap.NewNop())
}

func videoFixture(id, title, publishedAt, duration string, views, likes, comments uint64) *youtube.Video {
	return &youtube.Video{
		Id: id,
		Snippet: &youtube.VideoSnippet{
			Title:       title,
			PublishedAt: publishedAt,
		},
		Statistics: &youtube.VideoStatistics{
			ViewCount:    views,
			LikeCount:    likes,
			CommentCount: comments,
		},
		ContentDetails: &youtube.VideoContentDetails{
			Duration: duration,
		},
	}
}

func TestBuildAggregatesAndClassifies(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	channel := &youtube.Channel{
		Snippet:    &youtube.ChannelSnippet{Title: "X"},
		Statistics: &youtube.ChannelStatistics{SubscriberCount: 100},
	}
	videos := []*youtube.Video{
		videoFixture("v1", "clip #short", now.AddDate(0, 0, -1).Format(time.RFC3339), "PT1M", 1000, 10, 1),
		videoFixture("v2", "Ep 5", now.AddDate(0, 0, -2).Format(time.RFC3339), "PT25M", 5000, 50, 5),
	}

	snap := testBuilder().Build(channel, videos, now)

	if snap.Date != "2024-05-10" {
		t.Fatalf("unexpected date %q", snap.Date)
	}
	if snap.Summary.TotalViews != 6000 {
		t.Errorf("totalViews = %d, want 6000", snap.Summary.TotalViews)
	}
	if snap.Summary.TotalVideos != 2 {
		t.Errorf("totalVideos = %d, want 2", snap.Summary.TotalVideos)
	}
	if snap.Summary.AvgViews != 3000 {
		t.Errorf("avgViews = %d, want 3000", snap.Summary.AvgViews)
	}
	if snap.Summary.TotalLikes != 60 || snap.Summary.TotalComments != 6 {
		t.Errorf("likes/comments = %d/%d, want 60/6", snap.Summary.TotalLikes, snap.Summary.TotalComments)
	}
	if snap.Summary.RecentVideos != 2 {
		t.Errorf("recentVideos = %d, want 2", snap.Summary.RecentVideos)
	}
	if snap.Categories[domain.CategoryShort] != 1 || snap.Categories[domain.CategoryPodcastEpisode] != 1 {
		t.Errorf("unexpected categories %v", snap.Categories)
	}
	if snap.Channel.Name != "X" || snap.Channel.SubscriberCount != 100 {
		t.Errorf("unexpected channel info %+v", snap.Channel)
	}
}

func TestBuildInvariants(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	videos := []*youtube.Video{
		videoFixture("a", "one #short", "2024-05-01T00:00:00Z", "PT30S", 10, 0, 0),
		videoFixture("b", "two #podcast", "2024-04-01T00:00:00Z", "PT2M", 20, 0, 0),
		videoFixture("c", "three", "2024-01-01T00:00:00Z", "PT45M", 30, 0, 0),
	}

	snap := testBuilder().Build(nil, videos, now)

	var viewSum int64
	for _, v := range snap.Videos {
		viewSum += v.Views
	}
	if snap.Summary.TotalViews != viewSum {
		t.Errorf("totalViews %d != sum of video views %d", snap.Summary.TotalViews, viewSum)
	}

	catSum := 0
	for _, n := range snap.Categories {
		catSum += n
	}
	if catSum != snap.Summary.TotalVideos {
		t.Errorf("category counts sum %d != totalVideos %d", catSum, snap.Summary.TotalVideos)
	}

	// absent channel coerces to the zeroed placeholder
	if snap.Channel.Name != "Unknown" || snap.Channel.SubscriberCount != 0 {
		t.Errorf("unexpected channel info for nil channel: %+v", snap.Channel)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	snap := testBuilder().Build(nil, nil, now)

	if snap.Summary.TotalVideos != 0 || snap.Summary.TotalViews != 0 {
		t.Errorf("expected zeroed summary, got %+v", snap.Summary)
	}
	if snap.Summary.AvgViews != 0 {
		t.Errorf("avgViews must be 0 for zero videos, got %d", snap.Summary.AvgViews)
	}
	if len(snap.Videos) != 0 {
		t.Errorf("expected empty video list, got %d", len(snap.Videos))
	}
}

func TestBuildSkipsDamagedItems(t *testing.T) {
	now := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	videos := []*youtube.Video{
		nil,
		{Id: ""},
		{Id: "ok"}, // no snippet, no statistics
	}

	snap := testBuilder().Build(nil, videos, now)
	if snap.Summary.TotalVideos != 1 {
		t.Fatalf("expected 1 surviving video, got %d", snap.Summary.TotalVideos)
	}
	rec := snap.Videos[0]
	if rec.Views != 0 || rec.DurationSeconds != 0 || !rec.PublishedAt.IsZero() {
		t.Errorf("expected zeroed record fields, got %+v", rec)
	}
	if rec.Category != domain.CategoryOther {
		t.Errorf("expected Other for bare record, got %q", rec.Category)
	}
}

func TestBuildDeterministic(t *testing.T) {
	now := time.Date(2024, 5, 10, 8, 30, 0, 0, time.UTC)
	videos := []*youtube.Video{
		videoFixture("v1", "clip #short", "2024-05-09T00:00:00Z", "PT1M", 1000, 10, 1),
		videoFixture("v2", "Ep 5", "2024-05-08T00:00:00Z", "PT25M", 5000, 50, 5),
	}

	first, _ := json.Marshal(testBuilder().Build(nil, videos, now))
	second, _ := json.Marshal(testBuilder().Build(nil, videos, now))
	if string(first) != string(second) {
		t.Fatal("identical input must produce identical snapshots")
	}
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"PT1H2M3S", 3723},
		{"PT25M", 1500},
		{"PT1M", 60},
		{"PT45S", 45},
		{"P1DT1H", 90000},
		{"PT0S", 0},
		{"", 0},
		{"garbage", 0},
		{"PT", 0},
		{"P", 0},
	}

	for _, tc := range cases {
		if got := ParseDuration(tc.in); got != tc.want {
			t.Errorf("ParseDuration(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
