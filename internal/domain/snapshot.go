package domain

import "time"

// DateLayout is the calendar-day key format used for snapshots and trend points.
const DateLayout = "2006-01-02"

// Category is the label a classifier assigns to a video.
type Category string

// Categories of the hashtag/duration rule set.
const (
	CategoryPodcastEpisode   Category = "Podcast Episode"
	CategoryShort            Category = "Short"
	CategoryPodcastPromo     Category = "Podcast Promo"
	CategoryMissionaryMoment Category = "Missionary Moment"
	CategoryOther            Category = "Other"
)

// Categories of the keyword rule set.
const (
	CategoryTestimony       Category = "Testimony/Personal Story"
	CategoryProgramIntro    Category = "Program Introduction"
	CategoryCultural        Category = "Cultural Reflection"
	CategoryVirtual         Category = "Virtual Experience"
	CategoryPromotional     Category = "Promotional/Intro"
	CategoryMissionOutreach Category = "Mission/Outreach"
)

// VideoRecord is one channel video as classified on the day its snapshot was taken.
type VideoRecord struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	PublishedAt     time.Time `json:"publishedAt"`
	Views           int64     `json:"views"`
	Likes           int64     `json:"likes"`
	Comments        int64     `json:"comments"`
	DurationSeconds int       `json:"durationSeconds"`
	Category        Category  `json:"category"`
}

// Summary holds the aggregate counters of one snapshot.
type Summary struct {
	TotalViews    int64 `json:"totalViews"`
	TotalVideos   int   `json:"totalVideos"`
	AvgViews      int64 `json:"avgViews"`
	TotalLikes    int64 `json:"totalLikes"`
	TotalComments int64 `json:"totalComments"`
	RecentVideos  int   `json:"recentVideos"`
}

// ChannelInfo holds the channel-level statistics captured with a snapshot.
type ChannelInfo struct {
	Name            string `json:"name"`
	SubscriberCount uint64 `json:"subscriberCount"`
	VideoCount      uint64 `json:"videoCount"`
	ViewCount       uint64 `json:"viewCount"`
}

// Snapshot is one day's fully aggregated channel state, keyed by the date it
// was taken. Immutable after creation.
type Snapshot struct {
	Date       string           `json:"date"`
	Timestamp  time.Time        `json:"timestamp"`
	Summary    Summary          `json:"summary"`
	Videos     []*VideoRecord   `json:"videos"`
	Categories map[Category]int `json:"categories"`
	Channel    ChannelInfo      `json:"channel"`
}

// TrendPoint is one day's entry in the derived 30-day series.
type TrendPoint struct {
	Date      string `json:"date"`
	Views     int64  `json:"views"`
	Videos    int    `json:"videos"`
	AvgViews  int64  `json:"avgViews"`
	NewVideos int    `json:"newVideos"`
}

// Comparison is the delta between today's values and a reference point.
type Comparison struct {
	Views    int64 `json:"views"`
	Videos   int   `json:"videos"`
	AvgViews int64 `json:"avgViews"`
}

// Comparisons groups the three reference deltas. A nil entry means the
// reference point is not available.
type Comparisons struct {
	Yesterday *Comparison `json:"yesterday"`
	LastWeek  *Comparison `json:"lastWeek"`
	LastMonth *Comparison `json:"lastMonth"`
}

// DashboardPayload is the aggregate served to the dashboard.
type DashboardPayload struct {
	Current     *Snapshot    `json:"current"`
	Comparisons Comparisons  `json:"comparisons"`
	Trends      []TrendPoint `json:"trends"`
	LastUpdated time.Time    `json:"lastUpdated"`
}

// SyncResult summarizes one completed sync run.
type SyncResult struct {
	Success         bool      `json:"success"`
	VideosProcessed int       `json:"videosProcessed"`
	TotalViews      int64     `json:"totalViews"`
	LastUpdated     time.Time `json:"lastUpdated"`
}
