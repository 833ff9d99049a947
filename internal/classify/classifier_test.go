package classify

import (
	"testing"

	"github.com/kapu/youtube-dashboard-go/internal/domain"
)

func TestHashtagClassifierDurationBeatsHashtags(t *testing.T) {
	c := HashtagClassifier{}

	// duration rule has priority even when a hashtag rule would also match
	got := c.Classify("weekly recap #short", "", 1200)
	if got != domain.CategoryPodcastEpisode {
		t.Fatalf("expected Podcast Episode for 1200s video, got %q", got)
	}

	if got := c.Classify("Ep 5", "", 5400); got != domain.CategoryPodcastEpisode {
		t.Fatalf("expected Podcast Episode for long video, got %q", got)
	}

	if got := c.Classify("weekly recap #short", "", 1199); got != domain.CategoryShort {
		t.Fatalf("expected Short just under the duration threshold, got %q", got)
	}
}

func TestHashtagClassifierRules(t *testing.T) {
	c := HashtagClassifier{}

	cases := []struct {
		title    string
		duration int
		want     domain.Category
	}{
		{"clip #SHORT", 60, domain.CategoryShort},
		{"new episode teaser #Podcast", 90, domain.CategoryPodcastPromo},
		{"#MissionaryMoment from Ghana", 120, domain.CategoryMissionaryMoment},
		{"Sunday devotional", 300, domain.CategoryOther},
		{"", 0, domain.CategoryOther},
	}

	for _, tc := range cases {
		if got := c.Classify(tc.title, "", tc.duration); got != tc.want {
			t.Errorf("Classify(%q, %d) = %q, want %q", tc.title, tc.duration, got, tc.want)
		}
	}
}

func TestHashtagClassifierFirstMatchWins(t *testing.T) {
	c := HashtagClassifier{}

	// #short outranks #podcast when both are present
	if got := c.Classify("#short #podcast", "", 30); got != domain.CategoryShort {
		t.Fatalf("expected Short when both hashtags present, got %q", got)
	}
}

func TestKeywordClassifierRules(t *testing.T) {
	c := KeywordClassifier{}

	cases := []struct {
		title       string
		description string
		want        domain.Category
	}{
		{"My Testimony", "", domain.CategoryTestimony},
		{"About us", "a personal journey", domain.CategoryTestimony},
		{"Program overview", "", domain.CategoryProgramIntro},
		{"Exploring Culture", "", domain.CategoryCultural},
		{"A Virtual tour", "", domain.CategoryVirtual},
		{"Promotional trailer", "", domain.CategoryPromotional},
		{"Mission update", "", domain.CategoryMissionOutreach},
		{"Random upload", "nothing relevant", domain.CategoryOther},
	}

	for _, tc := range cases {
		if got := c.Classify(tc.title, tc.description, 0); got != tc.want {
			t.Errorf("Classify(%q, %q) = %q, want %q", tc.title, tc.description, got, tc.want)
		}
	}
}

func TestKeywordClassifierRuleOrder(t *testing.T) {
	c := KeywordClassifier{}

	// "story" (rule 1) outranks "culture" (rule 3)
	if got := c.Classify("A story about culture", "", 0); got != domain.CategoryTestimony {
		t.Fatalf("expected Testimony/Personal Story, got %q", got)
	}
}

func TestForScheme(t *testing.T) {
	if _, err := ForScheme(""); err != nil {
		t.Fatalf("empty scheme should default to hashtag: %v", err)
	}
	if _, err := ForScheme(SchemeHashtag); err != nil {
		t.Fatalf("hashtag scheme: %v", err)
	}
	if _, err := ForScheme(SchemeKeyword); err != nil {
		t.Fatalf("keyword scheme: %v", err)
	}
	if _, err := ForScheme("bogus"); err == nil {
		t.Fatal("expected error for unknown scheme")
	}
}
