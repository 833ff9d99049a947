package classify

import (
	"fmt"
	"strings"

	"github.com/kapu/youtube-dashboard-go/internal/domain"
)

// Classifier assigns a category to a video from its title, description and
// duration. Implementations are pure and never fail.
type Classifier interface {
	Classify(title, description string, durationSeconds int) domain.Category
}

// Scheme names accepted by ForScheme.
const (
	SchemeHashtag = "hashtag"
	SchemeKeyword = "keyword"
)

// ForScheme returns the classifier for the configured rule set. The two
// schemes are mutually exclusive rule tables over the same inputs; exactly
// one is active per deployment.
func ForScheme(scheme string) (Classifier, error) {
	switch scheme {
	case "", SchemeHashtag:
		return HashtagClassifier{}, nil
	case SchemeKeyword:
		return KeywordClassifier{}, nil
	default:
		return nil, fmt.Errorf("unknown classifier scheme: %q", scheme)
	}
}

// Long-form uploads are podcast episodes regardless of title content.
const podcastEpisodeMinSeconds = 1200

// HashtagClassifier categorizes by duration first, then by title hashtags.
// First match wins.
type HashtagClassifier struct{}

func (HashtagClassifier) Classify(title, _ string, durationSeconds int) domain.Category {
	if durationSeconds >= podcastEpisodeMinSeconds {
		return domain.CategoryPodcastEpisode
	}

	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "#short"):
		return domain.CategoryShort
	case strings.Contains(t, "#podcast"):
		return domain.CategoryPodcastPromo
	case strings.Contains(t, "#missionarymoment"):
		return domain.CategoryMissionaryMoment
	}
	return domain.CategoryOther
}
