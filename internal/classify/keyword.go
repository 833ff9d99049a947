package classify

import (
	"strings"

	"github.com/kapu/youtube-dashboard-go/internal/domain"
)

// KeywordClassifier scans title and description for topic keywords.
// Rule order matters; first match wins.
type KeywordClassifier struct{}

var keywordRules = []struct {
	keywords []string
	category domain.Category
}{
	{[]string{"testimony", "story", "personal"}, domain.CategoryTestimony},
	{[]string{"introduction", "program"}, domain.CategoryProgramIntro},
	{[]string{"cultural", "culture"}, domain.CategoryCultural},
	{[]string{"virtual", "experience"}, domain.CategoryVirtual},
	{[]string{"promotional", "intro"}, domain.CategoryPromotional},
	{[]string{"mission", "outreach"}, domain.CategoryMissionOutreach},
}

func (KeywordClassifier) Classify(title, description string, _ int) domain.Category {
	text := strings.ToLower(title + " " + description)
	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category
			}
		}
	}
	return domain.CategoryOther
}
