package scoring

import (
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/pkg/utils"
)

// Freshness buckets by whole days since publication.
const (
	freshnessWeekScore    = 5
	freshnessMonthScore   = 3
	freshnessQuarterScore = 1
)

// CalculateScore computes the relevance score of a record:
//
//	finalScore = round(baseScore*typeCoefficient + freshnessScore + interactionScore, 2)
//
// It is a pure function of the record and the supplied clock instant, so
// recomputation for the same record within the same freshness bucket is
// deterministic and idempotent.
func CalculateScore(content *domain.Content, now time.Time) float64 {
	base := baseScore(content)
	coef := content.Type.ScoreCoefficient()
	freshness := freshnessScore(content.PublishedAt, now)
	interaction := interactionScore(content)

	return utils.RoundDecimal(base*coef+freshness+interaction, 2)
}

func baseScore(content *domain.Content) float64 {
	switch content.Type {
	case domain.TypeVideo:
		m := content.Metrics.Video
		return float64(m.Views)/1000 + float64(m.Likes)/100
	case domain.TypeArticle:
		m := content.Metrics.Article
		return float64(m.ReadingTime) + float64(m.Reactions)/50
	default:
		return 0
	}
}

func freshnessScore(publishedAt, now time.Time) float64 {
	days := int(now.Sub(publishedAt).Hours() / 24)
	switch {
	case days <= 7:
		return freshnessWeekScore
	case days <= 30:
		return freshnessMonthScore
	case days <= 90:
		return freshnessQuarterScore
	default:
		return 0
	}
}

func interactionScore(content *domain.Content) float64 {
	switch content.Type {
	case domain.TypeVideo:
		m := content.Metrics.Video
		return float64(m.Likes) / float64(max(m.Views, 1)) * 10
	case domain.TypeArticle:
		m := content.Metrics.Article
		return float64(m.Reactions) / float64(max(m.ReadingTime, 1)) * 5
	default:
		return 0
	}
}
