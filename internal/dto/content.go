// Package dto holds the JSON shapes served by the API.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
)

// ContentResponse is one content record as returned by the search API.
// Exactly one of VideoMetrics and ArticleMetrics is set, matching Type.
type ContentResponse struct {
	ID             uuid.UUID              `json:"id"`
	SourceID       string                 `json:"source_id"`
	Title          string                 `json:"title"`
	Type           domain.ContentType     `json:"type"`
	VideoMetrics   *domain.VideoMetrics   `json:"video_metrics,omitempty"`
	ArticleMetrics *domain.ArticleMetrics `json:"article_metrics,omitempty"`
	PublishedAt    time.Time              `json:"published_at"`
	Score          *float64               `json:"score"`
	CreatedAt      time.Time              `json:"created_at"`
}

func ToContentResponse(c *domain.Content) ContentResponse {
	return ContentResponse{
		ID:             c.ID,
		SourceID:       c.SourceID,
		Title:          c.Title,
		Type:           c.Type,
		VideoMetrics:   c.Metrics.Video,
		ArticleMetrics: c.Metrics.Article,
		PublishedAt:    c.PublishedAt,
		Score:          c.Score,
		CreatedAt:      c.CreatedAt,
	}
}

func ToContentResponses(contents []domain.Content) []ContentResponse {
	responses := make([]ContentResponse, 0, len(contents))
	for i := range contents {
		responses = append(responses, ToContentResponse(&contents[i]))
	}
	return responses
}
