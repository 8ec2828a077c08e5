package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ContentType is the closed set of content kinds the engine understands.
type ContentType string

const (
	TypeVideo   ContentType = "video"
	TypeArticle ContentType = "article"
)

// ParseContentType validates a raw type string from a provider or a query
// parameter against the closed set.
func ParseContentType(s string) (ContentType, error) {
	switch ContentType(s) {
	case TypeVideo:
		return TypeVideo, nil
	case TypeArticle:
		return TypeArticle, nil
	default:
		return "", fmt.Errorf("unknown content type %q", s)
	}
}

// ScoreCoefficient is the type multiplier applied to the base score.
func (t ContentType) ScoreCoefficient() float64 {
	switch t {
	case TypeVideo:
		return 1.5
	default:
		return 1.0
	}
}

type VideoMetrics struct {
	Views    int64  `json:"views"`
	Likes    int64  `json:"likes"`
	Duration string `json:"duration"`
}

type ArticleMetrics struct {
	ReadingTime int64 `json:"reading_time"`
	Reactions   int64 `json:"reactions"`
}

// Metrics is a tagged union: exactly one branch is set and it must match
// the record's ContentType. Marshals to the per-type shape in storage.
type Metrics struct {
	Video   *VideoMetrics   `json:"video,omitempty"`
	Article *ArticleMetrics `json:"article,omitempty"`
}

// Matches reports whether the populated branch agrees with the given type.
func (m Metrics) Matches(t ContentType) bool {
	switch t {
	case TypeVideo:
		return m.Video != nil && m.Article == nil
	case TypeArticle:
		return m.Article != nil && m.Video == nil
	default:
		return false
	}
}

// Content is the deduplicated canonical record. SourceID is the stable
// identifier assigned by the originating provider and is unique across all
// records. Score stays nil until the first scoring pass completes.
type Content struct {
	ID          uuid.UUID   `json:"id"`
	SourceID    string      `json:"source_id"`
	Title       string      `json:"title"`
	Type        ContentType `json:"type"`
	Metrics     Metrics     `json:"metrics"`
	PublishedAt time.Time   `json:"published_at"`
	Score       *float64    `json:"score"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// NormalizedItem is the canonical shape providers emit, regardless of the
// source's native wire format. It becomes a Content on first persistence.
type NormalizedItem struct {
	SourceID    string
	Title       string
	Type        ContentType
	Metrics     Metrics
	PublishedAt time.Time
}

var (
	ErrMissingSourceID    = errors.New("missing source id")
	ErrMissingTitle       = errors.New("missing title")
	ErrMissingPublishedAt = errors.New("missing published_at")
)

// Validate checks the required fields and the metrics/type agreement.
// Items failing validation are dropped individually during ingestion.
func (n NormalizedItem) Validate() error {
	if n.SourceID == "" {
		return ErrMissingSourceID
	}
	if n.Title == "" {
		return ErrMissingTitle
	}
	if n.PublishedAt.IsZero() {
		return ErrMissingPublishedAt
	}
	if _, err := ParseContentType(string(n.Type)); err != nil {
		return err
	}
	if !n.Metrics.Matches(n.Type) {
		return fmt.Errorf("metrics do not match content type %q", n.Type)
	}
	return nil
}

// NewContent builds an unscored record from a normalized item.
func NewContent(item NormalizedItem) *Content {
	now := time.Now().UTC()
	return &Content{
		ID:          uuid.New(),
		SourceID:    item.SourceID,
		Title:       item.Title,
		Type:        item.Type,
		Metrics:     item.Metrics,
		PublishedAt: item.PublishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
