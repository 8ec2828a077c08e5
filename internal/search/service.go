// Package search serves paginated, ranked content queries behind the
// bounded result cache.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/content-hunter/internal/cache"
	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/dto"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage"
	"github.com/DjordjeVuckovic/content-hunter/pkg/pagination"
)

// Result is one cached, paginated search response.
type Result = pagination.OffsetResult[dto.ContentResponse]

// Query is a validated search request.
type Query struct {
	Keyword string
	Type    *domain.ContentType
	Page    pagination.OffsetRequest
}

// Service answers search queries, consulting the cache first. A nil cache
// degrades to storage on every query.
type Service struct {
	store storage.ContentStore
	cache *cache.Cache[*Result]
}

func NewService(store storage.ContentStore, c *cache.Cache[*Result]) *Service {
	return &Service{store: store, cache: c}
}

// Search returns one ranked page of content. Identical queries within the
// cache TTL are served from the cache without touching storage.
func (s *Service) Search(ctx context.Context, q Query) (*Result, error) {
	if err := q.Page.Validate(); err != nil {
		return nil, err
	}

	key := cacheKey(q)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			slog.Debug("search cache hit", "key", key)
			return cached, nil
		}
	}

	sq := storage.SearchQuery{
		Keyword: strings.TrimSpace(q.Keyword),
		Type:    q.Type,
		Page:    q.Page.Page,
		Size:    q.Page.Size,
	}

	contents, err := s.store.Search(ctx, sq)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	total, err := s.store.CountSearch(ctx, sq)
	if err != nil {
		return nil, fmt.Errorf("search count failed: %w", err)
	}

	result := pagination.NewOffsetResult(dto.ToContentResponses(contents), total, q.Page.Page, q.Page.Size)
	if s.cache != nil {
		s.cache.Set(key, result)
	}
	return result, nil
}

// Get loads one content record by id. Lookups bypass the search cache.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*dto.ContentResponse, error) {
	content, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToContentResponse(content)
	return &resp, nil
}

// CacheStats snapshots the result cache for the stats endpoint.
func (s *Service) CacheStats() cache.Stats {
	if s.cache == nil {
		return cache.Stats{Keys: []string{}}
	}
	return s.cache.Stats()
}

// cacheKey canonicalizes a query so that equivalent requests share one
// cache entry: keyword is trimmed and lowercased, absent filters collapse
// to "all".
func cacheKey(q Query) string {
	keyword := strings.ToLower(strings.TrimSpace(q.Keyword))
	if keyword == "" {
		keyword = "all"
	}
	contentType := "all"
	if q.Type != nil {
		contentType = string(*q.Type)
	}
	return fmt.Sprintf("q:%s|t:%s|p:%d|l:%d", keyword, contentType, q.Page.Page, q.Page.Size)
}
