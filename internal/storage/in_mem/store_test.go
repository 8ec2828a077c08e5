package in_mem

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage"
)

func newVideo(sourceID, title string, publishedAt time.Time) *domain.Content {
	return domain.NewContent(domain.NormalizedItem{
		SourceID:    sourceID,
		Title:       title,
		Type:        domain.TypeVideo,
		Metrics:     domain.Metrics{Video: &domain.VideoMetrics{Views: 100, Likes: 10, Duration: "5:00"}},
		PublishedAt: publishedAt,
	})
}

func newArticle(sourceID, title string, publishedAt time.Time) *domain.Content {
	return domain.NewContent(domain.NormalizedItem{
		SourceID:    sourceID,
		Title:       title,
		Type:        domain.TypeArticle,
		Metrics:     domain.Metrics{Article: &domain.ArticleMetrics{ReadingTime: 7, Reactions: 21}},
		PublishedAt: publishedAt,
	})
}

func TestStore_SaveRejectsDuplicateSourceID(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	first := newVideo("src-1", "first", time.Now())
	require.NoError(t, store.Save(ctx, first))

	dup := newVideo("src-1", "second", time.Now())
	assert.ErrorIs(t, store.Save(ctx, dup), storage.ErrDuplicateSourceID)

	exists, err := store.ExistsBySourceID(ctx, "src-1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_UpdateScore(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	content := newVideo("src-1", "scored", time.Now())
	require.NoError(t, store.Save(ctx, content))

	require.NoError(t, store.UpdateScore(ctx, content.ID, 15.9))

	loaded, err := store.FindByID(ctx, content.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Score)
	assert.Equal(t, 15.9, *loaded.Score)
	assert.True(t, loaded.UpdatedAt.After(loaded.CreatedAt) || loaded.UpdatedAt.Equal(loaded.CreatedAt))

	assert.ErrorIs(t, store.UpdateScore(ctx, uuid.New(), 1.0), storage.ErrNotFound)
}

func TestStore_SearchOrderingAndFilters(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Now()

	top := newVideo("v-1", "Go generics deep dive", now.AddDate(0, 0, -2))
	mid := newArticle("a-1", "Go testing patterns", now.AddDate(0, 0, -1))
	unscored := newArticle("a-2", "Go modules explained", now)

	require.NoError(t, store.Save(ctx, top))
	require.NoError(t, store.Save(ctx, mid))
	require.NoError(t, store.Save(ctx, unscored))
	require.NoError(t, store.UpdateScore(ctx, top.ID, 20))
	require.NoError(t, store.UpdateScore(ctx, mid.ID, 10))

	results, err := store.Search(ctx, storage.SearchQuery{Keyword: "go", Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, top.ID, results[0].ID)
	assert.Equal(t, mid.ID, results[1].ID)
	assert.Equal(t, unscored.ID, results[2].ID, "unscored records rank last")

	articleType := domain.TypeArticle
	articles, err := store.Search(ctx, storage.SearchQuery{Type: &articleType, Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Len(t, articles, 2)

	count, err := store.CountSearch(ctx, storage.SearchQuery{Keyword: "TESTING"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "keyword match is case-insensitive")
}

func TestStore_SearchPagination(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Now()

	for i := 0; i < 5; i++ {
		content := newVideo(uuid.NewString(), "clip", now.AddDate(0, 0, -i))
		require.NoError(t, store.Save(ctx, content))
	}

	page1, err := store.Search(ctx, storage.SearchQuery{Page: 1, Size: 2})
	require.NoError(t, err)
	page2, err := store.Search(ctx, storage.SearchQuery{Page: 2, Size: 2})
	require.NoError(t, err)
	page3, err := store.Search(ctx, storage.SearchQuery{Page: 3, Size: 2})
	require.NoError(t, err)
	page4, err := store.Search(ctx, storage.SearchQuery{Page: 4, Size: 2})
	require.NoError(t, err)

	assert.Len(t, page1, 2)
	assert.Len(t, page2, 2)
	assert.Len(t, page3, 1)
	assert.Empty(t, page4)
}
