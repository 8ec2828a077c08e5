package pg

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage"
	pkgtesting "github.com/DjordjeVuckovic/content-hunter/pkg/testing"
)

var (
	testCtx   context.Context
	testPool  *ConnectionPool
	testStore *Store
)

func TestMain(m *testing.M) {
	testCtx = context.Background()

	pgc, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.PGConfig{
		Database: "content_test_db",
		Username: "test",
		Password: "test",
	})
	if err != nil {
		panic(err)
	}
	defer testcontainers.TerminateContainer(pgc.Container)

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pgc.ConnString})
	if err != nil {
		panic(err)
	}
	defer testPool.Close()

	testStore, err = NewStore(testPool)
	if err != nil {
		panic(err)
	}
	if err := testStore.EnsureSchema(testCtx); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func truncateTable(t *testing.T) {
	t.Helper()
	_, err := testPool.GetConn().Exec(testCtx, "TRUNCATE TABLE contents")
	if err != nil {
		t.Fatalf("failed to truncate table: %v", err)
	}
}

func videoContent(sourceID, title string, publishedAt time.Time) *domain.Content {
	return domain.NewContent(domain.NormalizedItem{
		SourceID:    sourceID,
		Title:       title,
		Type:        domain.TypeVideo,
		Metrics:     domain.Metrics{Video: &domain.VideoMetrics{Views: 5000, Likes: 200, Duration: "12:30"}},
		PublishedAt: publishedAt,
	})
}

func TestStore_SaveAndFindByID(t *testing.T) {
	truncateTable(t)

	content := videoContent("yt-1", "Go profiling", time.Now().UTC())
	require.NoError(t, testStore.Save(testCtx, content))

	loaded, err := testStore.FindByID(testCtx, content.ID)
	require.NoError(t, err)
	assert.Equal(t, content.SourceID, loaded.SourceID)
	assert.Equal(t, content.Title, loaded.Title)
	assert.Equal(t, domain.TypeVideo, loaded.Type)
	require.NotNil(t, loaded.Metrics.Video)
	assert.Equal(t, int64(5000), loaded.Metrics.Video.Views)
	assert.Nil(t, loaded.Score)
}

func TestStore_FindByID_NotFound(t *testing.T) {
	truncateTable(t)

	_, err := testStore.FindByID(testCtx, uuid.New())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_SaveDuplicateSourceID(t *testing.T) {
	truncateTable(t)

	first := videoContent("yt-dup", "first", time.Now().UTC())
	require.NoError(t, testStore.Save(testCtx, first))

	second := videoContent("yt-dup", "second", time.Now().UTC())
	assert.ErrorIs(t, testStore.Save(testCtx, second), storage.ErrDuplicateSourceID)

	exists, err := testStore.ExistsBySourceID(testCtx, "yt-dup")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_UpdateScore(t *testing.T) {
	truncateTable(t)

	content := videoContent("yt-2", "scored", time.Now().UTC())
	require.NoError(t, testStore.Save(testCtx, content))

	require.NoError(t, testStore.UpdateScore(testCtx, content.ID, 15.9))

	loaded, err := testStore.FindByID(testCtx, content.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Score)
	assert.Equal(t, 15.9, *loaded.Score)

	assert.ErrorIs(t, testStore.UpdateScore(testCtx, uuid.New(), 1.0), storage.ErrNotFound)
}

func TestStore_SearchRankingAndCount(t *testing.T) {
	truncateTable(t)
	now := time.Now().UTC()

	high := videoContent("v-high", "Go generics deep dive", now.AddDate(0, 0, -2))
	low := videoContent("v-low", "Go testing patterns", now.AddDate(0, 0, -1))
	unscored := videoContent("v-none", "Go modules explained", now)
	other := videoContent("v-other", "Rust borrow checker", now)

	for _, c := range []*domain.Content{high, low, unscored, other} {
		require.NoError(t, testStore.Save(testCtx, c))
	}
	require.NoError(t, testStore.UpdateScore(testCtx, high.ID, 20))
	require.NoError(t, testStore.UpdateScore(testCtx, low.ID, 10))

	results, err := testStore.Search(testCtx, storage.SearchQuery{Keyword: "go", Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, high.ID, results[0].ID)
	assert.Equal(t, low.ID, results[1].ID)
	assert.Equal(t, unscored.ID, results[2].ID, "null scores sort last")

	total, err := testStore.CountSearch(testCtx, storage.SearchQuery{Keyword: "GO"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total, "ILIKE matches case-insensitively")

	videoType := domain.TypeVideo
	total, err = testStore.CountSearch(testCtx, storage.SearchQuery{Type: &videoType})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}

func TestStore_SearchPagination(t *testing.T) {
	truncateTable(t)
	now := time.Now().UTC()

	for i := 0; i < 5; i++ {
		require.NoError(t, testStore.Save(testCtx, videoContent(uuid.NewString(), "clip", now.AddDate(0, 0, -i))))
	}

	page2, err := testStore.Search(testCtx, storage.SearchQuery{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.Len(t, page2, 2)

	page3, err := testStore.Search(testCtx, storage.SearchQuery{Page: 3, Size: 2})
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}
