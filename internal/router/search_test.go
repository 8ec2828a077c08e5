package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DjordjeVuckovic/content-hunter/internal/apperr"
	"github.com/DjordjeVuckovic/content-hunter/internal/cache"
	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/queue"
	"github.com/DjordjeVuckovic/content-hunter/internal/search"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage/in_mem"
)

type recordingQueue struct {
	mu       sync.Mutex
	messages []queue.Message
}

func (q *recordingQueue) Enqueue(ctx context.Context, msg queue.Message) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.messages = append(q.messages, msg)
	return nil
}

func newTestRouter(t *testing.T) (*echo.Echo, *recordingQueue, *in_mem.Store) {
	t.Helper()
	store := in_mem.NewStore()
	for _, item := range []domain.NormalizedItem{
		{
			SourceID:    "yt-1",
			Title:       "Go generics explained",
			Type:        domain.TypeVideo,
			Metrics:     domain.Metrics{Video: &domain.VideoMetrics{Views: 1000, Likes: 50, Duration: "10:00"}},
			PublishedAt: time.Now().Add(-24 * time.Hour),
		},
		{
			SourceID:    "blog-1",
			Title:       "Postgres indexing",
			Type:        domain.TypeArticle,
			Metrics:     domain.Metrics{Article: &domain.ArticleMetrics{ReadingTime: 9, Reactions: 40}},
			PublishedAt: time.Now().Add(-48 * time.Hour),
		},
	} {
		require.NoError(t, store.Save(context.Background(), domain.NewContent(item)))
	}

	svc := search.NewService(store, cache.New[*search.Result](cache.MaxEntries, cache.DefaultTTL))
	q := &recordingQueue{}

	e := echo.New()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()
	NewSearchRouter(e, svc, q).Bind()
	return e, q, store
}

func doRequest(e *echo.Echo, method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSearchEndpoint(t *testing.T) {
	e, _, _ := newTestRouter(t)

	rec := doRequest(e, http.MethodGet, "/api/search?q=go", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []struct {
			SourceID string `json:"source_id"`
		} `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "yt-1", body.Data[0].SourceID)
	assert.Equal(t, int64(1), body.Meta.Total)
}

func TestSearchEndpoint_TypeFilter(t *testing.T) {
	e, _, _ := newTestRouter(t)

	rec := doRequest(e, http.MethodGet, "/api/search?type=article", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data []struct {
			Type string `json:"type"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "article", body.Data[0].Type)
}

func TestSearchEndpoint_InvalidType(t *testing.T) {
	e, _, _ := newTestRouter(t)

	rec := doRequest(e, http.MethodGet, "/api/search?type=podcast", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid type parameter")
}

func TestStatsEndpoint(t *testing.T) {
	e, _, _ := newTestRouter(t)

	// warm the cache with one query, then read the stats
	doRequest(e, http.MethodGet, "/api/search?q=go", "")
	rec := doRequest(e, http.MethodGet, "/api/search/stats", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var stats cache.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, cache.MaxEntries, stats.MaxEntries)
}

func TestContentEndpoint(t *testing.T) {
	e, _, store := newTestRouter(t)

	contents, err := store.Search(context.Background(), storage.SearchQuery{Keyword: "generics", Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	rec := doRequest(e, http.MethodGet, "/api/contents/"+contents[0].ID.String(), "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		SourceID string `json:"source_id"`
		Score    *float64
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "yt-1", body.SourceID)
	assert.Nil(t, body.Score)
}

func TestContentEndpoint_UnknownID(t *testing.T) {
	e, _, _ := newTestRouter(t)

	rec := doRequest(e, http.MethodGet, "/api/contents/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "content not found")
}

func TestContentEndpoint_MalformedID(t *testing.T) {
	e, _, _ := newTestRouter(t)

	rec := doRequest(e, http.MethodGet, "/api/contents/not-a-uuid", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid content id")
}

func TestIngestEndpoint(t *testing.T) {
	e, q, _ := newTestRouter(t)

	rec := doRequest(e, http.MethodPost, "/api/ingest", `{"limit": 15}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, q.messages, 1)
	assert.Equal(t, queue.IngestContent{Limit: 15}, q.messages[0])
}

func TestIngestEndpoint_DefaultLimit(t *testing.T) {
	e, q, _ := newTestRouter(t)

	rec := doRequest(e, http.MethodPost, "/api/ingest", "")

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, q.messages, 1)
	msg := q.messages[0].(queue.IngestContent)
	assert.Greater(t, msg.Limit, 0)
}
