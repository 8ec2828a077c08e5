// Package router binds the HTTP API onto the search service and the
// ingestion queue.
package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/DjordjeVuckovic/content-hunter/internal/apperr"
	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/provider"
	"github.com/DjordjeVuckovic/content-hunter/internal/queue"
	"github.com/DjordjeVuckovic/content-hunter/internal/search"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage"
	"github.com/DjordjeVuckovic/content-hunter/pkg/pagination"
)

// Enqueuer is the slice of the queue the ingest endpoint needs.
type Enqueuer interface {
	Enqueue(ctx context.Context, msg queue.Message) error
}

type SearchRouter struct {
	e       *echo.Echo
	service *search.Service
	queue   Enqueuer
}

func NewSearchRouter(e *echo.Echo, service *search.Service, q Enqueuer) *SearchRouter {
	return &SearchRouter{
		e:       e,
		service: service,
		queue:   q,
	}
}

func (r *SearchRouter) Bind() {
	r.e.GET("/api/search", r.searchHandler)
	r.e.GET("/api/search/stats", r.statsHandler)
	r.e.GET("/api/contents/:id", r.contentHandler)
	r.e.POST("/api/ingest", r.ingestHandler)
}

func (r *SearchRouter) searchHandler(c echo.Context) error {
	var page pagination.OffsetRequest
	if err := c.Bind(&page); err != nil {
		return apperr.NewValidationWrap("invalid pagination parameters", err)
	}

	query := search.Query{
		Keyword: c.QueryParam("q"),
		Page:    page,
	}

	if raw := c.QueryParam("type"); raw != "" {
		contentType, err := domain.ParseContentType(raw)
		if err != nil {
			return apperr.NewValidationWrap("invalid type parameter", err)
		}
		query.Type = &contentType
	}

	result, err := r.service.Search(c.Request().Context(), query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (r *SearchRouter) statsHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, r.service.CacheStats())
}

func (r *SearchRouter) contentHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid content id", err)
	}

	content, err := r.service.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperr.NewNotFound("content not found")
		}
		return err
	}

	return c.JSON(http.StatusOK, content)
}

type ingestRequest struct {
	Limit int `json:"limit"`
}

// ingestHandler enqueues an ingestion run and returns immediately; the
// run itself happens on the queue workers.
func (r *SearchRouter) ingestHandler(c echo.Context) error {
	var req ingestRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid ingest request", err)
	}
	if req.Limit <= 0 {
		req.Limit = provider.DefaultLimit
	}

	if err := r.queue.Enqueue(c.Request().Context(), queue.IngestContent{Limit: req.Limit}); err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, map[string]string{"status": "accepted"})
}
