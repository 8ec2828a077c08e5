package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("content not found")
	// ErrDuplicateSourceID is returned when a save would violate the
	// source_id uniqueness invariant.
	ErrDuplicateSourceID = errors.New("duplicate source id")
)

// SearchQuery is the filter applied by the search path. Keyword is a
// case-insensitive substring match on title; Type narrows to one content
// type when non-nil.
type SearchQuery struct {
	Keyword string
	Type    *domain.ContentType
	Page    int
	Size    int
}

// ContentStore is the durable record store for canonical content.
type ContentStore interface {
	// Save persists a new record. Fails with ErrDuplicateSourceID when the
	// source id is already present.
	Save(ctx context.Context, content *domain.Content) error
	// FindByID loads one record or ErrNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Content, error)
	// ExistsBySourceID reports whether a record with the given source id
	// is already persisted.
	ExistsBySourceID(ctx context.Context, sourceID string) (bool, error)
	// UpdateScore atomically replaces the record's score and advances
	// updated_at. ErrNotFound when the record is gone.
	UpdateScore(ctx context.Context, id uuid.UUID, score float64) error
	// Search returns one ranked page: score DESC (unscored last), then
	// published_at DESC.
	Search(ctx context.Context, q SearchQuery) ([]domain.Content, error)
	// CountSearch returns the total number of records matching the query,
	// ignoring pagination.
	CountSearch(ctx context.Context, q SearchQuery) (int64, error)
}
