package in_mem

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage"
)

// Store is a mutex-protected in-memory ContentStore used by tests and
// local runs without a database.
type Store struct {
	mu       sync.RWMutex
	records  map[uuid.UUID]domain.Content
	bySource map[string]uuid.UUID
}

func NewStore() *Store {
	return &Store{
		records:  make(map[uuid.UUID]domain.Content),
		bySource: make(map[string]uuid.UUID),
	}
}

func (s *Store) Save(ctx context.Context, content *domain.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bySource[content.SourceID]; ok {
		return storage.ErrDuplicateSourceID
	}
	if content.ID == uuid.Nil {
		content.ID = uuid.New()
	}

	s.records[content.ID] = *content
	s.bySource[content.SourceID] = content.ID
	return nil
}

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*domain.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &record, nil
}

func (s *Store) ExistsBySourceID(ctx context.Context, sourceID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.bySource[sourceID]
	return ok, nil
}

func (s *Store) UpdateScore(ctx context.Context, id uuid.UUID, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return storage.ErrNotFound
	}
	record.Score = &score
	record.UpdatedAt = time.Now().UTC()
	s.records[id] = record
	return nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[id]
	if !ok {
		return storage.ErrNotFound
	}
	delete(s.bySource, record.SourceID)
	delete(s.records, id)
	return nil
}

func (s *Store) Search(ctx context.Context, q storage.SearchQuery) ([]domain.Content, error) {
	matches := s.match(q)

	sort.SliceStable(matches, func(i, j int) bool {
		si, sj := matches[i].Score, matches[j].Score
		switch {
		case si != nil && sj == nil:
			return true
		case si == nil && sj != nil:
			return false
		case si != nil && sj != nil && *si != *sj:
			return *si > *sj
		}
		return matches[i].PublishedAt.After(matches[j].PublishedAt)
	})

	offset := (q.Page - 1) * q.Size
	if offset >= len(matches) {
		return nil, nil
	}
	end := offset + q.Size
	if end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end], nil
}

func (s *Store) CountSearch(ctx context.Context, q storage.SearchQuery) (int64, error) {
	return int64(len(s.match(q))), nil
}

func (s *Store) match(q storage.SearchQuery) []domain.Content {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keyword := strings.ToLower(q.Keyword)
	var matches []domain.Content
	for _, record := range s.records {
		if keyword != "" && !strings.Contains(strings.ToLower(record.Title), keyword) {
			continue
		}
		if q.Type != nil && record.Type != *q.Type {
			continue
		}
		matches = append(matches, record)
	}
	return matches
}
