package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage"
)

const uniqueViolationCode = "23505"

type Store struct {
	db *pgxpool.Pool
}

func NewStore(pool *ConnectionPool) (*Store, error) {
	return &Store{db: pool.conn}, nil
}

// EnsureSchema creates the contents table and its secondary indexes. The
// unique constraint on source_id is the dedup backstop for concurrent
// ingestion runs.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS contents (
			id UUID PRIMARY KEY,
			source_id VARCHAR(255) NOT NULL UNIQUE,
			title VARCHAR(500) NOT NULL,
			content_type VARCHAR(20) NOT NULL,
			metrics JSONB NOT NULL,
			published_at TIMESTAMPTZ NOT NULL,
			score DOUBLE PRECISION DEFAULT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_contents_type ON contents (content_type);
		CREATE INDEX IF NOT EXISTS idx_contents_score ON contents (score);
		CREATE INDEX IF NOT EXISTS idx_contents_published_at ON contents (published_at);
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure contents schema: %w", err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, content *domain.Content) error {
	if content.ID == uuid.Nil {
		content.ID = uuid.New()
	}
	now := time.Now().UTC()
	if content.CreatedAt.IsZero() {
		content.CreatedAt = now
	}
	if content.UpdatedAt.IsZero() {
		content.UpdatedAt = now
	}

	metricsJSON, err := json.Marshal(content.Metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	cmd := `
		INSERT INTO contents (id, source_id, title, content_type, metrics, published_at, score, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = s.db.Exec(
		ctx,
		cmd,
		content.ID,
		content.SourceID,
		content.Title,
		string(content.Type),
		metricsJSON,
		content.PublishedAt,
		content.Score,
		content.CreatedAt,
		content.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return storage.ErrDuplicateSourceID
		}
		return fmt.Errorf("failed to insert content: %w", err)
	}

	return nil
}

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*domain.Content, error) {
	query := `
		SELECT id, source_id, title, content_type, metrics, published_at, score, created_at, updated_at
		FROM contents
		WHERE id = $1;
	`
	content, err := scanContent(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load content %s: %w", id, err)
	}
	return content, nil
}

func (s *Store) ExistsBySourceID(ctx context.Context, sourceID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM contents WHERE source_id = $1)`, sourceID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check source id %q: %w", sourceID, err)
	}
	return exists, nil
}

func (s *Store) UpdateScore(ctx context.Context, id uuid.UUID, score float64) error {
	tag, err := s.db.Exec(
		ctx,
		`UPDATE contents SET score = $1, updated_at = $2 WHERE id = $3`,
		score,
		time.Now().UTC(),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update score for %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) Search(ctx context.Context, q storage.SearchQuery) ([]domain.Content, error) {
	where, args := buildFilter(q)

	query := `
		SELECT id, source_id, title, content_type, metrics, published_at, score, created_at, updated_at
		FROM contents
	` + where + fmt.Sprintf(`
		ORDER BY score DESC NULLS LAST, published_at DESC
		LIMIT $%d OFFSET $%d;
	`, len(args)+1, len(args)+2)
	args = append(args, q.Size, (q.Page-1)*q.Size)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search query: %w", err)
	}
	defer rows.Close()

	var contents []domain.Content
	for rows.Next() {
		content, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content row: %w", err)
		}
		contents = append(contents, *content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read search rows: %w", err)
	}

	return contents, nil
}

func (s *Store) CountSearch(ctx context.Context, q storage.SearchQuery) (int64, error) {
	where, args := buildFilter(q)

	var total int64
	err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM contents `+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count search matches: %w", err)
	}
	return total, nil
}

func buildFilter(q storage.SearchQuery) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	if q.Keyword != "" {
		args = append(args, "%"+q.Keyword+"%")
		clauses = append(clauses, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if q.Type != nil {
		args = append(args, string(*q.Type))
		clauses = append(clauses, fmt.Sprintf("content_type = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContent(row rowScanner) (*domain.Content, error) {
	var content domain.Content
	var contentType string
	var metricsJSON []byte

	err := row.Scan(
		&content.ID,
		&content.SourceID,
		&content.Title,
		&contentType,
		&metricsJSON,
		&content.PublishedAt,
		&content.Score,
		&content.CreatedAt,
		&content.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	content.Type = domain.ContentType(contentType)
	if err := json.Unmarshal(metricsJSON, &content.Metrics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
	}

	return &content, nil
}
