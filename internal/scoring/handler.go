package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/queue"
	"github.com/DjordjeVuckovic/content-hunter/internal/storage"
)

// Handler consumes score requests from the queue and persists the result.
type Handler struct {
	store storage.ContentStore
	now   func() time.Time
}

func NewHandler(store storage.ContentStore) *Handler {
	return &Handler{store: store, now: time.Now}
}

// Handle loads the content, computes its score and writes it back. A record
// that disappeared between enqueue and delivery is logged and dropped, not
// retried. Redelivery is harmless: the score is recomputed from the same
// inputs and overwritten with the same value.
func (h *Handler) Handle(ctx context.Context, msg queue.Message) error {
	req, ok := msg.(queue.ScoreContent)
	if !ok {
		return fmt.Errorf("unexpected message kind %q", msg.Kind())
	}

	content, err := h.store.FindByID(ctx, req.ContentID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.Warn("content to score no longer exists, dropping", "content_id", req.ContentID)
			return nil
		}
		return fmt.Errorf("failed to load content %s: %w", req.ContentID, err)
	}

	score := CalculateScore(content, h.now())

	if err := h.store.UpdateScore(ctx, content.ID, score); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			slog.Warn("content deleted during scoring, dropping", "content_id", req.ContentID)
			return nil
		}
		return fmt.Errorf("failed to persist score for %s: %w", content.ID, err)
	}

	slog.Info("content scored", "content_id", content.ID, "score", score)
	return nil
}
