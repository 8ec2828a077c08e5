package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
)

// jsonEnvelope tolerates both a wrapped {"items": [...]} payload and a
// bare top-level array.
type jsonEnvelope struct {
	Items []jsonItem `json:"items"`
}

func (e *jsonEnvelope) UnmarshalJSON(data []byte) error {
	var bare []jsonItem
	if err := json.Unmarshal(data, &bare); err == nil {
		e.Items = bare
		return nil
	}

	type wrapped jsonEnvelope
	var w wrapped
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	e.Items = w.Items
	return nil
}

type jsonItem struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Type        string          `json:"type"`
	Metrics     json.RawMessage `json:"metrics"`
	PublishedAt string          `json:"published_at"`
}

type jsonVideoMetrics struct {
	Views    int64  `json:"views"`
	Likes    int64  `json:"likes"`
	Duration string `json:"duration"`
}

type jsonArticleMetrics struct {
	ReadingTime int64 `json:"reading_time"`
	Reactions   int64 `json:"reactions"`
}

// JSONProvider normalizes a JSON item feed.
type JSONProvider struct {
	client  *http.Client
	apiURL  string
	name    string
	timeout time.Duration
}

func NewJSONProvider(name, apiURL string, timeout time.Duration) *JSONProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &JSONProvider{
		client:  &http.Client{Timeout: timeout},
		apiURL:  apiURL,
		name:    name,
		timeout: timeout,
	}
}

func (p *JSONProvider) Name() string { return p.name }

func (p *JSONProvider) Fetch(ctx context.Context, limit int) ([]domain.NormalizedItem, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("provider %s: build request: %w", p.name, err)
	}
	q := req.URL.Query()
	q.Set("limit", strconv.Itoa(limit))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider %s: fetch: %w", p.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider %s: unexpected status %d", p.name, resp.StatusCode)
	}

	var envelope jsonEnvelope
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("provider %s: decode payload: %w", p.name, err)
	}

	items := p.transform(envelope.Items)
	slog.Info("json provider fetch completed",
		"provider", p.name,
		"count", len(items),
		"duration", time.Since(start),
	)
	return items, nil
}

func (p *JSONProvider) transform(raw []jsonItem) []domain.NormalizedItem {
	items := make([]domain.NormalizedItem, 0, len(raw))

	for _, item := range raw {
		normalized, err := p.normalize(item)
		if err != nil {
			slog.Warn("dropping json item", "provider", p.name, "id", item.ID, "error", err)
			continue
		}
		items = append(items, normalized)
	}

	return items
}

func (p *JSONProvider) normalize(item jsonItem) (domain.NormalizedItem, error) {
	contentType, err := domain.ParseContentType(item.Type)
	if err != nil {
		return domain.NormalizedItem{}, err
	}

	publishedAt, err := parsePublishedAt(item.PublishedAt)
	if err != nil {
		return domain.NormalizedItem{}, fmt.Errorf("bad published_at %q: %w", item.PublishedAt, err)
	}

	metrics, err := decodeMetrics(contentType, item.Metrics)
	if err != nil {
		return domain.NormalizedItem{}, err
	}

	normalized := domain.NormalizedItem{
		SourceID:    item.ID,
		Title:       item.Title,
		Type:        contentType,
		Metrics:     metrics,
		PublishedAt: publishedAt,
	}
	if err := normalized.Validate(); err != nil {
		return domain.NormalizedItem{}, err
	}
	return normalized, nil
}

func decodeMetrics(contentType domain.ContentType, raw json.RawMessage) (domain.Metrics, error) {
	switch contentType {
	case domain.TypeVideo:
		var m jsonVideoMetrics
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &m); err != nil {
				return domain.Metrics{}, fmt.Errorf("bad video metrics: %w", err)
			}
		}
		return domain.Metrics{Video: &domain.VideoMetrics{Views: m.Views, Likes: m.Likes, Duration: m.Duration}}, nil
	case domain.TypeArticle:
		var m jsonArticleMetrics
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &m); err != nil {
				return domain.Metrics{}, fmt.Errorf("bad article metrics: %w", err)
			}
		}
		return domain.Metrics{Article: &domain.ArticleMetrics{ReadingTime: m.ReadingTime, Reactions: m.Reactions}}, nil
	default:
		return domain.Metrics{}, fmt.Errorf("unknown content type %q", contentType)
	}
}
