package provider

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/DjordjeVuckovic/content-hunter/internal/domain"
)

type xmlFeed struct {
	XMLName xml.Name  `xml:"feed"`
	Items   []xmlItem `xml:"item"`
}

type xmlItem struct {
	ID              string   `xml:"id"`
	Headline        string   `xml:"headline"`
	Type            string   `xml:"type"`
	PublicationDate string   `xml:"publication_date"`
	Stats           xmlStats `xml:"stats"`
}

type xmlStats struct {
	Views       int64  `xml:"views"`
	Likes       int64  `xml:"likes"`
	Duration    string `xml:"duration"`
	ReadingTime int64  `xml:"reading_time"`
	Reactions   int64  `xml:"reactions"`
}

// XMLProvider normalizes an XML feed. The feed's element names differ
// from the JSON wire format (headline, publication_date, stats); the
// output shape is identical.
type XMLProvider struct {
	client  *http.Client
	feedURL string
	name    string
	timeout time.Duration
}

func NewXMLProvider(name, feedURL string, timeout time.Duration) *XMLProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &XMLProvider{
		client:  &http.Client{Timeout: timeout},
		feedURL: feedURL,
		name:    name,
		timeout: timeout,
	}
}

func (p *XMLProvider) Name() string { return p.name }

func (p *XMLProvider) Fetch(ctx context.Context, limit int) ([]domain.NormalizedItem, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("provider %s: build request: %w", p.name, err)
	}
	q := req.URL.Query()
	q.Set("limit", strconv.Itoa(limit))
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/xml, text/xml")
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

	var feed xmlFeed
	decoder := xml.NewDecoder(resp.Body)
	if err := decoder.Decode(&feed); err != nil {
		return nil, fmt.Errorf("provider %s: decode payload: %w", p.name, err)
	}

	items := p.transform(feed.Items)
	slog.Info("xml provider fetch completed",
		"provider", p.name,
		"count", len(items),
		"duration", time.Since(start),
	)
	return items, nil
}

func (p *XMLProvider) transform(raw []xmlItem) []domain.NormalizedItem {
	items := make([]domain.NormalizedItem, 0, len(raw))

	for _, item := range raw {
		normalized, err := p.normalize(item)
		if err != nil {
			slog.Warn("dropping xml item", "provider", p.name, "id", item.ID, "error", err)
			continue
		}
		items = append(items, normalized)
	}

	return items
}

func (p *XMLProvider) normalize(item xmlItem) (domain.NormalizedItem, error) {
	contentType, err := domain.ParseContentType(item.Type)
	if err != nil {
		return domain.NormalizedItem{}, err
	}

	publishedAt, err := parsePublishedAt(item.PublicationDate)
	if err != nil {
		return domain.NormalizedItem{}, fmt.Errorf("bad publication_date %q: %w", item.PublicationDate, err)
	}

	var metrics domain.Metrics
	switch contentType {
	case domain.TypeVideo:
		duration := item.Stats.Duration
		if duration == "" {
			duration = "0:00"
		}
		metrics = domain.Metrics{Video: &domain.VideoMetrics{
			Views:    item.Stats.Views,
			Likes:    item.Stats.Likes,
			Duration: duration,
		}}
	case domain.TypeArticle:
		metrics = domain.Metrics{Article: &domain.ArticleMetrics{
			ReadingTime: item.Stats.ReadingTime,
			Reactions:   item.Stats.Reactions,
		}}
	}

	normalized := domain.NormalizedItem{
		SourceID:    item.ID,
		Title:       item.Headline,
		Type:        contentType,
		Metrics:     metrics,
		PublishedAt: publishedAt,
	}
	if err := normalized.Validate(); err != nil {
		return domain.NormalizedItem{}, err
	}
	return normalized, nil
}
