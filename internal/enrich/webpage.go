package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
)

// PageFetcher downloads a web page and extracts its visible text.
type PageFetcher struct {
	logger   *slog.Logger
	client   *http.Client
	maxChars int
}

// NewPageFetcher creates a fetcher whose blurbs are capped at maxChars runes.
func NewPageFetcher(maxChars int, log *slog.Logger) *PageFetcher {
	if log == nil {
		log = slog.Default()
	}
	if maxChars <= 0 {
		maxChars = 4000
	}
	return &PageFetcher{
		logger:   log.With(slog.String("fetcher", "page")),
		client:   &http.Client{Timeout: 15 * time.Second},
		maxChars: maxChars,
	}
}

// Kind returns KindPage.
func (f *PageFetcher) Kind() Kind {
	return KindPage
}

// Fetch downloads the page, runs readability extraction, collapses the
// whitespace, and truncates to the configured bound.
func (f *PageFetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("page parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("page build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("page fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page fetch: status %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("page extract text: %w", err)
	}

	text := strings.Join(strings.Fields(article.TextContent), " ")
	runes := []rune(text)
	if len(runes) > f.maxChars {
		text = string(runes[:f.maxChars])
	}
	return text, nil
}
