package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultYouTubeAPIBase = "https://www.googleapis.com/youtube/v3"

// YouTubeFetcher looks up video metadata through the YouTube Data API.
type YouTubeFetcher struct {
	logger  *slog.Logger
	apiKey  string
	apiBase string
	client  *http.Client
}

// NewYouTubeFetcher creates a fetcher keyed by the given API key.
// apiBase overrides the Data API endpoint; empty means the real API.
func NewYouTubeFetcher(apiKey, apiBase string, log *slog.Logger) *YouTubeFetcher {
	if log == nil {
		log = slog.Default()
	}
	if apiBase == "" {
		apiBase = defaultYouTubeAPIBase
	}
	return &YouTubeFetcher{
		logger:  log.With(slog.String("fetcher", "youtube")),
		apiKey:  apiKey,
		apiBase: strings.TrimRight(apiBase, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Kind returns KindVideo.
func (f *YouTubeFetcher) Kind() Kind {
	return KindVideo
}

type youtubeVideoList struct {
	Items []struct {
		Snippet struct {
			Title       string   `json:"title"`
			Description string   `json:"description"`
			PublishedAt string   `json:"publishedAt"`
			Tags        []string `json:"tags"`
		} `json:"snippet"`
		Statistics struct {
			ViewCount string `json:"viewCount"`
			LikeCount string `json:"likeCount"`
		} `json:"statistics"`
	} `json:"items"`
}

// Fetch returns a one-line blurb with the video's snippet and statistics.
func (f *YouTubeFetcher) Fetch(ctx context.Context, videoID string) (string, error) {
	query := url.Values{}
	query.Set("id", videoID)
	query.Set("key", f.apiKey)
	query.Set("part", "snippet,statistics")

	endpoint := f.apiBase + "/videos?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("youtube build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("youtube fetch video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("youtube fetch video: status %d", resp.StatusCode)
	}

	var list youtubeVideoList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return "", fmt.Errorf("youtube decode response: %w", err)
	}
	if len(list.Items) == 0 {
		return "", fmt.Errorf("youtube video %s not found", videoID)
	}

	item := list.Items[0]
	tags := "Not available"
	if len(item.Snippet.Tags) > 0 {
		tags = strings.Join(item.Snippet.Tags, ", ")
	}
	likes := orNotAvailable(item.Statistics.LikeCount)
	views := orNotAvailable(item.Statistics.ViewCount)

	return fmt.Sprintf("Title: %s, Description: %s, Upload Date: %s, Tags: %s, Likes: %s, Views: %s",
		item.Snippet.Title, item.Snippet.Description, item.Snippet.PublishedAt, tags, likes, views), nil
}

func orNotAvailable(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Not available"
	}
	return value
}
