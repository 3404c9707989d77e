package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	defaultSpotifyTokenURL = "https://accounts.spotify.com/api/token"
	defaultSpotifyAPIBase  = "https://api.spotify.com/v1"
)

// SpotifyFetcher looks up track metadata through the Spotify Web API using
// the client-credentials flow. The oauth2 client caches and refreshes the
// token; no request is ever sent without one.
type SpotifyFetcher struct {
	logger  *slog.Logger
	apiBase string
	client  *http.Client
}

// SpotifyCredentials configures the client-credentials token exchange.
// TokenURL and APIBase override the real endpoints, for tests. Timeout
// bounds both the token exchange and the track request (15s default).
type SpotifyCredentials struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	APIBase      string
	Timeout      time.Duration
}

// NewSpotifyFetcher creates a fetcher with a token-refreshing HTTP client.
func NewSpotifyFetcher(creds SpotifyCredentials, log *slog.Logger) *SpotifyFetcher {
	if log == nil {
		log = slog.Default()
	}
	if creds.TokenURL == "" {
		creds.TokenURL = defaultSpotifyTokenURL
	}
	if creds.APIBase == "" {
		creds.APIBase = defaultSpotifyAPIBase
	}
	if creds.Timeout <= 0 {
		creds.Timeout = 15 * time.Second
	}

	tokenCfg := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     creds.TokenURL,
	}
	// The oauth2 transport fetches tokens on its own context, not the
	// request's, so the exchange needs a bounded client of its own.
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient,
		&http.Client{Timeout: creds.Timeout})
	client := tokenCfg.Client(tokenCtx)
	client.Timeout = creds.Timeout

	return &SpotifyFetcher{
		logger:  log.With(slog.String("fetcher", "spotify")),
		apiBase: strings.TrimRight(creds.APIBase, "/"),
		client:  client,
	}
}

// Kind returns KindMusic.
func (f *SpotifyFetcher) Kind() Kind {
	return KindMusic
}

type spotifyTrack struct {
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
}

// Fetch returns "Title: <name>, Artists: <a, b>" for the given track id.
func (f *SpotifyFetcher) Fetch(ctx context.Context, trackID string) (string, error) {
	endpoint := f.apiBase + "/tracks/" + trackID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("spotify build request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("spotify fetch track: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("spotify fetch track: status %d", resp.StatusCode)
	}

	var track spotifyTrack
	if err := json.NewDecoder(resp.Body).Decode(&track); err != nil {
		return "", fmt.Errorf("spotify decode response: %w", err)
	}

	artists := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		artists = append(artists, artist.Name)
	}
	return fmt.Sprintf("Title: %s, Artists: %s", track.Name, strings.Join(artists, ", ")), nil
}
