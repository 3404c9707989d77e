// Package enrich classifies links found in chat messages and fetches short
// descriptive blurbs for them. Fetch failures never propagate past the
// Enricher: a failed or timed-out fetch degrades to no enrichment text.
package enrich

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Kind labels the category of a classified link.
type Kind string

const (
	KindVideo Kind = "video"
	KindMusic Kind = "music"
	KindPage  Kind = "page"
	KindNone  Kind = "none"
)

// Link is a classified link: the kind plus the identifier the matching
// fetcher needs (video id, track id, or full URL).
type Link struct {
	Kind       Kind
	Identifier string
}

var (
	videoPattern = regexp.MustCompile(`https?://(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)([\w-]+)`)
	musicPattern = regexp.MustCompile(`https?://open\.spotify\.com/track/([a-zA-Z0-9]+)`)
	pagePattern  = regexp.MustCompile(`https?://[^\s]+`)
)

// Classify inspects message text and returns at most one link. Priority is
// fixed: video beats music beats generic page, and only the first match of
// the winning kind is used.
func Classify(text string) Link {
	if m := videoPattern.FindStringSubmatch(text); m != nil {
		return Link{Kind: KindVideo, Identifier: m[1]}
	}
	if m := musicPattern.FindStringSubmatch(text); m != nil {
		return Link{Kind: KindMusic, Identifier: m[1]}
	}
	if m := pagePattern.FindString(text); m != "" {
		return Link{Kind: KindPage, Identifier: m}
	}
	return Link{Kind: KindNone}
}

// Fetcher produces a short blurb for one link identifier.
// Implementations return errors; the Enricher decides what to do with them.
type Fetcher interface {
	Kind() Kind
	Fetch(ctx context.Context, identifier string) (string, error)
}

// Enricher fans fetches out concurrently and joins non-empty results in
// detection order.
type Enricher struct {
	logger   *slog.Logger
	fetchers map[Kind]Fetcher
	timeout  time.Duration
}

// NewEnricher registers the given fetchers. A link whose kind has no
// registered fetcher yields no text.
func NewEnricher(log *slog.Logger, timeout time.Duration, fetchers ...Fetcher) *Enricher {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	byKind := make(map[Kind]Fetcher, len(fetchers))
	for _, f := range fetchers {
		byKind[f.Kind()] = f
	}
	return &Enricher{
		logger:   log.With(slog.String("component", "enrich")),
		fetchers: byKind,
		timeout:  timeout,
	}
}

// Enrich fetches blurbs for all links concurrently, each under its own
// timeout, and joins the non-empty results with newlines in the order the
// links were detected. Errors are logged and swallowed here, by contract.
func (e *Enricher) Enrich(ctx context.Context, links []Link) string {
	if len(links) == 0 {
		return ""
	}

	results := make([]string, len(links))
	var group errgroup.Group
	for i, link := range links {
		if link.Kind == KindNone {
			continue
		}
		fetcher, ok := e.fetchers[link.Kind]
		if !ok {
			continue
		}
		group.Go(func() error {
			fetchCtx, cancel := context.WithTimeout(ctx, e.timeout)
			defer cancel()

			blurb, err := fetcher.Fetch(fetchCtx, link.Identifier)
			if err != nil {
				e.logger.Warn("enrichment fetch failed",
					slog.String("kind", string(link.Kind)),
					slog.String("identifier", link.Identifier),
					slog.Any("error", err))
				return nil
			}
			results[i] = strings.TrimSpace(blurb)
			return nil
		})
	}
	_ = group.Wait()

	joined := make([]string, 0, len(results))
	for _, r := range results {
		if r != "" {
			joined = append(joined, r)
		}
	}
	return strings.Join(joined, "\n")
}
