package enrich

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestClassifyPriority(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		text       string
		kind       Kind
		identifier string
	}{
		{
			name:       "watch link",
			text:       "check https://www.youtube.com/watch?v=dQw4w9WgXcQ out",
			kind:       KindVideo,
			identifier: "dQw4w9WgXcQ",
		},
		{
			name:       "short link",
			text:       "https://youtu.be/abc123",
			kind:       KindVideo,
			identifier: "abc123",
		},
		{
			name:       "spotify track",
			text:       "listen https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC",
			kind:       KindMusic,
			identifier: "4uLU6hMCjMI75M1A2tKUQC",
		},
		{
			name:       "generic page",
			text:       "read https://example.com/article?id=7 now",
			kind:       KindPage,
			identifier: "https://example.com/article?id=7",
		},
		{
			name: "video wins over page",
			text: "both https://example.com/a and https://youtu.be/abc123 here",
			kind: KindVideo, identifier: "abc123",
		},
		{
			name: "music wins over page",
			text: "both https://example.com/a and https://open.spotify.com/track/xyz789 here",
			kind: KindMusic, identifier: "xyz789",
		},
		{name: "no link", text: "just chatting", kind: KindNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			link := Classify(tt.text)
			if link.Kind != tt.kind {
				t.Fatalf("kind = %s, want %s", link.Kind, tt.kind)
			}
			if link.Identifier != tt.identifier {
				t.Fatalf("identifier = %q, want %q", link.Identifier, tt.identifier)
			}
		})
	}
}

func TestClassifyIdempotent(t *testing.T) {
	t.Parallel()

	text := "https://youtu.be/abc123 and https://example.com"
	first := Classify(text)
	second := Classify(text)
	if first != second {
		t.Fatalf("classification not stable: %+v vs %+v", first, second)
	}
}

type stubFetcher struct {
	kind  Kind
	text  string
	err   error
	delay time.Duration
}

func (s *stubFetcher) Kind() Kind { return s.kind }

func (s *stubFetcher) Fetch(ctx context.Context, identifier string) (string, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.delay):
		}
	}
	return s.text, s.err
}

func TestEnricherJoinsInDetectionOrder(t *testing.T) {
	t.Parallel()

	enricher := NewEnricher(nil, time.Second,
		&stubFetcher{kind: KindVideo, text: "video blurb", delay: 50 * time.Millisecond},
		&stubFetcher{kind: KindMusic, text: "music blurb"},
	)

	got := enricher.Enrich(context.Background(), []Link{
		{Kind: KindVideo, Identifier: "a"},
		{Kind: KindMusic, Identifier: "b"},
	})
	want := "video blurb\nmusic blurb"
	if got != want {
		t.Fatalf("joined = %q, want %q", got, want)
	}
}

func TestEnricherSwallowsErrors(t *testing.T) {
	t.Parallel()

	enricher := NewEnricher(nil, time.Second,
		&stubFetcher{kind: KindVideo, err: errors.New("boom")},
		&stubFetcher{kind: KindPage, text: "page blurb"},
	)

	got := enricher.Enrich(context.Background(), []Link{
		{Kind: KindVideo, Identifier: "a"},
		{Kind: KindPage, Identifier: "https://example.com"},
	})
	if got != "page blurb" {
		t.Fatalf("failed fetch should degrade to empty, got %q", got)
	}
}

func TestEnricherTimeoutDegradesToEmpty(t *testing.T) {
	t.Parallel()

	enricher := NewEnricher(nil, 20*time.Millisecond,
		&stubFetcher{kind: KindVideo, text: "late", delay: time.Second},
	)

	got := enricher.Enrich(context.Background(), []Link{{Kind: KindVideo, Identifier: "a"}})
	if got != "" {
		t.Fatalf("timed-out fetch should yield no text, got %q", got)
	}
}

func TestEnricherNoFetcherRegistered(t *testing.T) {
	t.Parallel()

	enricher := NewEnricher(nil, time.Second)
	got := enricher.Enrich(context.Background(), []Link{{Kind: KindVideo, Identifier: "a"}})
	if got != "" {
		t.Fatalf("unregistered kind should yield no text, got %q", got)
	}
}
