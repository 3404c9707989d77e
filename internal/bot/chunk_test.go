package bot

import (
	"strings"
	"testing"
)

func TestSplitChunks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		limit int
		want  int
	}{
		{name: "fits in one", text: "short", limit: 10, want: 1},
		{name: "exact boundary", text: strings.Repeat("a", 20), limit: 10, want: 2},
		{name: "one over", text: strings.Repeat("a", 21), limit: 10, want: 3},
		{name: "long reply", text: strings.Repeat("x", 5000), limit: 1999, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			chunks := SplitChunks(tt.text, tt.limit)
			if len(chunks) != tt.want {
				t.Fatalf("got %d chunks, want %d", len(chunks), tt.want)
			}
			for i, c := range chunks {
				if n := len([]rune(c)); n > tt.limit {
					t.Errorf("chunk %d has %d runes, limit %d", i, n, tt.limit)
				}
			}
			if joined := strings.Join(chunks, ""); joined != tt.text {
				t.Error("concatenated chunks must reconstruct the input")
			}
		})
	}
}

func TestSplitChunksRuneBoundaries(t *testing.T) {
	t.Parallel()

	text := strings.Repeat("日本語テキスト", 10)
	chunks := SplitChunks(text, 7)
	if joined := strings.Join(chunks, ""); joined != text {
		t.Fatal("multi-byte text must survive splitting intact")
	}
	for i, c := range chunks {
		if !strings.HasPrefix(text[len(strings.Join(chunks[:i], "")):], c) {
			t.Fatalf("chunk %d out of order", i)
		}
		if len([]rune(c)) > 7 {
			t.Fatalf("chunk %d exceeds rune limit", i)
		}
	}
}

func TestSplitChunksEmpty(t *testing.T) {
	t.Parallel()

	if got := SplitChunks("", 100); got != nil {
		t.Fatalf("empty text should yield no chunks, got %v", got)
	}
}
