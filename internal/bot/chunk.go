package bot

// Canned user-visible texts for degraded outcomes.
const (
	EmptyReplyFallback  = "I'm not sure how to respond to that."
	UnavailableFallback = "Sorry, I can't respond at the moment."
	BlockedNotice       = "I'd rather not answer that one."
)

// SplitChunks splits text into ordered chunks of at most limit characters,
// cutting on rune boundaries. Concatenating the chunks reconstructs the
// input exactly. Empty input yields no chunks.
func SplitChunks(text string, limit int) []string {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return []string{text}
	}
	chunks := make([]string, 0, (len(runes)+limit-1)/limit)
	for start := 0; start < len(runes); start += limit {
		end := min(start+limit, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
