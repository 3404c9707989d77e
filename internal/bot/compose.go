// Package bot contains the per-message dispatch pipeline: trigger decisions,
// prompt composition, reply chunking, and the dispatcher that ties the chat
// gateway, enrichment, sessions, and the model together.
package bot

import (
	"fmt"
	"time"
)

const turnTimeLayout = "2006-01-02 15:04:05"

// TurnRecord captures one inbound user message for prompt composition.
// Immutable once constructed.
type TurnRecord struct {
	Timestamp  time.Time
	AuthorID   string
	AuthorName string
	Text       string
}

// ComposePrompt builds the exact text sent to the model. Enrichment text, if
// any, is appended to the raw message text so the model sees it as message
// content. A non-empty initialPrompt (first turn of a session) prefixes the
// whole record followed by a blank line. Deterministic for identical inputs.
func ComposePrompt(rec TurnRecord, enrichment, initialPrompt string) string {
	text := rec.Text
	if enrichment != "" {
		text += "\n\n" + enrichment
	}
	turn := fmt.Sprintf("TIME:(%s) USER ID:%s USER NAME:%s MESSAGE: %s",
		rec.Timestamp.Format(turnTimeLayout), rec.AuthorID, rec.AuthorName, text)
	if initialPrompt != "" {
		return initialPrompt + "\n\n" + turn
	}
	return turn
}
