// Package gateway defines the contract between the dispatch pipeline and a
// chat platform. Adapters such as Discord and Telegram implement Gateway and
// feed inbound messages to a registered Handler.
package gateway

import (
	"context"
	"time"
)

// Message is a platform-neutral inbound chat message.
type Message struct {
	ID               string
	AuthorID         string
	AuthorName       string
	ChannelID        string
	Text             string
	MentionsBot      bool
	MentionsEveryone bool
	FromSelf         bool
	ReceivedAt       time.Time
}

// Handler receives lifecycle and message events from a gateway.
// Registration is explicit: the adapter never owns dispatch logic.
type Handler interface {
	OnReady(botName string)
	OnMessage(ctx context.Context, msg Message)
}

// Gateway is a live connection to one chat platform.
type Gateway interface {
	// Run connects and blocks, delivering events to handler until ctx is done.
	Run(ctx context.Context, handler Handler) error
	// SendChunk posts one already-sized message to a channel.
	SendChunk(ctx context.Context, channelID, text string) error
	// Typing signals the platform's typing indicator. Best effort.
	Typing(ctx context.Context, channelID string)
	// MessageLimit is the platform's per-message character limit.
	MessageLimit() int
	// Connected reports whether the gateway currently holds a live connection.
	Connected() bool
}
