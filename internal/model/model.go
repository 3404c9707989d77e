// Package model wraps the generative-language backend behind a small
// conversation contract. A blocked reply is a normal outcome; only transport
// and backend faults surface as errors.
package model

import (
	"context"
	"errors"
)

// ErrUnavailable indicates a transport, auth, or backend fault. Callers are
// expected to degrade to a user-visible fallback rather than crash.
var ErrUnavailable = errors.New("model backend unavailable")

// Reply is the normalized outcome of one model call.
// Blocked means the backend withheld content due to safety policy;
// Text may be empty even when Blocked is false.
type Reply struct {
	Text    string
	Blocked bool
}

// Conversation is one running model chat. The backend retains the turn
// history; the handle is owned exclusively by a single session.
type Conversation interface {
	Send(ctx context.Context, prompt string) (Reply, error)
}

// Gateway opens conversations against the model backend.
type Gateway interface {
	Open(ctx context.Context) (Conversation, error)
}
