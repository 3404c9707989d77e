// Package store remembers which channels the agent is active in, so the
// bookkeeping survives restarts. The dispatch pipeline never depends on it;
// when postgres is not configured a no-op store stands in.
package store

import "context"

// ChannelStore is the active-channel bookkeeping contract.
type ChannelStore interface {
	// SetActive records whether the agent treats channelID as active.
	SetActive(ctx context.Context, channelID string, active bool) error
	// IsActive reports the recorded flag; unknown channels are inactive.
	IsActive(ctx context.Context, channelID string) (bool, error)
	// ActiveChannels lists all channels currently recorded active.
	ActiveChannels(ctx context.Context) ([]string, error)
	Close()
}

// Nop is the stand-in used when no persistence is configured.
type Nop struct{}

func (Nop) SetActive(context.Context, string, bool) error { return nil }

func (Nop) IsActive(context.Context, string) (bool, error) { return false, nil }

func (Nop) ActiveChannels(context.Context) ([]string, error) { return nil, nil }

func (Nop) Close() {}
