package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper evicts idle sessions on a cron schedule. With a zero TTL the
// store keeps sessions for the process lifetime and no sweeper is needed.
type Sweeper struct {
	cron *cron.Cron
}

// StartSweeper schedules periodic idle eviction and starts it immediately.
func StartSweeper(store *Store, ttl time.Duration, schedule string, log *slog.Logger) (*Sweeper, error) {
	if log == nil {
		log = slog.Default()
	}
	logger := log.With(slog.String("component", "session_sweeper"))

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if evicted := store.EvictIdle(ttl); evicted > 0 {
			logger.Info("idle sessions evicted", slog.Int("count", evicted))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule session sweep: %w", err)
	}
	c.Start()
	return &Sweeper{cron: c}, nil
}

// Stop cancels future sweeps. Running sweeps finish.
func (s *Sweeper) Stop() {
	if s != nil && s.cron != nil {
		s.cron.Stop()
	}
}
