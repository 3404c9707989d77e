// Package session keeps one running model conversation per chat channel.
// The store guarantees at most one session is ever created per key, even
// under concurrent arrivals, and optionally evicts idle sessions.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/serikabot/serika/internal/model"
)

// Session is the durable state of one channel's exchange with the model.
type Session struct {
	key       string
	conv      model.Conversation
	createdAt time.Time

	// turnMu serialises compose+send for this channel so turns apply in
	// arrival order and the first-turn flip cannot race.
	turnMu sync.Mutex

	mu            sync.Mutex
	firstTurn     bool
	initialPrompt string
	lastUsed      time.Time
}

func newSession(key string, conv model.Conversation, initialPrompt string) *Session {
	now := time.Now()
	return &Session{
		key:           key,
		conv:          conv,
		createdAt:     now,
		firstTurn:     true,
		initialPrompt: initialPrompt,
		lastUsed:      now,
	}
}

// Key returns the conversation key this session is indexed by.
func (s *Session) Key() string {
	return s.key
}

// Conversation returns the model conversation handle owned by this session.
func (s *Session) Conversation() model.Conversation {
	return s.conv
}

// Reserve blocks until the caller owns this session's turn slot.
// Turns for one channel are applied strictly in reservation order.
// Acquiring the slot counts as activity, so a session cannot look idle
// while a turn is in flight.
func (s *Session) Reserve() {
	s.turnMu.Lock()
	s.Touch()
}

// Release gives up the turn slot acquired by Reserve.
func (s *Session) Release() {
	s.turnMu.Unlock()
}

// ConsumeInitialPrompt returns the initial instruction prompt on the first
// call and flips the first-turn flag; every later call returns "", false.
// The flag never reverts.
func (s *Session) ConsumeInitialPrompt() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.firstTurn {
		return "", false
	}
	s.firstTurn = false
	return s.initialPrompt, true
}

// Touch records session activity for idle-eviction accounting.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

// LastUsed returns the time of the most recent Touch (or creation).
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// PromptSource provides the static initial prompt for new sessions.
type PromptSource interface {
	Load() string
}

// Store maps conversation keys to sessions, creating them lazily.
type Store struct {
	logger  *slog.Logger
	gateway model.Gateway
	prompts PromptSource

	mu      sync.Mutex
	entries map[string]*storeEntry
}

// storeEntry pins session initialization behind a sync.Once so a slow model
// open cannot race a second arrival for the same key into a second handle.
type storeEntry struct {
	once sync.Once
	sess *Session
	err  error
}

// NewStore creates an empty session store backed by the given model gateway
// and prompt source.
func NewStore(gateway model.Gateway, prompts PromptSource, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		logger:  log.With(slog.String("component", "session")),
		gateway: gateway,
		prompts: prompts,
		entries: make(map[string]*storeEntry),
	}
}

// GetOrCreate returns the session for key, opening a new model conversation
// if none exists. At most one conversation is ever opened per key; callers
// racing on a fresh key all receive the same session. A failed open is not
// cached: the next message for that key retries.
func (st *Store) GetOrCreate(ctx context.Context, key string) (*Session, error) {
	st.mu.Lock()
	entry, ok := st.entries[key]
	if !ok {
		entry = &storeEntry{}
		st.entries[key] = entry
	}
	st.mu.Unlock()

	entry.once.Do(func() {
		conv, err := st.gateway.Open(ctx)
		if err != nil {
			entry.err = fmt.Errorf("create session %s: %w", key, err)
			return
		}
		entry.sess = newSession(key, conv, st.prompts.Load())
		st.logger.Info("session created", slog.String("key", key))
	})

	if entry.err != nil {
		st.mu.Lock()
		if st.entries[key] == entry {
			delete(st.entries, key)
		}
		st.mu.Unlock()
		return nil, entry.err
	}
	return entry.sess, nil
}

// Len returns the number of initialized sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	count := 0
	for _, entry := range st.entries {
		if entry.sess != nil {
			count++
		}
	}
	return count
}

// Evict removes the session for key, if present.
func (st *Store) Evict(key string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.entries, key)
}

// EvictIdle removes sessions whose last activity is older than ttl and
// returns how many were evicted. A ttl of zero evicts nothing.
func (st *Store) EvictIdle(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-ttl)

	st.mu.Lock()
	defer st.mu.Unlock()
	evicted := 0
	for key, entry := range st.entries {
		if entry.sess == nil {
			continue
		}
		// A session mid-turn holds its turn slot; never evict it.
		if !entry.sess.turnMu.TryLock() {
			continue
		}
		if entry.sess.LastUsed().Before(cutoff) {
			delete(st.entries, key)
			evicted++
		}
		entry.sess.turnMu.Unlock()
	}
	return evicted
}
