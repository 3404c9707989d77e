package bot

import (
	"math/rand/v2"
	"strings"

	"github.com/serikabot/serika/internal/gateway"
)

// Trigger decides whether an incoming message warrants a model call.
type Trigger interface {
	Matches(msg gateway.Message) bool
}

// MentionTrigger fires when the bot is directly addressed. Broadcast
// mentions (@everyone/@here) do not count as being addressed.
type MentionTrigger struct{}

func (MentionTrigger) Matches(msg gateway.Message) bool {
	return msg.MentionsBot && !msg.MentionsEveryone
}

// KeywordTrigger fires when the configured word appears anywhere in the
// message text, case-insensitively.
type KeywordTrigger struct {
	word string
}

func NewKeywordTrigger(word string) KeywordTrigger {
	return KeywordTrigger{word: strings.ToLower(word)}
}

func (t KeywordTrigger) Matches(msg gateway.Message) bool {
	if t.word == "" {
		return false
	}
	return strings.Contains(strings.ToLower(msg.Text), t.word)
}

// ProbabilityTrigger fires on a fixed percentage of arbitrary messages.
// The random source is injected so tests stay deterministic.
type ProbabilityTrigger struct {
	percent int
	intn    func(int) int
}

func NewProbabilityTrigger(percent int, intn func(int) int) ProbabilityTrigger {
	if intn == nil {
		intn = rand.IntN
	}
	return ProbabilityTrigger{percent: percent, intn: intn}
}

func (t ProbabilityTrigger) Matches(gateway.Message) bool {
	return t.percent > 0 && t.intn(100) < t.percent
}

type anyTrigger []Trigger

func (ts anyTrigger) Matches(msg gateway.Message) bool {
	for _, t := range ts {
		if t.Matches(msg) {
			return true
		}
	}
	return false
}

// AnyTrigger combines triggers; the result fires when any member fires.
func AnyTrigger(triggers ...Trigger) Trigger {
	return anyTrigger(triggers)
}
