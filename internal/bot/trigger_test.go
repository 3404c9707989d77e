package bot

import (
	"testing"

	"github.com/serikabot/serika/internal/gateway"
)

func TestMentionTrigger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		msg  gateway.Message
		want bool
	}{
		{name: "direct mention", msg: gateway.Message{MentionsBot: true}, want: true},
		{name: "no mention", msg: gateway.Message{}, want: false},
		{name: "broadcast mention", msg: gateway.Message{MentionsBot: true, MentionsEveryone: true}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := (MentionTrigger{}).Matches(tt.msg); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeywordTrigger(t *testing.T) {
	t.Parallel()

	trig := NewKeywordTrigger("Serika")
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "exact", text: "hey Serika what's up", want: true},
		{name: "case insensitive", text: "SERIKA!!", want: true},
		{name: "absent", text: "hello world", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := trig.Matches(gateway.Message{Text: tt.text}); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}

	if NewKeywordTrigger("").Matches(gateway.Message{Text: "anything"}) {
		t.Error("empty keyword must never fire")
	}
}

func TestProbabilityTrigger(t *testing.T) {
	t.Parallel()

	always := func(int) int { return 0 }
	never := func(int) int { return 99 }

	if !NewProbabilityTrigger(5, always).Matches(gateway.Message{}) {
		t.Error("roll below percent should fire")
	}
	if NewProbabilityTrigger(5, never).Matches(gateway.Message{}) {
		t.Error("roll at or above percent should not fire")
	}
	if NewProbabilityTrigger(0, always).Matches(gateway.Message{}) {
		t.Error("zero percent must never fire")
	}
}

func TestAnyTrigger(t *testing.T) {
	t.Parallel()

	trig := AnyTrigger(MentionTrigger{}, NewKeywordTrigger("serika"))
	if !trig.Matches(gateway.Message{MentionsBot: true}) {
		t.Error("mention member should fire the combinator")
	}
	if !trig.Matches(gateway.Message{Text: "serika?"}) {
		t.Error("keyword member should fire the combinator")
	}
	if trig.Matches(gateway.Message{Text: "nothing"}) {
		t.Error("no member fired, combinator must not fire")
	}
}
