package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/serikabot/serika/internal/enrich"
	"github.com/serikabot/serika/internal/gateway"
	"github.com/serikabot/serika/internal/model"
	"github.com/serikabot/serika/internal/session"
	"github.com/serikabot/serika/internal/store"
)

// Dispatcher orchestrates one incoming message end to end: self-filter,
// enrichment, trigger decision, session lookup, model call, and chunked
// reply. It implements gateway.Handler. No fault escapes OnMessage; the
// event loop keeps serving other conversations no matter what one message
// does.
type Dispatcher struct {
	logger         *slog.Logger
	gw             gateway.Gateway
	enricher       *enrich.Enricher
	sessions       *session.Store
	channels       store.ChannelStore
	trigger        Trigger
	replyOnBlocked bool

	mu      sync.Mutex
	botName string
	marked  map[string]bool
}

// NewDispatcher wires the dispatch pipeline. channels records which channels
// have triggered the bot; replyOnBlocked selects whether a safety-blocked
// reply produces a neutral notice or silence.
func NewDispatcher(gw gateway.Gateway, enricher *enrich.Enricher, sessions *session.Store, channels store.ChannelStore, trigger Trigger, replyOnBlocked bool, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	if channels == nil {
		channels = store.Nop{}
	}
	return &Dispatcher{
		logger:         log.With(slog.String("component", "dispatcher")),
		gw:             gw,
		enricher:       enricher,
		sessions:       sessions,
		channels:       channels,
		trigger:        trigger,
		replyOnBlocked: replyOnBlocked,
		marked:         make(map[string]bool),
	}
}

// OnReady records the connected identity.
func (d *Dispatcher) OnReady(botName string) {
	d.mu.Lock()
	d.botName = botName
	d.mu.Unlock()
	d.logger.Info("gateway ready", slog.String("bot", botName))
}

// BotName returns the identity reported by the gateway, if connected yet.
func (d *Dispatcher) BotName() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.botName
}

// OnMessage runs the dispatch state machine for one inbound message.
func (d *Dispatcher) OnMessage(ctx context.Context, msg gateway.Message) {
	logger := d.logger.With(
		slog.String("trace_id", uuid.NewString()),
		slog.String("channel_id", msg.ChannelID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("dispatch panic recovered", slog.Any("panic", r))
		}
	}()

	if msg.FromSelf {
		return
	}

	var enrichment string
	if link := enrich.Classify(msg.Text); link.Kind != enrich.KindNone {
		enrichment = d.enricher.Enrich(ctx, []enrich.Link{link})
	}

	if !d.trigger.Matches(msg) {
		return
	}

	d.markActive(ctx, logger, msg.ChannelID)

	sess, err := d.sessions.GetOrCreate(ctx, msg.ChannelID)
	if err != nil {
		logger.Error("session unavailable", slog.Any("error", err))
		if errors.Is(err, model.ErrUnavailable) {
			d.send(ctx, logger, msg.ChannelID, UnavailableFallback)
		}
		return
	}

	// Turns for one channel apply in arrival order; the reservation also
	// keeps this turn's chunks contiguous in the channel.
	sess.Reserve()
	defer sess.Release()
	defer sess.Touch()

	initialPrompt, _ := sess.ConsumeInitialPrompt()
	prompt := ComposePrompt(TurnRecord{
		Timestamp:  msg.ReceivedAt,
		AuthorID:   msg.AuthorID,
		AuthorName: msg.AuthorName,
		Text:       msg.Text,
	}, enrichment, initialPrompt)

	d.gw.Typing(ctx, msg.ChannelID)
	reply, err := sess.Conversation().Send(ctx, prompt)
	if err != nil {
		if errors.Is(err, model.ErrUnavailable) {
			logger.Warn("model unavailable", slog.Any("error", err))
			d.send(ctx, logger, msg.ChannelID, UnavailableFallback)
		} else {
			logger.Error("model call failed", slog.Any("error", err))
		}
		return
	}

	if reply.Blocked {
		logger.Info("reply withheld by safety policy")
		if d.replyOnBlocked {
			d.send(ctx, logger, msg.ChannelID, BlockedNotice)
		}
		return
	}

	text := reply.Text
	if strings.TrimSpace(text) == "" {
		text = EmptyReplyFallback
	}
	for _, chunk := range SplitChunks(text, d.gw.MessageLimit()) {
		if err := d.gw.SendChunk(ctx, msg.ChannelID, chunk); err != nil {
			logger.Error("send chunk failed", slog.Any("error", err))
			return
		}
	}
}

// markActive persists the channel's active flag the first time it triggers.
// Best effort: a failed write is retried on the channel's next trigger.
func (d *Dispatcher) markActive(ctx context.Context, logger *slog.Logger, channelID string) {
	d.mu.Lock()
	if d.marked[channelID] {
		d.mu.Unlock()
		return
	}
	d.marked[channelID] = true
	d.mu.Unlock()

	if err := d.channels.SetActive(ctx, channelID, true); err != nil {
		logger.Warn("record active channel failed", slog.Any("error", err))
		d.mu.Lock()
		delete(d.marked, channelID)
		d.mu.Unlock()
	}
}

func (d *Dispatcher) send(ctx context.Context, logger *slog.Logger, channelID, text string) {
	if err := d.gw.SendChunk(ctx, channelID, text); err != nil {
		logger.Error("send fallback failed", slog.Any("error", err))
	}
}
