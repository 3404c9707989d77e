// Package discord implements the gateway contract on top of discordgo.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"

	"github.com/serikabot/serika/internal/gateway"
)

const messageLimit = 2000

// Adapter connects to the Discord gateway and forwards message-create
// events to the registered handler.
type Adapter struct {
	logger    *slog.Logger
	session   *discordgo.Session
	connected atomic.Bool
}

// New creates a Discord adapter for the given bot token.
func New(token string, log *slog.Logger) (*Adapter, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("discord bot token is required")
	}
	if log == nil {
		log = slog.Default()
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord create session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	return &Adapter{
		logger:  log.With(slog.String("adapter", "discord")),
		session: session,
	}, nil
}

// Run opens the gateway connection and blocks until ctx is cancelled.
func (a *Adapter) Run(ctx context.Context, handler gateway.Handler) error {
	removeReady := a.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		a.connected.Store(true)
		name := ""
		if r.User != nil {
			name = r.User.Username
		}
		a.logger.Info("logged in", slog.String("user", name))
		handler.OnReady(name)
	})
	defer removeReady()

	removeMessage := a.session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil {
			return
		}
		if ctx.Err() != nil {
			return
		}

		botID := ""
		if s.State != nil && s.State.User != nil {
			botID = s.State.User.ID
		}

		msg := gateway.Message{
			ID:               m.ID,
			AuthorID:         m.Author.ID,
			AuthorName:       displayName(m),
			ChannelID:        m.ChannelID,
			Text:             m.Content,
			MentionsBot:      isBotMentioned(m.Message, botID),
			MentionsEveryone: m.MentionEveryone,
			FromSelf:         m.Author.ID == botID,
			ReceivedAt:       m.Timestamp,
		}

		handler.OnMessage(ctx, msg)
	})
	defer removeMessage()

	if err := a.session.Open(); err != nil {
		return fmt.Errorf("discord open connection: %w", err)
	}

	<-ctx.Done()
	a.connected.Store(false)
	if err := a.session.Close(); err != nil {
		return fmt.Errorf("discord close connection: %w", err)
	}
	return ctx.Err()
}

// SendChunk posts one message to a channel. The caller is responsible for
// keeping text within MessageLimit.
func (a *Adapter) SendChunk(ctx context.Context, channelID, text string) error {
	if strings.TrimSpace(channelID) == "" {
		return fmt.Errorf("discord channel id is required")
	}
	_, err := a.session.ChannelMessageSend(channelID, text, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord send message: %w", err)
	}
	return nil
}

// Typing triggers the typing indicator in a channel.
func (a *Adapter) Typing(ctx context.Context, channelID string) {
	if err := a.session.ChannelTyping(channelID, discordgo.WithContext(ctx)); err != nil {
		a.logger.Debug("typing indicator failed", slog.String("channel_id", channelID), slog.Any("error", err))
	}
}

// MessageLimit returns Discord's per-message character limit.
func (a *Adapter) MessageLimit() int {
	return messageLimit
}

// Connected reports whether the gateway session is open.
func (a *Adapter) Connected() bool {
	return a.connected.Load()
}

func displayName(m *discordgo.MessageCreate) string {
	if m.Member != nil && strings.TrimSpace(m.Member.Nick) != "" {
		return m.Member.Nick
	}
	if m.Author == nil {
		return ""
	}
	if strings.TrimSpace(m.Author.GlobalName) != "" {
		return m.Author.GlobalName
	}
	return m.Author.Username
}

func isBotMentioned(msg *discordgo.Message, botID string) bool {
	if msg == nil || botID == "" {
		return false
	}
	for _, mention := range msg.Mentions {
		if mention != nil && mention.ID == botID {
			return true
		}
	}
	// Raw mention forms survive in content even when the mention list is empty.
	content := strings.ToLower(msg.Content)
	return strings.Contains(content, strings.ToLower("<@"+botID+">")) ||
		strings.Contains(content, strings.ToLower("<@!"+botID+">"))
}
