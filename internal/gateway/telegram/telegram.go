// Package telegram implements the gateway contract on top of the Telegram
// Bot API long-polling client.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/serikabot/serika/internal/gateway"
)

const messageLimit = 4096

// Adapter long-polls Telegram updates and forwards them to the handler.
type Adapter struct {
	logger    *slog.Logger
	bot       *tgbotapi.BotAPI
	connected atomic.Bool
}

// New creates a Telegram adapter for the given bot token.
func New(token string, log *slog.Logger) (*Adapter, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("telegram bot token is required")
	}
	if log == nil {
		log = slog.Default()
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram create bot: %w", err)
	}
	return &Adapter{
		logger: log.With(slog.String("adapter", "telegram")),
		bot:    bot,
	}, nil
}

// Run starts the update loop and blocks until ctx is cancelled.
func (a *Adapter) Run(ctx context.Context, handler gateway.Handler) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := a.bot.GetUpdatesChan(updateConfig)

	a.connected.Store(true)
	defer a.connected.Store(false)

	a.logger.Info("logged in", slog.String("user", a.bot.Self.UserName))
	handler.OnReady(a.bot.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			a.bot.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return fmt.Errorf("telegram updates channel closed")
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			text := strings.TrimSpace(update.Message.Text)
			if text == "" {
				continue
			}

			chatID := ""
			if update.Message.Chat != nil {
				chatID = strconv.FormatInt(update.Message.Chat.ID, 10)
			}

			msg := gateway.Message{
				ID:          strconv.Itoa(update.Message.MessageID),
				AuthorID:    strconv.FormatInt(update.Message.From.ID, 10),
				AuthorName:  senderName(update.Message.From),
				ChannelID:   chatID,
				Text:        text,
				MentionsBot: isBotMentioned(update.Message, a.bot.Self.UserName),
				FromSelf:    update.Message.From.ID == a.bot.Self.ID,
				ReceivedAt:  update.Message.Time(),
			}

			handler.OnMessage(ctx, msg)
		}
	}
}

// SendChunk posts one message to a chat.
func (a *Adapter) SendChunk(ctx context.Context, channelID, text string) error {
	chatID, err := strconv.ParseInt(strings.TrimSpace(channelID), 10, 64)
	if err != nil {
		return fmt.Errorf("telegram chat id %q: %w", channelID, err)
	}
	if _, err := a.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("telegram send message: %w", err)
	}
	return nil
}

// Typing triggers the "typing..." chat action.
func (a *Adapter) Typing(ctx context.Context, channelID string) {
	chatID, err := strconv.ParseInt(strings.TrimSpace(channelID), 10, 64)
	if err != nil {
		return
	}
	if _, err := a.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		a.logger.Debug("typing indicator failed", slog.String("chat_id", channelID), slog.Any("error", err))
	}
}

// MessageLimit returns Telegram's per-message character limit.
func (a *Adapter) MessageLimit() int {
	return messageLimit
}

// Connected reports whether the update loop is running.
func (a *Adapter) Connected() bool {
	return a.connected.Load()
}

func senderName(from *tgbotapi.User) string {
	name := strings.TrimSpace(from.FirstName + " " + from.LastName)
	if name != "" {
		return name
	}
	return from.UserName
}

func isBotMentioned(msg *tgbotapi.Message, botUserName string) bool {
	if msg == nil || botUserName == "" {
		return false
	}
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil &&
		msg.ReplyToMessage.From.UserName == botUserName {
		return true
	}
	return strings.Contains(strings.ToLower(msg.Text), "@"+strings.ToLower(botUserName))
}
