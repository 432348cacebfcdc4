package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

var ErrMissingChat = errors.New("telegram chat id is required")

// TelegramConfig configures the bot. Endpoint and Client default to the public API.
type TelegramConfig struct {
	Token    string
	ChatID   int64
	Endpoint string // format string with two %s verbs: token, method
	Client   *http.Client
}

// TelegramNotifier sends alerts to one chat through a Telegram bot.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegramNotifier authenticates the bot token with getMe.
// PRE: cfg.Token is a bot token and cfg.ChatID is non-zero
// POST: Returns a ready notifier, or the bot API error
func NewTelegramNotifier(cfg TelegramConfig) (*TelegramNotifier, error) {
	if cfg.ChatID == 0 {
		return nil, ErrMissingChat
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = tgbotapi.APIEndpoint
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 10 * time.Second}
	}
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Token, cfg.Endpoint, cfg.Client)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	slog.Info("notify_event", "event", "telegram_ready", "bot", bot.Self.UserName)
	return &TelegramNotifier{bot: bot, chatID: cfg.ChatID}, nil
}

// Notify sends text to the configured chat.
// PRE: text is non-empty
// POST: Returns nil once the bot API accepted the message
func (n *TelegramNotifier) Notify(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
