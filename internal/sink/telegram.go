package sink

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSink forwards announcements to a Telegram chat
type TelegramSink struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramSink(token string, chatID int64) (*TelegramSink, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram API: %w", err)
	}
	return &TelegramSink{api: api, chatID: chatID}, nil
}

func (t *TelegramSink) Name() string { return "telegram" }

func (t *TelegramSink) Announce(_ context.Context, a Announcement) error {
	text := "⏰ " + a.Message
	if a.Reminder.OriginalRequest != "" {
		text += "\n\n" + a.Reminder.OriginalRequest
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder notification: %w", err)
	}
	return nil
}
