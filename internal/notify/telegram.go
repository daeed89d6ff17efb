package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type telegramSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts notifications to a chat through the Bot API.
type Telegram struct {
	bot    telegramSender
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("telegram bot token is required")
	}
	if chatID == 0 {
		return nil, errors.New("telegram chat id is required")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}

	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) Name() string { return "telegram" }

func (t *Telegram) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out := tgbotapi.NewMessage(t.chatID, telegramHTML(msg))
	out.ParseMode = tgbotapi.ModeHTML

	if _, err := t.bot.Send(out); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}

func telegramHTML(msg Message) string {
	title := msg.JobTitle
	if strings.TrimSpace(title) == "" {
		title = "Job " + msg.JobID
	}

	text := fmt.Sprintf("🔥 <b>%s</b>\n", html.EscapeString(title))
	if facility := strings.TrimSpace(msg.Facility); facility != "" {
		text += fmt.Sprintf("🏥 %s\n", html.EscapeString(facility))
	}
	text += fmt.Sprintf("🤖 Match score: %d/100\n", msg.Score)
	text += fmt.Sprintf("👤 Candidate: <code>%s</code>\n", html.EscapeString(msg.CandidateID))
	text += fmt.Sprintf("🔖 Job: <code>%s</code>", html.EscapeString(msg.JobID))
	return text
}
