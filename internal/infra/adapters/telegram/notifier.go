package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-vip-codes/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.TelegramBotAdapter = (*Notifier)(nil)

// Notifier is the outbound-only messaging adapter. It shares the BotAPI
// client with the polling adapter but carries none of its routing, so the
// usecases can be wired before the full bot exists.
type Notifier struct {
	bot *tgbotapi.BotAPI
}

func NewNotifier(bot *tgbotapi.BotAPI) *Notifier {
	return &Notifier{bot: bot}
}

func (n *Notifier) SendMessage(ctx context.Context, tgID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := n.bot.Send(tgbotapi.NewMessage(tgID, text))
	return err
}
