package adapter

import "context"

// TelegramBotAdapter is the outbound messaging port. Deliveries made through
// it for creator notifications are best-effort: failures are logged and
// counted, never surfaced to a redeemer.
type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, tgID int64, text string) error
}
