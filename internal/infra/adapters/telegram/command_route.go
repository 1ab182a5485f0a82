package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-vip-codes/internal/infra/metrics"
)

const helpText = `Redeem a code with /redeem CODE.
Codes contain only digits and UPPERCASE letters.
In a private chat you can also just send me the code.`

const adminHelpText = helpText + `

Admin commands:
/newcode ROLE USES [CODE] - create a code (CODE is generated when omitted)
/codes - list all codes
/status - bot status`

// route dispatches one message and returns the reply text, or "" when there
// is nothing to say.
func (r *RealTelegramBotAdapter) route(ctx context.Context, msg *tgbotapi.Message) string {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			if r.isAdmin(msg.From.ID) {
				return adminHelpText
			}
			return helpText
		case "redeem":
			code := strings.TrimSpace(msg.CommandArguments())
			if code == "" {
				return "Usage: /redeem CODE"
			}
			return r.facade.HandleRedeem(ctx, msg.From.ID, code)
		case "status":
			return r.facade.HandleStatus(ctx)
		case "newcode":
			return r.adminOnly(ctx, msg, r.handleNewCodeCommand)
		case "codes":
			return r.adminOnly(ctx, msg, r.handleCodesCommand)
		default:
			return "Unknown command. Try /help."
		}
	}

	// In a private chat, bare text is treated as a code submission, the same
	// flow as the redeem command.
	if msg.Chat != nil && msg.Chat.IsPrivate() && strings.TrimSpace(msg.Text) != "" {
		return r.facade.HandleRedeem(ctx, msg.From.ID, msg.Text)
	}
	return ""
}

type commandHandler func(ctx context.Context, msg *tgbotapi.Message) string

func (r *RealTelegramBotAdapter) isAdmin(tgID int64) bool {
	_, ok := r.adminIDsMap[tgID]
	return ok
}

func (r *RealTelegramBotAdapter) adminOnly(ctx context.Context, msg *tgbotapi.Message, next commandHandler) string {
	if !r.isAdmin(msg.From.ID) {
		metrics.IncAdminCommand("/"+msg.Command(), "unauthorized")
		return "This command is for administrators only."
	}
	metrics.IncAdminCommand("/"+msg.Command(), "authorized")
	return next(ctx, msg)
}

func (r *RealTelegramBotAdapter) handleNewCodeCommand(ctx context.Context, msg *tgbotapi.Message) string {
	roleID, maxUses, codeText, err := parseNewCodeArgs(msg.CommandArguments())
	if err != nil {
		return fmt.Sprintf("%s\nUsage: /newcode ROLE USES [CODE]", err)
	}
	return r.facade.HandleNewCode(ctx, msg.From.ID, codeText, roleID, maxUses)
}

func (r *RealTelegramBotAdapter) handleCodesCommand(ctx context.Context, msg *tgbotapi.Message) string {
	list := r.facade.HandleListCodes(ctx)
	if msg.Chat != nil && msg.Chat.IsPrivate() {
		return list
	}
	// mirror the original flow: the full list goes to the admin in private
	if err := r.SendMessage(ctx, msg.From.ID, list); err != nil {
		return "Could not message you privately. Start a chat with me first."
	}
	return "Code list sent to you in private."
}

// parseNewCodeArgs parses "ROLE USES [CODE]".
func parseNewCodeArgs(args string) (roleID string, maxUses int, codeText string, err error) {
	fields := strings.Fields(args)
	if len(fields) < 2 || len(fields) > 3 {
		return "", 0, "", fmt.Errorf("expected 2 or 3 arguments, got %d", len(fields))
	}
	roleID = fields[0]
	maxUses, err = strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, "", fmt.Errorf("USES must be a number, got %q", fields[1])
	}
	if len(fields) == 3 {
		codeText = fields[2]
	}
	return roleID, maxUses, codeText, nil
}
