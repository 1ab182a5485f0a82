package roles

import (
	"context"
	"encoding/json"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-vip-codes/internal/domain"
	"telegram-vip-codes/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.RoleProvider = (*TelegramRoleProvider)(nil)

// TelegramRoleProvider maps each role id to a private Telegram chat.
// Membership of the chat is holding the role. Granting creates a single-use
// invite link and delivers it to the user in private.
type TelegramRoleProvider struct {
	bot   *tgbotapi.BotAPI
	chats map[string]int64 // role id -> chat id
	log   *zerolog.Logger
}

func NewTelegramRoleProvider(bot *tgbotapi.BotAPI, chats map[string]int64, logger *zerolog.Logger) *TelegramRoleProvider {
	return &TelegramRoleProvider{bot: bot, chats: chats, log: logger}
}

func (p *TelegramRoleProvider) UserRoles(ctx context.Context, userID int64) (map[string]struct{}, error) {
	held := make(map[string]struct{}, len(p.chats))
	for roleID, chatID := range p.chats {
		member, err := p.bot.GetChatMember(tgbotapi.GetChatMemberConfig{
			ChatConfigWithUser: tgbotapi.ChatConfigWithUser{ChatID: chatID, UserID: userID},
		})
		if err != nil {
			return nil, fmt.Errorf("chat member for role %s: %w", roleID, err)
		}
		switch member.Status {
		case "creator", "administrator", "member", "restricted":
			held[roleID] = struct{}{}
		}
	}
	return held, nil
}

func (p *TelegramRoleProvider) GrantRole(ctx context.Context, userID int64, roleID string) error {
	chatID, ok := p.chats[roleID]
	if !ok {
		return fmt.Errorf("role %s: %w", roleID, domain.ErrRoleUnknown)
	}

	linkCfg := tgbotapi.CreateChatInviteLinkConfig{
		ChatConfig:  tgbotapi.ChatConfig{ChatID: chatID},
		MemberLimit: 1,
	}
	resp, err := p.bot.Request(linkCfg)
	if err != nil {
		return fmt.Errorf("create invite link for role %s: %w", roleID, err)
	}
	var link tgbotapi.ChatInviteLink
	if err := json.Unmarshal(resp.Result, &link); err != nil {
		return fmt.Errorf("decode invite link: %w", err)
	}

	msg := tgbotapi.NewMessage(userID, fmt.Sprintf("Here is your access link: %s", link.InviteLink))
	if _, err := p.bot.Send(msg); err != nil {
		return fmt.Errorf("deliver invite link: %w", err)
	}
	p.log.Debug().Int64("tg_id", userID).Str("role", roleID).Msg("role granted")
	return nil
}
