package application

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"telegram-vip-codes/internal/domain"
	"telegram-vip-codes/internal/domain/model"
	"telegram-vip-codes/internal/domain/ports/adapter"
	"telegram-vip-codes/internal/usecase"
)

// GenericErrorReply is sent when a single request fails for an unexpected
// reason. The process keeps running and registry state stays untouched.
const GenericErrorReply = "Something went wrong. Please try again."

// BotFacade composes the usecases into high-level bot commands. Methods
// return ready-to-send strings so the Telegram adapter just forwards them to
// the chat.
type BotFacade struct {
	CodeUC   usecase.CodeUseCase
	RedeemUC usecase.RedeemUseCase
	Roles    adapter.RoleProvider

	startedAt time.Time
	version   string
	log       *zerolog.Logger
}

func NewBotFacade(
	codeUC usecase.CodeUseCase,
	redeemUC usecase.RedeemUseCase,
	roles adapter.RoleProvider,
	version string,
	logger *zerolog.Logger,
) *BotFacade {
	return &BotFacade{
		CodeUC:    codeUC,
		RedeemUC:  redeemUC,
		Roles:     roles,
		startedAt: time.Now(),
		version:   version,
		log:       logger,
	}
}

// recoverReply converts a panic inside a single request into the generic
// reply. One bad request must never take the process or other in-flight
// requests down.
func (b *BotFacade) recoverReply(reply *string) {
	if rec := recover(); rec != nil {
		b.log.Error().
			Interface("panic", rec).
			Bytes("stack", debug.Stack()).
			Msg("recovered panic in request")
		*reply = GenericErrorReply
	}
}

// HandleNewCode creates a code for an administrator. codeText may be empty,
// in which case a random key is generated.
func (b *BotFacade) HandleNewCode(ctx context.Context, adminID int64, codeText, roleID string, maxUses int) (reply string) {
	defer b.recoverReply(&reply)

	codeText = strings.ToUpper(strings.TrimSpace(codeText))

	var code *model.Code
	var err error
	if codeText == "" {
		code, err = b.CodeUC.Generate(ctx, roleID, maxUses, adminID)
	} else {
		code, err = b.CodeUC.Create(ctx, codeText, roleID, maxUses, adminID)
	}

	switch {
	case err == nil:
		return fmt.Sprintf("Code created.\nCode: %s\nRole: %s\nUses: %d", code.Code, code.RoleName, code.MaxUses)
	case errors.Is(err, domain.ErrInvalidCode):
		return "Invalid code. Use only digits and UPPERCASE letters, no accents, symbols or dots."
	case errors.Is(err, domain.ErrCodeExists):
		return "This code already exists."
	case errors.Is(err, domain.ErrRoleUnknown):
		return fmt.Sprintf("Unknown role %q. Check the configured role ids.", roleID)
	case errors.Is(err, domain.ErrInvalidArgument):
		return "The number of uses must be at least 1."
	default:
		b.log.Error().Err(err).Str("code", codeText).Msg("create code failed")
		return GenericErrorReply
	}
}

// HandleRedeem runs one redemption attempt for a member. The submitted text
// is uppercased before it reaches the core; the core re-validates anyway.
func (b *BotFacade) HandleRedeem(ctx context.Context, userID int64, codeText string) (reply string) {
	defer b.recoverReply(&reply)

	codeText = strings.ToUpper(strings.TrimSpace(codeText))

	held, err := b.Roles.UserRoles(ctx, userID)
	if err != nil {
		b.log.Error().Int64("tg_id", userID).Err(err).Msg("reading user roles failed")
		return GenericErrorReply
	}

	res, err := b.RedeemUC.Redeem(ctx, codeText, userID, held)
	if err != nil {
		b.log.Error().Int64("tg_id", userID).Str("code", codeText).Err(err).Msg("redemption failed unexpectedly")
		return GenericErrorReply
	}

	switch res.Status {
	case model.RedemptionInvalidFormat:
		return "Invalid code. Use only digits and UPPERCASE letters, no accents, symbols or dots."
	case model.RedemptionNotFound:
		return "This code does not exist."
	case model.RedemptionExpired:
		return "This code was already used up. Too late! Try the next one."
	case model.RedemptionAlreadyHeld:
		return fmt.Sprintf("You already have the %s role.", res.RoleName)
	case model.RedemptionGrantFailed:
		return "Could not apply the role. Contact an administrator."
	case model.RedemptionGranted:
		return fmt.Sprintf("Redeemed successfully! Enjoy your reward.\nRole received: %s\nUses left: %d", res.RoleName, res.Remaining)
	default:
		b.log.Error().Str("status", string(res.Status)).Msg("unknown redemption status")
		return GenericErrorReply
	}
}

// HandleListCodes renders the active and expired sections, mirroring the
// list an administrator receives in private chat.
func (b *BotFacade) HandleListCodes(ctx context.Context) (reply string) {
	defer b.recoverReply(&reply)

	snapshot, err := b.CodeUC.List(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("listing codes failed")
		return GenericErrorReply
	}

	var active, expired strings.Builder
	for _, cu := range snapshot {
		if cu.Expired() {
			fmt.Fprintf(&expired, "%s - Role: %s - EXPIRED\n", cu.Code.Code, cu.Code.RoleName)
		} else {
			fmt.Fprintf(&active, "%s - Role: %s - %d uses left\n", cu.Code.Code, cu.Code.RoleName, cu.Remaining())
		}
	}

	var sb strings.Builder
	sb.WriteString("ACTIVE CODES\n")
	if active.Len() == 0 {
		sb.WriteString("No active codes right now.\n")
	} else {
		sb.WriteString(active.String())
	}
	sb.WriteString("\nEXPIRED CODES\n")
	if expired.Len() == 0 {
		sb.WriteString("No expired codes.")
	} else {
		sb.WriteString(strings.TrimRight(expired.String(), "\n"))
	}
	return sb.String()
}

// HandleStatus reports the bot status summary.
func (b *BotFacade) HandleStatus(ctx context.Context) (reply string) {
	defer b.recoverReply(&reply)

	st, err := b.CodeUC.Status(ctx)
	if err != nil {
		b.log.Error().Err(err).Msg("status failed")
		return GenericErrorReply
	}
	uptime := time.Since(b.startedAt).Round(time.Second)
	return fmt.Sprintf("BOT STATUS\nCodes: %d\nUptime: %s\nVersion: %s\nStatus: online", st.CodeCount, uptime, b.version)
}

// Uptime reports how long the facade has been serving.
func (b *BotFacade) Uptime() time.Duration {
	return time.Since(b.startedAt)
}
