package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"telegram-vip-codes/internal/domain"
	"telegram-vip-codes/internal/domain/model"
	"telegram-vip-codes/internal/domain/ports/adapter"
	"telegram-vip-codes/internal/domain/ports/repository"
	"telegram-vip-codes/internal/infra/metrics"
	"telegram-vip-codes/internal/infra/worker"
)

// Compile-time check
var _ RedeemUseCase = (*redeemUC)(nil)

// RedeemUseCase decides, for a single redemption attempt, whether to grant
// the code's role, and reports why not otherwise.
type RedeemUseCase interface {
	// Redeem evaluates one attempt. heldRoles is the user's current role-id
	// set as read by the caller. A non-nil error means the attempt failed
	// for an unexpected reason and no outcome was reached; registry state
	// is untouched in that case.
	Redeem(ctx context.Context, codeText string, userID int64, heldRoles map[string]struct{}) (*model.RedemptionResult, error)
}

type redeemUC struct {
	registry repository.CodeRegistry
	roles    adapter.RoleProvider
	bot      adapter.TelegramBotAdapter
	pool     *worker.Pool
	locks    codeLocks
	log      *zerolog.Logger
}

func NewRedeemUseCase(
	registry repository.CodeRegistry,
	roles adapter.RoleProvider,
	bot adapter.TelegramBotAdapter,
	pool *worker.Pool,
	logger *zerolog.Logger,
) *redeemUC {
	return &redeemUC{
		registry: registry,
		roles:    roles,
		bot:      bot,
		pool:     pool,
		locks:    newCodeLocks(),
		log:      logger,
	}
}

// Redeem applies the redemption policy in strict order: invalid format,
// unknown code, expired, role already held, grant. The first matching state
// wins and short-circuits the rest.
func (uc *redeemUC) Redeem(ctx context.Context, codeText string, userID int64, heldRoles map[string]struct{}) (*model.RedemptionResult, error) {
	res := &model.RedemptionResult{
		AttemptID: ulid.Make().String(),
		Code:      codeText,
	}

	if !model.ValidCodeFormat(codeText) {
		res.Status = model.RedemptionInvalidFormat
		return uc.finish(res, userID), nil
	}

	// The whole check-then-act sequence, the external grant included, runs
	// under the per-code lock. Two concurrent redeemers of the same code
	// must never both observe the last remaining slot. The unlock is
	// deferred so a panicking adapter cannot wedge the code for everyone
	// else once the request boundary recovers.
	justExpired, err := func() (*model.Code, error) {
		unlock := uc.locks.lock(codeText)
		defer unlock()
		return uc.redeemLocked(ctx, res, userID, heldRoles)
	}()
	if err != nil {
		return nil, err
	}

	if justExpired != nil {
		// Dispatched after the lock is released so a slow delivery never
		// blocks other attempts on this code.
		uc.dispatchExpiryNotice(justExpired)
	}
	return uc.finish(res, userID), nil
}

// redeemLocked fills res with the terminal outcome. It returns the code when
// this attempt consumed the last remaining use, which is the single moment
// the creator notification fires.
func (uc *redeemUC) redeemLocked(ctx context.Context, res *model.RedemptionResult, userID int64, heldRoles map[string]struct{}) (*model.Code, error) {
	code, used, err := uc.registry.Find(ctx, res.Code)
	if errors.Is(err, domain.ErrCodeNotFound) {
		res.Status = model.RedemptionNotFound
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find code: %w", err)
	}
	res.RoleID = code.RoleID
	res.RoleName = code.RoleName

	if used >= code.MaxUses {
		res.Status = model.RedemptionExpired
		return nil, nil
	}

	if _, held := heldRoles[code.RoleID]; held {
		res.Status = model.RedemptionAlreadyHeld
		return nil, nil
	}

	if err := uc.roles.GrantRole(ctx, userID, code.RoleID); err != nil {
		uc.log.Warn().
			Str("attempt", res.AttemptID).
			Str("code", code.Code).
			Int64("tg_id", userID).
			Err(err).
			Msg("role grant failed")
		res.Status = model.RedemptionGrantFailed
		return nil, nil
	}

	newCount, err := uc.registry.IncrementUsage(ctx, res.Code)
	if err != nil {
		// The grant already happened; the counter must not silently drift,
		// so surface this as an unexpected failure.
		return nil, fmt.Errorf("increment usage: %w", err)
	}
	res.Status = model.RedemptionGranted
	res.Remaining = code.MaxUses - newCount

	// IncrementUsage is the sole mutation path and advances by exactly one,
	// so the count equals MaxUses exactly once per code.
	if newCount == code.MaxUses {
		return code, nil
	}
	return nil, nil
}

func (uc *redeemUC) finish(res *model.RedemptionResult, userID int64) *model.RedemptionResult {
	metrics.RedemptionObserved(string(res.Status))
	uc.log.Info().
		Str("attempt", res.AttemptID).
		Str("code", res.Code).
		Int64("tg_id", userID).
		Str("outcome", string(res.Status)).
		Msg("redemption attempt")
	return res
}

// dispatchExpiryNotice queues a best-effort message to the code's creator.
// Delivery failures are logged and counted, never surfaced to the redeemer.
func (uc *redeemUC) dispatchExpiryNotice(code *model.Code) {
	c := *code
	task := func(ctx context.Context) error {
		text := fmt.Sprintf("Your code %s reached its usage limit and is now expired.", c.Code)
		if err := uc.bot.SendMessage(ctx, c.CreatedBy, text); err != nil {
			metrics.CreatorNoticeObserved("failed")
			uc.log.Warn().Str("code", c.Code).Int64("creator", c.CreatedBy).Err(err).Msg("creator notice delivery failed")
			return nil
		}
		metrics.CreatorNoticeObserved("delivered")
		return nil
	}
	if err := uc.pool.Submit(task); err != nil {
		metrics.CreatorNoticeObserved("dropped")
		uc.log.Warn().Str("code", c.Code).Err(err).Msg("creator notice dropped")
	}
}
