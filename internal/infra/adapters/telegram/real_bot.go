package telegram

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-vip-codes/internal/application"
	"telegram-vip-codes/internal/config"
	"telegram-vip-codes/internal/infra/logging"
)

// RealTelegramBotAdapter polls updates with tgbotapi and delegates commands
// to the BotFacade.
type RealTelegramBotAdapter struct {
	bot    *tgbotapi.BotAPI
	cfg    *config.BotConfig
	facade *application.BotFacade
	log    *zerolog.Logger

	adminIDsMap   map[int64]struct{}
	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(bot *tgbotapi.BotAPI, cfg *config.BotConfig, facade *application.BotFacade, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if bot == nil {
		return nil, errors.New("bot client is nil")
	}
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}

	adminMap := map[int64]struct{}{}
	for _, id := range cfg.AdminIDs {
		adminMap[id] = struct{}{}
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = 5
	}

	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		log:           logger,
		adminIDsMap:   adminMap,
		updateWorkers: workers,
	}, nil
}

// RegisterCommands publishes the command menu to Telegram.
func (r *RealTelegramBotAdapter) RegisterCommands() error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "redeem", Description: "Redeem a code"},
		tgbotapi.BotCommand{Command: "status", Description: "Bot status"},
		tgbotapi.BotCommand{Command: "newcode", Description: "Create a redemption code (admin)"},
		tgbotapi.BotCommand{Command: "codes", Description: "List all codes (admin)"},
		tgbotapi.BotCommand{Command: "help", Description: "How to use the bot"},
	)
	_, err := r.bot.Request(cfg)
	return err
}

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel
	return r.pump(ctx, cancel, updates)
}

// pump fans incoming updates out to the dispatch workers until the context is
// cancelled or the updates channel closes.
func (r *RealTelegramBotAdapter) pump(ctx context.Context, cancel context.CancelFunc, updates tgbotapi.UpdatesChannel) error {
	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					r.handleUpdate(ctx, up)
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			r.bot.StopReceivingUpdates()
			wg.Wait()
			return ctx.Err()
		case up, ok := <-updates:
			if !ok {
				// Workers only exit on ctx.Done, so cancel before waiting.
				cancel()
				wg.Wait()
				return nil
			}
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, tgID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := r.bot.Send(tgbotapi.NewMessage(tgID, text))
	return err
}

// handleUpdate runs one update to completion. A panic in a single update is
// recovered here so other in-flight updates keep going.
func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithTgID(ctx, msg.From.ID)
	log := logging.With(ctx, r.log)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Bytes("stack", debug.Stack()).Msg("recovered panic in update")
			_ = r.SendMessage(ctx, msg.Chat.ID, application.GenericErrorReply)
		}
	}()

	reply := r.route(ctx, msg)
	if reply == "" {
		return
	}
	if err := r.SendMessage(ctx, msg.Chat.ID, reply); err != nil {
		log.Warn().Err(err).Msg("sending reply failed")
	}
}
