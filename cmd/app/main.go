// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-vip-codes/internal/application"
	"telegram-vip-codes/internal/config"
	"telegram-vip-codes/internal/domain/ports/adapter"
	rolesAdapters "telegram-vip-codes/internal/infra/adapters/roles"
	tele "telegram-vip-codes/internal/infra/adapters/telegram"
	"telegram-vip-codes/internal/infra/db/memory"
	"telegram-vip-codes/internal/infra/logging"
	"telegram-vip-codes/internal/infra/metrics"
	"telegram-vip-codes/internal/infra/web"
	"telegram-vip-codes/internal/infra/worker"
	"telegram-vip-codes/internal/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop Telegram adapters)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		log.Info().Msg("[DEV MODE] enabled, using noop Telegram adapters")
	}

	metrics.MustRegister()
	metrics.SetBuildInfo(version, commit)

	// ---- Core ----
	registry := memory.NewCodeRegistry()

	pool := worker.NewPool(cfg.Notify.Workers, log)
	pool.Start(ctx)
	defer pool.Stop()

	// ---- Platform adapters ----
	var botReady atomic.Bool
	var botClient *tgbotapi.BotAPI
	var notifier adapter.TelegramBotAdapter
	var roleProvider adapter.RoleProvider

	if cfg.Runtime.Dev {
		notifier = tele.NewNoopBotAdapter(log)
		roleProvider = rolesAdapters.NewNoopRoleProvider(roleIDs(cfg), log)
		botReady.Store(true)
	} else {
		botClient, err = tgbotapi.NewBotAPI(cfg.Bot.Token)
		if err != nil {
			log.Fatal().Err(err).Msg("telegram login failed")
		}
		log.Info().Str("bot", botClient.Self.UserName).Msg("telegram login ok")
		notifier = tele.NewNotifier(botClient)
		roleProvider = rolesAdapters.NewTelegramRoleProvider(botClient, cfg.RoleChats(), log)
	}

	// ---- Use cases ----
	codeUC := usecase.NewCodeUseCase(registry, cfg.RoleNames(), log)
	redeemUC := usecase.NewRedeemUseCase(registry, roleProvider, notifier, pool, log)

	// ---- Facade ----
	facade := application.NewBotFacade(codeUC, redeemUC, roleProvider, version, log)

	// ---- Telegram polling ----
	var botAdapter *tele.RealTelegramBotAdapter
	if botClient != nil {
		botAdapter, err = tele.NewRealTelegramBotAdapter(botClient, &cfg.Bot, facade, log)
		if err != nil {
			log.Fatal().Err(err).Msg("telegram adapter")
		}
		if err := botAdapter.RegisterCommands(); err != nil {
			log.Warn().Err(err).Msg("registering command menu failed")
		}
		go func() {
			botReady.Store(true)
			defer botReady.Store(false)
			if err := botAdapter.StartPolling(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("telegram polling stopped")
			}
		}()
	}

	// ---- Web server ----
	botName := cfg.Bot.Username
	if botClient != nil {
		botName = botClient.Self.UserName
	}
	webSrv := web.NewServer(codeUC, cfg.Admin.APIKey, botName, version, botReady.Load, log)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler: webSrv.Router(),
	}
	go func() {
		log.Info().Str("addr", server.Addr).Msg("web server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("web server error")
		}
	}()

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down")

	cancel()
	if botAdapter != nil {
		botAdapter.StopPolling()
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("web server shutdown")
	}
}

func roleIDs(cfg *config.Config) []string {
	ids := make([]string, 0, len(cfg.Roles))
	for _, r := range cfg.Roles {
		ids = append(ids, r.ID)
	}
	return ids
}
