package telegram

import (
	"context"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func TestPumpReturnsWhenUpdatesChannelCloses(t *testing.T) {
	log := zerolog.Nop()
	r := &RealTelegramBotAdapter{
		log:           &log,
		updateWorkers: 2,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan tgbotapi.Update)
	done := make(chan error, 1)
	go func() {
		done <- r.pump(ctx, cancel, updates)
	}()

	// an update with no message is dropped by the workers
	updates <- tgbotapi.Update{}
	close(updates)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("pump returned %v, want nil on channel close", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pump did not return after the updates channel closed")
	}
}
