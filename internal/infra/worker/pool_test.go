package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"telegram-vip-codes/internal/infra/worker"
)

func TestPoolRunsSubmittedTasks(t *testing.T) {
	l := zerolog.Nop()
	p := worker.NewPool(2, &l)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)
	defer func() {
		cancel()
		p.Stop()
	}()

	done := make(chan struct{})
	if err := p.Submit(func(ctx context.Context) error {
		close(done)
		return nil
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task never ran")
	}
}

func TestPoolRejectsNilAndSaturation(t *testing.T) {
	l := zerolog.Nop()
	p := worker.NewPool(1, &l)
	// not started: the queue fills and saturation drops submissions

	if err := p.Submit(nil); err == nil {
		t.Error("nil task accepted")
	}

	saturated := false
	for i := 0; i < 16; i++ {
		if err := p.Submit(func(ctx context.Context) error { return nil }); err != nil {
			saturated = true
			break
		}
	}
	if !saturated {
		t.Error("queue never reported saturation")
	}
}
