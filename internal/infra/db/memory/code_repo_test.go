package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"telegram-vip-codes/internal/domain"
	"telegram-vip-codes/internal/domain/model"
	"telegram-vip-codes/internal/infra/db/memory"
)

func newCode(key string, maxUses int) *model.Code {
	return &model.Code{
		Code:      key,
		RoleID:    "role-vip",
		RoleName:  "VIP",
		MaxUses:   maxUses,
		CreatedBy: 42,
		CreatedAt: time.Now(),
	}
}

func TestCodeRegistry_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores a valid code with zero usage", func(t *testing.T) {
		reg := memory.NewCodeRegistry()
		if err := reg.Create(ctx, newCode("ABC123", 2)); err != nil {
			t.Fatalf("create: %v", err)
		}
		c, used, err := reg.Find(ctx, "ABC123")
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if used != 0 {
			t.Errorf("used = %d, want 0", used)
		}
		if c.RoleName != "VIP" || c.MaxUses != 2 || c.CreatedBy != 42 {
			t.Errorf("unexpected code fields: %+v", c)
		}
	})

	t.Run("rejects duplicate keys", func(t *testing.T) {
		reg := memory.NewCodeRegistry()
		if err := reg.Create(ctx, newCode("ABC123", 2)); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := reg.Create(ctx, newCode("ABC123", 5)); !errors.Is(err, domain.ErrCodeExists) {
			t.Errorf("err = %v, want ErrCodeExists", err)
		}
		// the original entry must be untouched
		c, _, err := reg.Find(ctx, "ABC123")
		if err != nil || c.MaxUses != 2 {
			t.Errorf("original entry changed: %+v err=%v", c, err)
		}
	})

	t.Run("re-validates format regardless of caller", func(t *testing.T) {
		reg := memory.NewCodeRegistry()
		for _, key := range []string{"abc123", "CODE-1", "CÓDIGO", ""} {
			if err := reg.Create(ctx, newCode(key, 1)); !errors.Is(err, domain.ErrInvalidCode) {
				t.Errorf("create(%q) err = %v, want ErrInvalidCode", key, err)
			}
		}
		if n, _ := reg.Count(ctx); n != 0 {
			t.Errorf("count = %d after rejected creates, want 0", n)
		}
	})

	t.Run("rejects non-positive max uses", func(t *testing.T) {
		reg := memory.NewCodeRegistry()
		if err := reg.Create(ctx, newCode("ABC", 0)); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("err = %v, want ErrInvalidArgument", err)
		}
	})
}

func TestCodeRegistry_Lookups(t *testing.T) {
	ctx := context.Background()
	reg := memory.NewCodeRegistry()
	if err := reg.Create(ctx, newCode("VIP1", 3)); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, _, err := reg.Find(ctx, "NOPE"); !errors.Is(err, domain.ErrCodeNotFound) {
		t.Errorf("Find miss err = %v, want ErrCodeNotFound", err)
	}
	if ok, _ := reg.Exists(ctx, "VIP1"); !ok {
		t.Error("Exists(VIP1) = false, want true")
	}
	if ok, _ := reg.Exists(ctx, "NOPE"); ok {
		t.Error("Exists(NOPE) = true, want false")
	}
	if _, err := reg.RemainingUses(ctx, "NOPE"); !errors.Is(err, domain.ErrCodeNotFound) {
		t.Errorf("RemainingUses miss err = %v, want ErrCodeNotFound", err)
	}
	if rem, _ := reg.RemainingUses(ctx, "VIP1"); rem != 3 {
		t.Errorf("remaining = %d, want 3", rem)
	}

	if _, err := reg.IncrementUsage(ctx, "VIP1"); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if rem, _ := reg.RemainingUses(ctx, "VIP1"); rem != 2 {
		t.Errorf("remaining after increment = %d, want 2", rem)
	}
	if _, err := reg.IncrementUsage(ctx, "NOPE"); !errors.Is(err, domain.ErrCodeNotFound) {
		t.Errorf("IncrementUsage miss err = %v, want ErrCodeNotFound", err)
	}
}

func TestCodeRegistry_IncrementUsageIsAtomic(t *testing.T) {
	ctx := context.Background()
	reg := memory.NewCodeRegistry()
	if err := reg.Create(ctx, newCode("RACE1", 1000)); err != nil {
		t.Fatalf("create: %v", err)
	}

	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if _, err := reg.IncrementUsage(ctx, "RACE1"); err != nil {
				t.Errorf("increment: %v", err)
			}
		}()
	}
	wg.Wait()

	_, used, err := reg.Find(ctx, "RACE1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if used != n {
		t.Errorf("used = %d after %d increments, want %d (lost updates)", used, n, n)
	}
}

func TestCodeRegistry_ListAll(t *testing.T) {
	ctx := context.Background()
	reg := memory.NewCodeRegistry()
	keys := []string{"CHARLIE", "ALPHA", "BRAVO"}
	for _, k := range keys {
		if err := reg.Create(ctx, newCode(k, 1)); err != nil {
			t.Fatalf("create %s: %v", k, err)
		}
	}

	snap, err := reg.ListAll(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(snap) != 3 {
		t.Fatalf("len = %d, want 3", len(snap))
	}
	for i, k := range keys {
		if snap[i].Code.Code != k {
			t.Errorf("snap[%d] = %s, want %s (creation order must be stable)", i, snap[i].Code.Code, k)
		}
	}

	// snapshots must not observe later mutations
	if _, err := reg.IncrementUsage(ctx, "ALPHA"); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if snap[1].UsedCount != 0 {
		t.Error("snapshot changed after a later increment")
	}

	fresh, _ := reg.ListAll(ctx)
	if fresh[1].UsedCount != 1 || !fresh[1].Expired() {
		t.Errorf("fresh snapshot: used=%d expired=%v, want 1/true", fresh[1].UsedCount, fresh[1].Expired())
	}
}
