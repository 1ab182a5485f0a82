package memory

import (
	"context"
	"sync"

	"telegram-vip-codes/internal/domain"
	"telegram-vip-codes/internal/domain/model"
	"telegram-vip-codes/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.CodeRegistry = (*CodeRegistry)(nil)

// entry couples a code with its usage counter. They are created together and
// share a lifetime; the counter is the only mutable part.
type entry struct {
	code *model.Code
	used int
}

// CodeRegistry is the in-memory implementation of the code store. State is
// volatile and lives for the process lifetime only.
type CodeRegistry struct {
	mu    sync.RWMutex
	codes map[string]*entry
	order []string // creation order for stable listing
}

func NewCodeRegistry() *CodeRegistry {
	return &CodeRegistry{codes: make(map[string]*entry)}
}

func (r *CodeRegistry) Create(ctx context.Context, code *model.Code) error {
	if code == nil {
		return domain.ErrInvalidArgument
	}
	if !model.ValidCodeFormat(code.Code) {
		return domain.ErrInvalidCode
	}
	if code.MaxUses < 1 {
		return domain.ErrInvalidArgument
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.codes[code.Code]; ok {
		return domain.ErrCodeExists
	}
	cp := *code
	r.codes[cp.Code] = &entry{code: &cp}
	r.order = append(r.order, cp.Code)
	return nil
}

func (r *CodeRegistry) Find(ctx context.Context, code string) (*model.Code, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.codes[code]
	if !ok {
		return nil, 0, domain.ErrCodeNotFound
	}
	cp := *e.code
	return &cp, e.used, nil
}

func (r *CodeRegistry) Exists(ctx context.Context, code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.codes[code]
	return ok, nil
}

func (r *CodeRegistry) RemainingUses(ctx context.Context, code string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.codes[code]
	if !ok {
		return 0, domain.ErrCodeNotFound
	}
	return e.code.MaxUses - e.used, nil
}

func (r *CodeRegistry) IncrementUsage(ctx context.Context, code string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.codes[code]
	if !ok {
		return 0, domain.ErrCodeNotFound
	}
	e.used++
	return e.used, nil
}

func (r *CodeRegistry) ListAll(ctx context.Context) ([]model.CodeUsage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.CodeUsage, 0, len(r.order))
	for _, key := range r.order {
		e := r.codes[key]
		cp := *e.code
		out = append(out, model.CodeUsage{Code: &cp, UsedCount: e.used})
	}
	return out, nil
}

func (r *CodeRegistry) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.codes), nil
}
