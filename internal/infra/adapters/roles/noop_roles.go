package roles

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"telegram-vip-codes/internal/domain"
	"telegram-vip-codes/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.RoleProvider = (*NoopRoleProvider)(nil)

// NoopRoleProvider keeps grants in memory. Used in dev mode and tests.
type NoopRoleProvider struct {
	mu      sync.Mutex
	known   map[string]struct{}
	granted map[int64]map[string]struct{}
	log     *zerolog.Logger
}

func NewNoopRoleProvider(roleIDs []string, logger *zerolog.Logger) *NoopRoleProvider {
	known := make(map[string]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		known[id] = struct{}{}
	}
	return &NoopRoleProvider{
		known:   known,
		granted: make(map[int64]map[string]struct{}),
		log:     logger,
	}
}

func (p *NoopRoleProvider) UserRoles(ctx context.Context, userID int64) (map[string]struct{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]struct{}, len(p.granted[userID]))
	for id := range p.granted[userID] {
		out[id] = struct{}{}
	}
	return out, nil
}

func (p *NoopRoleProvider) GrantRole(ctx context.Context, userID int64, roleID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.known[roleID]; !ok {
		return domain.ErrRoleUnknown
	}
	if p.granted[userID] == nil {
		p.granted[userID] = make(map[string]struct{})
	}
	p.granted[userID][roleID] = struct{}{}
	p.log.Info().Int64("tg_id", userID).Str("role", roleID).Msg("[noop-roles] role granted")
	return nil
}
