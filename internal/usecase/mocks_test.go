package usecase_test

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"telegram-vip-codes/internal/domain/model"
	"telegram-vip-codes/internal/domain/ports/repository"
	"telegram-vip-codes/internal/infra/db/memory"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// mockRegistry delegates to a real in-memory registry unless a Func field is
// set, letting tests inject failures on single operations.
type mockRegistry struct {
	inner *memory.CodeRegistry

	FindFunc           func(ctx context.Context, code string) (*model.Code, int, error)
	IncrementUsageFunc func(ctx context.Context, code string) (int, error)
}

var _ repository.CodeRegistry = (*mockRegistry)(nil)

func newMockRegistry() *mockRegistry {
	return &mockRegistry{inner: memory.NewCodeRegistry()}
}

func (m *mockRegistry) Create(ctx context.Context, code *model.Code) error {
	return m.inner.Create(ctx, code)
}

func (m *mockRegistry) Find(ctx context.Context, code string) (*model.Code, int, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, code)
	}
	return m.inner.Find(ctx, code)
}

func (m *mockRegistry) Exists(ctx context.Context, code string) (bool, error) {
	return m.inner.Exists(ctx, code)
}

func (m *mockRegistry) RemainingUses(ctx context.Context, code string) (int, error) {
	return m.inner.RemainingUses(ctx, code)
}

func (m *mockRegistry) IncrementUsage(ctx context.Context, code string) (int, error) {
	if m.IncrementUsageFunc != nil {
		return m.IncrementUsageFunc(ctx, code)
	}
	return m.inner.IncrementUsage(ctx, code)
}

func (m *mockRegistry) ListAll(ctx context.Context) ([]model.CodeUsage, error) {
	return m.inner.ListAll(ctx)
}

func (m *mockRegistry) Count(ctx context.Context) (int, error) {
	return m.inner.Count(ctx)
}

// mockRoleProvider records grants; GrantFunc can be set to simulate platform
// failures.
type mockRoleProvider struct {
	mu      sync.Mutex
	granted map[int64]map[string]struct{}

	GrantFunc     func(ctx context.Context, userID int64, roleID string) error
	UserRolesFunc func(ctx context.Context, userID int64) (map[string]struct{}, error)
}

func newMockRoleProvider() *mockRoleProvider {
	return &mockRoleProvider{granted: make(map[int64]map[string]struct{})}
}

func (m *mockRoleProvider) GrantRole(ctx context.Context, userID int64, roleID string) error {
	if m.GrantFunc != nil {
		if err := m.GrantFunc(ctx, userID, roleID); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.granted[userID] == nil {
		m.granted[userID] = make(map[string]struct{})
	}
	m.granted[userID][roleID] = struct{}{}
	return nil
}

func (m *mockRoleProvider) UserRoles(ctx context.Context, userID int64) (map[string]struct{}, error) {
	if m.UserRolesFunc != nil {
		return m.UserRolesFunc(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]struct{}, len(m.granted[userID]))
	for id := range m.granted[userID] {
		out[id] = struct{}{}
	}
	return out, nil
}

func (m *mockRoleProvider) grantCount(userID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.granted[userID])
}

// sentMessage is one delivery captured by mockNotifier.
type sentMessage struct {
	TgID int64
	Text string
}

// mockNotifier captures outbound messages and signals each delivery on a
// channel so tests can wait for asynchronous dispatches.
type mockNotifier struct {
	mu   sync.Mutex
	sent []sentMessage

	SendFunc  func(ctx context.Context, tgID int64, text string) error
	delivered chan sentMessage
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{delivered: make(chan sentMessage, 16)}
}

func (m *mockNotifier) SendMessage(ctx context.Context, tgID int64, text string) error {
	if m.SendFunc != nil {
		if err := m.SendFunc(ctx, tgID, text); err != nil {
			return err
		}
	}
	msg := sentMessage{TgID: tgID, Text: text}
	m.mu.Lock()
	m.sent = append(m.sent, msg)
	m.mu.Unlock()
	m.delivered <- msg
	return nil
}

func (m *mockNotifier) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
