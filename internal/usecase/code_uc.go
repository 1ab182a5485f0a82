package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"telegram-vip-codes/internal/domain"
	"telegram-vip-codes/internal/domain/model"
	"telegram-vip-codes/internal/domain/ports/repository"
	"telegram-vip-codes/internal/infra/metrics"
)

// Compile-time check
var _ CodeUseCase = (*codeUC)(nil)

// Status is the summary reported by the status command and the web layer.
type Status struct {
	CodeCount int
}

// CodeUseCase covers the administrative operations on the code registry.
type CodeUseCase interface {
	// Create registers a new code. codeText must already be in canonical
	// uppercase form; the registry re-validates it either way.
	Create(ctx context.Context, codeText, roleID string, maxUses int, createdBy int64) (*model.Code, error)
	// Generate creates a code with a randomly generated key.
	Generate(ctx context.Context, roleID string, maxUses int, createdBy int64) (*model.Code, error)
	// List returns a snapshot of all codes in creation order, expired ones
	// included.
	List(ctx context.Context) ([]model.CodeUsage, error)
	Status(ctx context.Context) (Status, error)
}

type codeUC struct {
	registry  repository.CodeRegistry
	roleNames map[string]string // role id -> display name
	log       *zerolog.Logger
}

func NewCodeUseCase(registry repository.CodeRegistry, roleNames map[string]string, logger *zerolog.Logger) *codeUC {
	return &codeUC{registry: registry, roleNames: roleNames, log: logger}
}

func (uc *codeUC) Create(ctx context.Context, codeText, roleID string, maxUses int, createdBy int64) (*model.Code, error) {
	roleName, ok := uc.roleNames[roleID]
	if !ok {
		return nil, fmt.Errorf("role %q: %w", roleID, domain.ErrRoleUnknown)
	}

	code := &model.Code{
		Code:      codeText,
		RoleID:    roleID,
		RoleName:  roleName,
		MaxUses:   maxUses,
		CreatedBy: createdBy,
		CreatedAt: time.Now(),
	}
	if err := uc.registry.Create(ctx, code); err != nil {
		return nil, err
	}

	metrics.CodeCreated()
	uc.log.Info().
		Str("code", code.Code).
		Str("role", roleID).
		Int("max_uses", maxUses).
		Int64("created_by", createdBy).
		Msg("code created")
	return code, nil
}

func (uc *codeUC) Generate(ctx context.Context, roleID string, maxUses int, createdBy int64) (*model.Code, error) {
	// Collisions are unlikely at 12 characters but creation is atomic, so
	// just retry on a duplicate key.
	for attempt := 0; attempt < 5; attempt++ {
		key, err := generateCodeKey()
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}
		code, err := uc.Create(ctx, key, roleID, maxUses, createdBy)
		if errors.Is(err, domain.ErrCodeExists) {
			continue
		}
		return code, err
	}
	return nil, domain.ErrCodeExists
}

func (uc *codeUC) List(ctx context.Context) ([]model.CodeUsage, error) {
	return uc.registry.ListAll(ctx)
}

func (uc *codeUC) Status(ctx context.Context) (Status, error) {
	n, err := uc.registry.Count(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{CodeCount: n}, nil
}

// generateCodeKey creates a secure random code key. The character set avoids
// ambiguous characters like O/0, I/1, l and stays within the canonical
// uppercase-alphanumeric form.
func generateCodeKey() (string, error) {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const keyLength = 12

	buffer := make([]byte, keyLength)
	if _, err := io.ReadFull(rand.Reader, buffer); err != nil {
		return "", err
	}
	for i := 0; i < keyLength; i++ {
		buffer[i] = chars[int(buffer[i])%len(chars)]
	}
	return string(buffer), nil
}
