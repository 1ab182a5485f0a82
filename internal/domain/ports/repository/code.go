package repository

import (
	"context"

	"telegram-vip-codes/internal/domain/model"
)

// CodeRegistry is the port for the authoritative store of all codes and
// their usage counts. Implementations own both maps exclusively; the
// redemption engine holds no state of its own.
type CodeRegistry interface {
	// Create stores a new code with a zero usage count. The format is
	// re-validated even when the caller already did so, and the existence
	// check plus insert happen as a single atomic step.
	// Returns domain.ErrInvalidCode, domain.ErrInvalidArgument or
	// domain.ErrCodeExists.
	Create(ctx context.Context, code *model.Code) error
	// Find returns the code and its current usage count, or
	// domain.ErrCodeNotFound.
	Find(ctx context.Context, code string) (*model.Code, int, error)
	Exists(ctx context.Context, code string) (bool, error)
	// RemainingUses returns maxUses minus the current usage count.
	RemainingUses(ctx context.Context, code string) (int, error)
	// IncrementUsage advances the usage count by one and returns the new
	// count. Concurrent increments of the same code never observe the same
	// prior value.
	IncrementUsage(ctx context.Context, code string) (int, error)
	// ListAll returns a consistent snapshot of every code, in creation
	// order. Expired codes stay listed; nothing is ever deleted.
	ListAll(ctx context.Context) ([]model.CodeUsage, error)
	// Count returns the number of registered codes.
	Count(ctx context.Context) (int, error)
}
