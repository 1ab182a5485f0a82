package adapter

import "context"

// RoleProvider is the port to the platform's role system.
type RoleProvider interface {
	// GrantRole assigns roleID to the user. A non-nil error means the grant
	// did not happen and no redemption use may be consumed.
	GrantRole(ctx context.Context, userID int64, roleID string) error
	// UserRoles returns the set of role ids the user currently holds.
	UserRoles(ctx context.Context, userID int64) (map[string]struct{}, error)
}
