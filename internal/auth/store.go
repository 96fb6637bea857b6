package auth

import "context"

// Store describes the persistence operations the identity subsystem needs.
// Implementations must enforce uniqueness of tenant names and usernames at
// the storage layer; concurrent registrations race on those constraints, not
// in application code.
type Store interface {
	// CreateTenantWithAdmin inserts the tenant and its first admin user in
	// one transaction. Either both rows exist afterwards or neither does.
	// A duplicate tenant name or username yields ErrAlreadyExists.
	CreateTenantWithAdmin(ctx context.Context, tenant *Tenant, admin *User) error

	FindUser(ctx context.Context, id string) (*User, error)
	FindUserByUsername(ctx context.Context, username string) (*User, error)

	// ListUsers returns the users of one tenant only.
	ListUsers(ctx context.Context, tenantID string) ([]*User, error)

	// DeleteUser removes the user only when it belongs to tenantID;
	// otherwise ErrNotFound.
	DeleteUser(ctx context.Context, tenantID, id string) error
}
