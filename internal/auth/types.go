package auth

import "time"

// Role is the coarse permission level a user holds within their tenant.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleProjectManager Role = "project_manager"
	RoleAccountant     Role = "accountant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProjectManager, RoleAccountant:
		return true
	}
	return false
}

// Tenant is an isolated customer organization. Every business record in the
// system carries a tenant id foreign key pointing here.
type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User is an account belonging to exactly one tenant. Username doubles as the
// login email and is unique across all tenants.
type User struct {
	ID           string
	TenantID     string
	Username     string
	FullName     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Registration is the input for creating a new tenant with its first admin.
type Registration struct {
	CompanyName string
	FullName    string
	Email       string
	Password    string
}

// Session is the result of a successful login or registration: the signed
// credential plus the principal it encodes.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Principal Principal
}
