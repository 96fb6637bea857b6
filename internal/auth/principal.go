package auth

// Principal is the authenticated identity attached to a request after the
// validator accepts its credential. It is built exclusively from verified
// token claims, lives for one request, and is never persisted.
type Principal struct {
	UserID   string
	TenantID string
	Username string
	Role     Role
}

// HasRole reports whether the principal holds the given role.
func (p Principal) HasRole(role Role) bool {
	return p.Role == role
}

// IsAdmin reports whether the principal is a tenant administrator.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
