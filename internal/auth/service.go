// Package auth is the identity core: it mints signed, time-bounded
// credentials at login and registration, validates them on every request,
// and derives the per-request Principal every tenant-scoped operation runs
// under.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sitewise.dev/internal/ids"
)

const minPasswordLen = 8

// Service issues and validates credentials and manages the users of a
// tenant. All configuration is fixed at construction and never mutated.
type Service struct {
	store Store
	now   func() time.Time

	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	leeway   time.Duration
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service) error

// WithIssuer overrides the token issuer claim.
func WithIssuer(issuer string) ServiceOption {
	return func(s *Service) error {
		issuer = strings.TrimSpace(issuer)
		if issuer == "" {
			return errors.New("auth: issuer must not be empty")
		}
		s.issuer = issuer
		return nil
	}
}

// WithAudience overrides the token audience claim.
func WithAudience(audience string) ServiceOption {
	return func(s *Service) error {
		audience = strings.TrimSpace(audience)
		if audience == "" {
			return errors.New("auth: audience must not be empty")
		}
		s.audience = audience
		return nil
	}
}

// WithTokenTTL configures the credential lifetime.
func WithTokenTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) error {
		if ttl <= 0 {
			return errors.New("auth: token ttl must be greater than zero")
		}
		s.ttl = ttl
		return nil
	}
}

// WithLeeway configures the clock-skew tolerance applied during validation.
// The tolerance is hard-capped; a leeway that effectively disables the
// expiry check is a configuration error, not an option.
func WithLeeway(leeway time.Duration) ServiceOption {
	return func(s *Service) error {
		if leeway < 0 || leeway > maxLeeway {
			return fmt.Errorf("auth: leeway must be between 0 and %s", maxLeeway)
		}
		s.leeway = leeway
		return nil
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) error {
		if fn != nil {
			s.now = fn
		}
		return nil
	}
}

// NewService constructs the identity service. The signing secret is
// mandatory and below-minimum secrets are refused outright; the caller is
// expected to treat that as a fatal startup error.
func NewService(store Store, secret []byte, opts ...ServiceOption) (*Service, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("auth: signing secret must be at least %d bytes", minSecretLen)
	}
	svc := &Service{
		store:    store,
		now:      time.Now,
		secret:   secret,
		issuer:   "sitewise",
		audience: "sitewise-admin",
		ttl:      defaultTokenTTL,
		leeway:   defaultLeeway,
	}
	for _, opt := range opts {
		if err := opt(svc); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

// Login authenticates a username/password pair and mints a credential.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return Session{}, ErrInvalidCredentials
	}

	user, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.newSession(user)
}

// Register creates a tenant and its first admin user atomically, then
// behaves as Login for the new user. Duplicate company names or usernames
// surface as ErrAlreadyExists; the storage unique constraints serialize
// concurrent registrations.
func (s *Service) Register(ctx context.Context, reg Registration) (Session, error) {
	companyName := strings.TrimSpace(reg.CompanyName)
	fullName := strings.TrimSpace(reg.FullName)
	email := normalizeUsername(reg.Email)

	if companyName == "" {
		return Session{}, fmt.Errorf("%w: company name is required", ErrInvalidInput)
	}
	if email == "" || !strings.Contains(email, "@") {
		return Session{}, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if len(reg.Password) < minPasswordLen {
		return Session{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}

	hash, err := HashPassword(reg.Password)
	if err != nil {
		return Session{}, err
	}

	tenant := &Tenant{
		ID:   ids.New(),
		Name: companyName,
	}
	admin := &User{
		ID:           ids.New(),
		TenantID:     tenant.ID,
		Username:     email,
		FullName:     fullName,
		PasswordHash: hash,
		Role:         RoleAdmin,
	}
	if err := s.store.CreateTenantWithAdmin(ctx, tenant, admin); err != nil {
		return Session{}, err
	}
	return s.newSession(admin)
}

// Users lists the accounts of one tenant.
func (s *Service) Users(ctx context.Context, tenantID string) ([]*User, error) {
	if strings.TrimSpace(tenantID) == "" {
		return nil, ErrNotFound
	}
	return s.store.ListUsers(ctx, tenantID)
}

// RemoveUser deletes a user within the acting principal's tenant. A user id
// belonging to another tenant is reported as not found, never as forbidden.
func (s *Service) RemoveUser(ctx context.Context, tenantID, userID string) error {
	if strings.TrimSpace(tenantID) == "" || strings.TrimSpace(userID) == "" {
		return ErrNotFound
	}
	return s.store.DeleteUser(ctx, tenantID, userID)
}

func (s *Service) newSession(user *User) (Session, error) {
	token, expiresAt, err := s.Issue(user)
	if err != nil {
		return Session{}, err
	}
	return Session{
		Token:     token,
		ExpiresAt: expiresAt,
		Principal: Principal{
			UserID:   user.ID,
			TenantID: user.TenantID,
			Username: user.Username,
			Role:     user.Role,
		},
	}, nil
}

func normalizeUsername(username string) string {
	return strings.TrimSpace(strings.ToLower(username))
}
