package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeStore is an in-memory Store that enforces the same uniqueness the
// database constraints do.
type fakeStore struct {
	mu      sync.Mutex
	tenants map[string]*Tenant // keyed by name
	users   map[string]*User   // keyed by username
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tenants: make(map[string]*Tenant),
		users:   make(map[string]*User),
	}
}

func (f *fakeStore) CreateTenantWithAdmin(ctx context.Context, tenant *Tenant, admin *User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tenants[tenant.Name]; ok {
		return ErrAlreadyExists
	}
	if _, ok := f.users[admin.Username]; ok {
		return ErrAlreadyExists
	}
	f.tenants[tenant.Name] = tenant
	f.users[admin.Username] = admin
	return nil
}

func (f *fakeStore) FindUser(ctx context.Context, id string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) ListUsers(ctx context.Context, tenantID string) ([]*User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*User
	for _, u := range f.users {
		if u.TenantID == tenantID {
			res = append(res, u)
		}
	}
	return res, nil
}

func (f *fakeStore) DeleteUser(ctx context.Context, tenantID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for username, u := range f.users {
		if u.ID == id && u.TenantID == tenantID {
			delete(f.users, username)
			return nil
		}
	}
	return ErrNotFound
}

func serviceWithStore(t *testing.T, store Store) *Service {
	t.Helper()
	svc, err := NewService(store, testSecret,
		WithIssuer("test-issuer"),
		WithAudience("test-audience"),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func seedUser(t *testing.T, store *fakeStore, username, password string, role Role) *User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u := &User{
		ID:           "user-" + username,
		TenantID:     "tenant-" + username,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	store.mu.Lock()
	store.users[username] = u
	store.mu.Unlock()
	return u
}

func TestLoginIssuesMatchingSession(t *testing.T) {
	store := newFakeStore()
	seeded := seedUser(t, store, "owner@acme.test", "correct horse", RoleAdmin)
	svc := serviceWithStore(t, store)

	session, err := svc.Login(context.Background(), "Owner@Acme.Test", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Token == "" {
		t.Fatal("expected a token")
	}
	if session.Principal.UserID != seeded.ID || session.Principal.TenantID != seeded.TenantID {
		t.Fatalf("principal does not match stored user: %+v", session.Principal)
	}
	if session.Principal.Role != RoleAdmin {
		t.Fatalf("unexpected role: %s", session.Principal.Role)
	}

	// The minted credential must validate and carry the same identity.
	principal, err := svc.Verify(session.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if principal.UserID != seeded.ID || principal.TenantID != seeded.TenantID || principal.Role != RoleAdmin {
		t.Fatalf("verified principal mismatch: %+v", principal)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	store := newFakeStore()
	seedUser(t, store, "owner@acme.test", "correct horse", RoleAdmin)
	svc := serviceWithStore(t, store)

	if _, err := svc.Login(context.Background(), "owner@acme.test", "battery staple"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginRejectsUnknownUserIdentically(t *testing.T) {
	store := newFakeStore()
	seedUser(t, store, "owner@acme.test", "correct horse", RoleAdmin)
	svc := serviceWithStore(t, store)

	_, unknownErr := svc.Login(context.Background(), "nobody@acme.test", "whatever")
	_, wrongErr := svc.Login(context.Background(), "owner@acme.test", "wrong")
	if !errors.Is(unknownErr, ErrInvalidCredentials) || !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("expected identical rejections, got %v and %v", unknownErr, wrongErr)
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("error messages must not reveal whether the username exists: %q vs %q", unknownErr, wrongErr)
	}
}

func TestRegisterCreatesTenantAndAdmin(t *testing.T) {
	store := newFakeStore()
	svc := serviceWithStore(t, store)

	session, err := svc.Register(context.Background(), Registration{
		CompanyName: "Acme Construction",
		FullName:    "Ada Site",
		Email:       "Ada@Acme.Test",
		Password:    "long enough",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if session.Principal.Role != RoleAdmin {
		t.Fatalf("first user must be admin, got %s", session.Principal.Role)
	}
	if session.Principal.TenantID == "" {
		t.Fatal("expected a tenant id")
	}

	// The new credential logs straight in.
	if _, err := svc.Login(context.Background(), "ada@acme.test", "long enough"); err != nil {
		t.Fatalf("Login after Register: %v", err)
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	store := newFakeStore()
	svc := serviceWithStore(t, store)

	reg := Registration{
		CompanyName: "Acme Construction",
		FullName:    "Ada Site",
		Email:       "ada@acme.test",
		Password:    "long enough",
	}
	if _, err := svc.Register(context.Background(), reg); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register(context.Background(), reg); !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRegisterConcurrentSameCompanyOneWinner(t *testing.T) {
	store := newFakeStore()
	svc := serviceWithStore(t, store)

	reg := func(email string) Registration {
		return Registration{
			CompanyName: "Acme Construction",
			FullName:    "Racer",
			Email:       email,
			Password:    "long enough",
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, email := range []string{"a@acme.test", "b@acme.test"} {
		wg.Add(1)
		go func(i int, email string) {
			defer wg.Done()
			_, errs[i] = svc.Register(context.Background(), reg(email))
		}(i, email)
	}
	wg.Wait()

	var conflicts, successes int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrAlreadyExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Fatalf("expected exactly one winner, got %d successes and %d conflicts", successes, conflicts)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	svc := serviceWithStore(t, newFakeStore())

	cases := []Registration{
		{CompanyName: "", FullName: "A", Email: "a@b.test", Password: "long enough"},
		{CompanyName: "Acme", FullName: "A", Email: "not-an-email", Password: "long enough"},
		{CompanyName: "Acme", FullName: "A", Email: "a@b.test", Password: "short"},
	}
	for i, reg := range cases {
		if _, err := svc.Register(context.Background(), reg); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected ErrInvalidInput, got %v", i, err)
		}
	}
}

func TestRemoveUserScopedToTenant(t *testing.T) {
	store := newFakeStore()
	victim := seedUser(t, store, "pm@acme.test", "correct horse", RoleProjectManager)
	svc := serviceWithStore(t, store)

	// A different tenant cannot delete, and learns nothing beyond not-found.
	if err := svc.RemoveUser(context.Background(), "tenant-other", victim.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign tenant, got %v", err)
	}
	if _, err := store.FindUser(context.Background(), victim.ID); err != nil {
		t.Fatalf("user must still exist: %v", err)
	}

	if err := svc.RemoveUser(context.Background(), victim.TenantID, victim.ID); err != nil {
		t.Fatalf("RemoveUser: %v", err)
	}
	if _, err := store.FindUser(context.Background(), victim.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected user gone, got %v", err)
	}
}

func TestSessionExpiryUsesConfiguredTTL(t *testing.T) {
	store := newFakeStore()
	seedUser(t, store, "owner@acme.test", "correct horse", RoleAdmin)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc, err := NewService(store, testSecret,
		WithIssuer("test-issuer"),
		WithAudience("test-audience"),
		WithTokenTTL(time.Hour),
		WithClock(func() time.Time { return now }),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	session, err := svc.Login(context.Background(), "owner@acme.test", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if want := now.Add(time.Hour); !session.ExpiresAt.Equal(want) {
		t.Fatalf("expires_at: got %v, want %v", session.ExpiresAt, want)
	}
}
