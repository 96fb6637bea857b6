package auth

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestPGStoreCreateTenantWithAdminMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("insert into tenants").
		WithArgs("t1", "Acme Construction").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "tenants_name_key"})
	mock.ExpectRollback()

	store := NewPGStore(db)
	err = store.CreateTenantWithAdmin(context.Background(),
		&Tenant{ID: "t1", Name: "Acme Construction"},
		&User{ID: "u1", TenantID: "t1", Username: "ada@acme.test", Role: RoleAdmin},
	)
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreCreateTenantWithAdminCommitsBothRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("insert into tenants").
		WithArgs("t1", "Acme Construction").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("insert into users").
		WithArgs("u1", "t1", "ada@acme.test", "Ada Site", "hash", RoleAdmin).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	store := NewPGStore(db)
	err = store.CreateTenantWithAdmin(context.Background(),
		&Tenant{ID: "t1", Name: "Acme Construction"},
		&User{ID: "u1", TenantID: "t1", Username: "ada@acme.test", FullName: "Ada Site", PasswordHash: "hash", Role: RoleAdmin},
	)
	if err != nil {
		t.Fatalf("CreateTenantWithAdmin: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreFindUserByUsernameNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("select id, tenant_id, username").
		WithArgs("nobody@acme.test").
		WillReturnError(sql.ErrNoRows)

	store := NewPGStore(db)
	if _, err := store.FindUserByUsername(context.Background(), "nobody@acme.test"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGStoreListUsersFiltersByTenant(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "tenant_id", "username", "full_name", "password_hash", "role", "created_at", "updated_at"}).
		AddRow("u1", "t1", "ada@acme.test", "Ada Site", "hash", "admin", now, now)
	mock.ExpectQuery("select id, tenant_id, username, full_name, password_hash, role, created_at, updated_at\\s+from users where tenant_id=").
		WithArgs("t1").
		WillReturnRows(rows)

	store := NewPGStore(db)
	users, err := store.ListUsers(context.Background(), "t1")
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 1 || users[0].TenantID != "t1" {
		t.Fatalf("unexpected users: %+v", users)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPGStoreDeleteUserScopesByTenant(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("delete from users where id=\\$1 and tenant_id=\\$2").
		WithArgs("u1", "t-other").
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewPGStore(db)
	if err := store.DeleteUser(context.Background(), "t-other", "u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
