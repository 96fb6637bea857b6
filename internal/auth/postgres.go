package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var _ Store = (*PGStore)(nil)

// PGStore implements Store using PostgreSQL. Uniqueness of tenant names and
// usernames is enforced by database constraints; a race between concurrent
// registrations ends with exactly one winner.
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) CreateTenantWithAdmin(ctx context.Context, tenant *Tenant, admin *User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`insert into tenants(id, name) values($1,$2)`,
		tenant.ID, tenant.Name,
	); err != nil {
		return mapConstraintError(err)
	}
	if _, err := tx.ExecContext(ctx,
		`insert into users(id, tenant_id, username, full_name, password_hash, role)
		 values($1,$2,$3,$4,$5,$6)`,
		admin.ID, admin.TenantID, admin.Username, admin.FullName, admin.PasswordHash, admin.Role,
	); err != nil {
		return mapConstraintError(err)
	}
	return tx.Commit()
}

func (s *PGStore) FindUser(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, tenant_id, username, full_name, password_hash, role, created_at, updated_at
		 from users where id=$1`, id)
	return scanUser(row)
}

func (s *PGStore) FindUserByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, tenant_id, username, full_name, password_hash, role, created_at, updated_at
		 from users where username=$1`, username)
	return scanUser(row)
}

func (s *PGStore) ListUsers(ctx context.Context, tenantID string) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, tenant_id, username, full_name, password_hash, role, created_at, updated_at
		 from users where tenant_id=$1 order by created_at asc`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (s *PGStore) DeleteUser(ctx context.Context, tenantID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`delete from users where id=$1 and tenant_id=$2`, id, tenantID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.TenantID, &u.Username, &u.FullName, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// mapConstraintError folds Postgres unique violations (SQLSTATE 23505) into
// ErrAlreadyExists so the service layer can answer with a conflict.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, pgErr.ConstraintName)
	}
	return err
}
