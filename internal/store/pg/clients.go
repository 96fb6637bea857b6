package pg

import (
	"context"
	"database/sql"
	"errors"

	"sitewise.dev/internal/projects"
)

type clientStore struct{ db *sql.DB }

func (s *clientStore) Create(ctx context.Context, c *projects.Client) error {
	_, err := s.db.ExecContext(ctx,
		`insert into clients(id, tenant_id, name, email, phone, address, created_at, updated_at)
		 values($1,$2,$3,$4,$5,$6,$7,$8)`,
		c.ID, c.TenantID, c.Name, c.Email, c.Phone, c.Address, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (s *clientStore) Find(ctx context.Context, tenantID, id string) (*projects.Client, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, tenant_id, name, email, phone, address, created_at, updated_at
		 from clients where id=$1 and tenant_id=$2`, id, tenantID)
	var c projects.Client
	err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, projects.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *clientStore) List(ctx context.Context, tenantID string) ([]*projects.Client, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, tenant_id, name, email, phone, address, created_at, updated_at
		 from clients where tenant_id=$1 order by created_at asc`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*projects.Client
	for rows.Next() {
		var c projects.Client
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, &c)
	}
	return res, rows.Err()
}

func (s *clientStore) Update(ctx context.Context, c *projects.Client) error {
	res, err := s.db.ExecContext(ctx,
		`update clients set name=$3, email=$4, phone=$5, address=$6, updated_at=$7
		 where id=$1 and tenant_id=$2`,
		c.ID, c.TenantID, c.Name, c.Email, c.Phone, c.Address, c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *clientStore) Delete(ctx context.Context, tenantID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`delete from clients where id=$1 and tenant_id=$2`, id, tenantID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// requireAffected maps zero-row mutations to not-found; a row owned by
// another tenant and a row that does not exist must look identical.
func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return projects.ErrNotFound
	}
	return nil
}
