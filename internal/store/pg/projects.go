package pg

import (
	"context"
	"database/sql"
	"errors"

	"sitewise.dev/internal/projects"
)

type projectStore struct{ db *sql.DB }

func (s *projectStore) Create(ctx context.Context, p *projects.Project) error {
	_, err := s.db.ExecContext(ctx,
		`insert into projects(id, tenant_id, client_id, name, site, status, budget_cents, created_at, updated_at)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		p.ID, p.TenantID, p.ClientID, p.Name, p.Site, p.Status, p.BudgetCents, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (s *projectStore) Find(ctx context.Context, tenantID, id string) (*projects.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, tenant_id, client_id, name, site, status, budget_cents, created_at, updated_at
		 from projects where id=$1 and tenant_id=$2`, id, tenantID)
	return scanProject(row)
}

func (s *projectStore) List(ctx context.Context, tenantID string) ([]*projects.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, tenant_id, client_id, name, site, status, budget_cents, created_at, updated_at
		 from projects where tenant_id=$1 order by created_at asc`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*projects.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (s *projectStore) Update(ctx context.Context, p *projects.Project) error {
	res, err := s.db.ExecContext(ctx,
		`update projects set client_id=$3, name=$4, site=$5, status=$6, budget_cents=$7, updated_at=$8
		 where id=$1 and tenant_id=$2`,
		p.ID, p.TenantID, p.ClientID, p.Name, p.Site, p.Status, p.BudgetCents, p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *projectStore) Delete(ctx context.Context, tenantID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`delete from projects where id=$1 and tenant_id=$2`, id, tenantID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*projects.Project, error) {
	var p projects.Project
	err := row.Scan(&p.ID, &p.TenantID, &p.ClientID, &p.Name, &p.Site, &p.Status, &p.BudgetCents, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, projects.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
