package pg

import (
	"context"
	"database/sql"
	"errors"

	"sitewise.dev/internal/projects"
)

type taskStore struct{ db *sql.DB }

func (s *taskStore) Create(ctx context.Context, t *projects.Task) error {
	_, err := s.db.ExecContext(ctx,
		`insert into tasks(id, tenant_id, project_id, name, status, assignee_id, due_on, created_at, updated_at)
		 values($1,$2,$3,$4,$5,nullif($6,''),$7,$8,$9)`,
		t.ID, t.TenantID, t.ProjectID, t.Name, t.Status, t.AssigneeID, t.DueOn, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (s *taskStore) Find(ctx context.Context, tenantID, id string) (*projects.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, tenant_id, project_id, name, status, coalesce(assignee_id,''), due_on, created_at, updated_at
		 from tasks where id=$1 and tenant_id=$2`, id, tenantID)
	return scanTask(row)
}

func (s *taskStore) ListByProject(ctx context.Context, tenantID, projectID string) ([]*projects.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, tenant_id, project_id, name, status, coalesce(assignee_id,''), due_on, created_at, updated_at
		 from tasks where tenant_id=$1 and project_id=$2 order by created_at asc`, tenantID, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*projects.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

func (s *taskStore) Update(ctx context.Context, t *projects.Task) error {
	res, err := s.db.ExecContext(ctx,
		`update tasks set name=$3, status=$4, assignee_id=nullif($5,''), due_on=$6, updated_at=$7
		 where id=$1 and tenant_id=$2`,
		t.ID, t.TenantID, t.Name, t.Status, t.AssigneeID, t.DueOn, t.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (s *taskStore) Delete(ctx context.Context, tenantID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`delete from tasks where id=$1 and tenant_id=$2`, id, tenantID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func scanTask(row rowScanner) (*projects.Task, error) {
	var t projects.Task
	err := row.Scan(&t.ID, &t.TenantID, &t.ProjectID, &t.Name, &t.Status, &t.AssigneeID, &t.DueOn, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, projects.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}
