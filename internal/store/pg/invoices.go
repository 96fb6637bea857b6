package pg

import (
	"context"
	"database/sql"
	"errors"

	"sitewise.dev/internal/projects"
)

type invoiceStore struct{ db *sql.DB }

func (s *invoiceStore) Create(ctx context.Context, inv *projects.Invoice) error {
	_, err := s.db.ExecContext(ctx,
		`insert into invoices(id, tenant_id, project_id, number, amount_cents, currency, status, created_at, updated_at)
		 values($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		inv.ID, inv.TenantID, inv.ProjectID, inv.Number, inv.AmountCents, inv.Currency, inv.Status, inv.CreatedAt, inv.UpdatedAt,
	)
	return err
}

func (s *invoiceStore) Find(ctx context.Context, tenantID, id string) (*projects.Invoice, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, tenant_id, project_id, number, amount_cents, currency, status, created_at, updated_at
		 from invoices where id=$1 and tenant_id=$2`, id, tenantID)
	return scanInvoice(row)
}

func (s *invoiceStore) List(ctx context.Context, tenantID string) ([]*projects.Invoice, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, tenant_id, project_id, number, amount_cents, currency, status, created_at, updated_at
		 from invoices where tenant_id=$1 order by created_at asc`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*projects.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, inv)
	}
	return res, rows.Err()
}

func (s *invoiceStore) Update(ctx context.Context, inv *projects.Invoice) error {
	res, err := s.db.ExecContext(ctx,
		`update invoices set status=$3, updated_at=$4
		 where id=$1 and tenant_id=$2`,
		inv.ID, inv.TenantID, inv.Status, inv.UpdatedAt,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func scanInvoice(row rowScanner) (*projects.Invoice, error) {
	var inv projects.Invoice
	err := row.Scan(&inv.ID, &inv.TenantID, &inv.ProjectID, &inv.Number, &inv.AmountCents, &inv.Currency, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, projects.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
