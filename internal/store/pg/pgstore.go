// Package pg implements the business-record store on PostgreSQL. Every
// query is parameterized by tenant id; there is no code path that reads or
// writes a tenant-owned row without it.
package pg

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"sitewise.dev/internal/projects"
)

type Store struct {
	db *sql.DB
}

var _ projects.Store = (*Store)(nil)

// Open connects to PostgreSQL with pool defaults tuned for a small API
// fleet; adjust under load tests.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewStore wraps an existing database handle (tests, shared pools).
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) Clients(ctx context.Context) projects.ClientStore   { return &clientStore{db: s.db} }
func (s *Store) Projects(ctx context.Context) projects.ProjectStore { return &projectStore{db: s.db} }
func (s *Store) Tasks(ctx context.Context) projects.TaskStore       { return &taskStore{db: s.db} }
func (s *Store) Invoices(ctx context.Context) projects.InvoiceStore { return &invoiceStore{db: s.db} }
