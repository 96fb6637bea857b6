package projects

import "context"

// Store describes persistence for tenant-owned business records. Every read
// and write is keyed by tenant id; implementations must never return a row
// whose tenant id differs from the one given.
type Store interface {
	Clients(ctx context.Context) ClientStore
	Projects(ctx context.Context) ProjectStore
	Tasks(ctx context.Context) TaskStore
	Invoices(ctx context.Context) InvoiceStore
}

// ClientStore manages a tenant's clients.
type ClientStore interface {
	Create(ctx context.Context, c *Client) error
	Find(ctx context.Context, tenantID, id string) (*Client, error)
	List(ctx context.Context, tenantID string) ([]*Client, error)
	Update(ctx context.Context, c *Client) error
	Delete(ctx context.Context, tenantID, id string) error
}

// ProjectStore manages a tenant's projects.
type ProjectStore interface {
	Create(ctx context.Context, p *Project) error
	Find(ctx context.Context, tenantID, id string) (*Project, error)
	List(ctx context.Context, tenantID string) ([]*Project, error)
	Update(ctx context.Context, p *Project) error
	Delete(ctx context.Context, tenantID, id string) error
}

// TaskStore manages work items within projects.
type TaskStore interface {
	Create(ctx context.Context, t *Task) error
	Find(ctx context.Context, tenantID, id string) (*Task, error)
	ListByProject(ctx context.Context, tenantID, projectID string) ([]*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, tenantID, id string) error
}

// InvoiceStore manages a tenant's invoices.
type InvoiceStore interface {
	Create(ctx context.Context, inv *Invoice) error
	Find(ctx context.Context, tenantID, id string) (*Invoice, error)
	List(ctx context.Context, tenantID string) ([]*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
}
