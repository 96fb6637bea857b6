// Package projects holds the tenant-scoped business services: clients,
// projects, tasks and invoices. The tenant id parameter on every operation
// is the scoping guard: it must come from the validated principal, never
// from request payloads, and it is the only tenant filter the storage layer
// ever sees.
package projects

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sitewise.dev/internal/ids"
)

// Service executes tenant-scoped CRUD over the Store. A record belonging to
// another tenant behaves exactly like a record that does not exist.
type Service struct {
	store Store
	now   func() time.Time
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewService constructs the domain service.
func NewService(store Store, opts ...ServiceOption) *Service {
	svc := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// ClientInput carries the caller-editable client fields. Note the absence of
// a tenant id: it is always stamped from the principal.
type ClientInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

func (s *Service) CreateClient(ctx context.Context, tenantID string, in ClientInput) (*Client, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}
	now := s.now().UTC()
	client := &Client{
		ID:        ids.New(),
		TenantID:  tenantID,
		Name:      in.Name,
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Address:   strings.TrimSpace(in.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Clients(ctx).Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *Service) GetClient(ctx context.Context, tenantID, id string) (*Client, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.store.Clients(ctx).Find(ctx, tenantID, id)
}

func (s *Service) ListClients(ctx context.Context, tenantID string) ([]*Client, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.store.Clients(ctx).List(ctx, tenantID)
}

func (s *Service) UpdateClient(ctx context.Context, tenantID, id string, in ClientInput) (*Client, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	// Fetch by (id, tenant) first: a foreign record never reaches the
	// mutation path.
	client, err := s.store.Clients(ctx).Find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrInvalidInput)
	}
	client.Name = in.Name
	client.Email = strings.TrimSpace(in.Email)
	client.Phone = strings.TrimSpace(in.Phone)
	client.Address = strings.TrimSpace(in.Address)
	client.UpdatedAt = s.now().UTC()
	if err := s.store.Clients(ctx).Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *Service) DeleteClient(ctx context.Context, tenantID, id string) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	return s.store.Clients(ctx).Delete(ctx, tenantID, id)
}

// ProjectInput carries the caller-editable project fields.
type ProjectInput struct {
	ClientID    string
	Name        string
	Site        string
	Status      ProjectStatus
	BudgetCents int64
}

func (s *Service) CreateProject(ctx context.Context, tenantID string, in ProjectInput) (*Project, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = ProjectPlanned
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown project status %q", ErrInvalidInput, in.Status)
	}
	if in.BudgetCents < 0 {
		return nil, fmt.Errorf("%w: budget must not be negative", ErrInvalidInput)
	}
	// The referenced client must belong to the same tenant; a foreign
	// client id is indistinguishable from a missing one.
	if _, err := s.store.Clients(ctx).Find(ctx, tenantID, in.ClientID); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	project := &Project{
		ID:          ids.New(),
		TenantID:    tenantID,
		ClientID:    in.ClientID,
		Name:        in.Name,
		Site:        strings.TrimSpace(in.Site),
		Status:      in.Status,
		BudgetCents: in.BudgetCents,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Projects(ctx).Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *Service) GetProject(ctx context.Context, tenantID, id string) (*Project, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.store.Projects(ctx).Find(ctx, tenantID, id)
}

func (s *Service) ListProjects(ctx context.Context, tenantID string) ([]*Project, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.store.Projects(ctx).List(ctx, tenantID)
}

func (s *Service) UpdateProject(ctx context.Context, tenantID, id string, in ProjectInput) (*Project, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	project, err := s.store.Projects(ctx).Find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown project status %q", ErrInvalidInput, in.Status)
	}
	if in.BudgetCents < 0 {
		return nil, fmt.Errorf("%w: budget must not be negative", ErrInvalidInput)
	}
	if in.ClientID != "" && in.ClientID != project.ClientID {
		if _, err := s.store.Clients(ctx).Find(ctx, tenantID, in.ClientID); err != nil {
			return nil, err
		}
		project.ClientID = in.ClientID
	}
	project.Name = in.Name
	project.Site = strings.TrimSpace(in.Site)
	if in.Status != "" {
		project.Status = in.Status
	}
	project.BudgetCents = in.BudgetCents
	project.UpdatedAt = s.now().UTC()
	if err := s.store.Projects(ctx).Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *Service) DeleteProject(ctx context.Context, tenantID, id string) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	return s.store.Projects(ctx).Delete(ctx, tenantID, id)
}

// TaskInput carries the caller-editable task fields.
type TaskInput struct {
	Name       string
	Status     TaskStatus
	AssigneeID string
	DueOn      *time.Time
}

func (s *Service) CreateTask(ctx context.Context, tenantID, projectID string, in TaskInput) (*Task, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: task name is required", ErrInvalidInput)
	}
	if in.Status == "" {
		in.Status = TaskTodo
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown task status %q", ErrInvalidInput, in.Status)
	}
	if _, err := s.store.Projects(ctx).Find(ctx, tenantID, projectID); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	task := &Task{
		ID:         ids.New(),
		TenantID:   tenantID,
		ProjectID:  projectID,
		Name:       in.Name,
		Status:     in.Status,
		AssigneeID: strings.TrimSpace(in.AssigneeID),
		DueOn:      in.DueOn,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Tasks(ctx).Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) ListTasks(ctx context.Context, tenantID, projectID string) ([]*Task, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if _, err := s.store.Projects(ctx).Find(ctx, tenantID, projectID); err != nil {
		return nil, err
	}
	return s.store.Tasks(ctx).ListByProject(ctx, tenantID, projectID)
}

func (s *Service) UpdateTask(ctx context.Context, tenantID, id string, in TaskInput) (*Task, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	task, err := s.store.Tasks(ctx).Find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: task name is required", ErrInvalidInput)
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown task status %q", ErrInvalidInput, in.Status)
	}
	task.Name = in.Name
	if in.Status != "" {
		task.Status = in.Status
	}
	task.AssigneeID = strings.TrimSpace(in.AssigneeID)
	task.DueOn = in.DueOn
	task.UpdatedAt = s.now().UTC()
	if err := s.store.Tasks(ctx).Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) DeleteTask(ctx context.Context, tenantID, id string) error {
	if err := requireTenant(tenantID); err != nil {
		return err
	}
	return s.store.Tasks(ctx).Delete(ctx, tenantID, id)
}

// InvoiceInput carries the caller-editable invoice fields. Invoices are
// always created as drafts.
type InvoiceInput struct {
	ProjectID   string
	Number      string
	AmountCents int64
	Currency    string
}

func (s *Service) CreateInvoice(ctx context.Context, tenantID string, in InvoiceInput) (*Invoice, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	in.Number = strings.TrimSpace(in.Number)
	if in.Number == "" {
		return nil, fmt.Errorf("%w: invoice number is required", ErrInvalidInput)
	}
	if in.AmountCents <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if len(currency) != 3 {
		return nil, fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidInput)
	}
	if _, err := s.store.Projects(ctx).Find(ctx, tenantID, in.ProjectID); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	invoice := &Invoice{
		ID:          ids.New(),
		TenantID:    tenantID,
		ProjectID:   in.ProjectID,
		Number:      in.Number,
		AmountCents: in.AmountCents,
		Currency:    currency,
		Status:      InvoiceDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Invoices(ctx).Create(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *Service) GetInvoice(ctx context.Context, tenantID, id string) (*Invoice, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.store.Invoices(ctx).Find(ctx, tenantID, id)
}

func (s *Service) ListInvoices(ctx context.Context, tenantID string) ([]*Invoice, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	return s.store.Invoices(ctx).List(ctx, tenantID)
}

// AdvanceInvoice moves an invoice one step forward (draft -> sent -> paid).
// Skipping a step or moving backwards fails with ErrInvalidTransition.
func (s *Service) AdvanceInvoice(ctx context.Context, tenantID, id string, next InvoiceStatus) (*Invoice, error) {
	if err := requireTenant(tenantID); err != nil {
		return nil, err
	}
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown invoice status %q", ErrInvalidInput, next)
	}
	invoice, err := s.store.Invoices(ctx).Find(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !invoice.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, invoice.Status, next)
	}
	invoice.Status = next
	invoice.UpdatedAt = s.now().UTC()
	if err := s.store.Invoices(ctx).Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func requireTenant(tenantID string) error {
	if strings.TrimSpace(tenantID) == "" {
		return ErrNotFound
	}
	return nil
}
