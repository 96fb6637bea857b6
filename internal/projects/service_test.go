package projects

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// memStore keeps every aggregate in a map keyed by id and scopes lookups by
// tenant the same way the SQL implementation does.
type memStore struct {
	mu       sync.Mutex
	clients  map[string]*Client
	projects map[string]*Project
	tasks    map[string]*Task
	invoices map[string]*Invoice
}

func newMemStore() *memStore {
	return &memStore{
		clients:  make(map[string]*Client),
		projects: make(map[string]*Project),
		tasks:    make(map[string]*Task),
		invoices: make(map[string]*Invoice),
	}
}

func (m *memStore) Clients(ctx context.Context) ClientStore   { return (*memClients)(m) }
func (m *memStore) Projects(ctx context.Context) ProjectStore { return (*memProjects)(m) }
func (m *memStore) Tasks(ctx context.Context) TaskStore       { return (*memTasks)(m) }
func (m *memStore) Invoices(ctx context.Context) InvoiceStore { return (*memInvoices)(m) }

type memClients memStore

func (m *memClients) Create(ctx context.Context, c *Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.clients[c.ID] = &cp
	return nil
}

func (m *memClients) Find(ctx context.Context, tenantID, id string) (*Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[id]
	if !ok || c.TenantID != tenantID {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memClients) List(ctx context.Context, tenantID string) ([]*Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []*Client
	for _, c := range m.clients {
		if c.TenantID == tenantID {
			cp := *c
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (m *memClients) Update(ctx context.Context, c *Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.clients[c.ID]
	if !ok || existing.TenantID != c.TenantID {
		return ErrNotFound
	}
	cp := *c
	m.clients[c.ID] = &cp
	return nil
}

func (m *memClients) Delete(ctx context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[id]
	if !ok || c.TenantID != tenantID {
		return ErrNotFound
	}
	delete(m.clients, id)
	return nil
}

type memProjects memStore

func (m *memProjects) Create(ctx context.Context, p *Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.projects[p.ID] = &cp
	return nil
}

func (m *memProjects) Find(ctx context.Context, tenantID, id string) (*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok || p.TenantID != tenantID {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProjects) List(ctx context.Context, tenantID string) ([]*Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []*Project
	for _, p := range m.projects {
		if p.TenantID == tenantID {
			cp := *p
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (m *memProjects) Update(ctx context.Context, p *Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.projects[p.ID]
	if !ok || existing.TenantID != p.TenantID {
		return ErrNotFound
	}
	cp := *p
	m.projects[p.ID] = &cp
	return nil
}

func (m *memProjects) Delete(ctx context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[id]
	if !ok || p.TenantID != tenantID {
		return ErrNotFound
	}
	delete(m.projects, id)
	return nil
}

type memTasks memStore

func (m *memTasks) Create(ctx context.Context, t *Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.tasks[t.ID] = &cp
	return nil
}

func (m *memTasks) Find(ctx context.Context, tenantID, id string) (*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.TenantID != tenantID {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTasks) ListByProject(ctx context.Context, tenantID, projectID string) ([]*Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []*Task
	for _, t := range m.tasks {
		if t.TenantID == tenantID && t.ProjectID == projectID {
			cp := *t
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (m *memTasks) Update(ctx context.Context, t *Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.tasks[t.ID]
	if !ok || existing.TenantID != t.TenantID {
		return ErrNotFound
	}
	cp := *t
	m.tasks[t.ID] = &cp
	return nil
}

func (m *memTasks) Delete(ctx context.Context, tenantID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.TenantID != tenantID {
		return ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

type memInvoices memStore

func (m *memInvoices) Create(ctx context.Context, inv *Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *inv
	m.invoices[inv.ID] = &cp
	return nil
}

func (m *memInvoices) Find(ctx context.Context, tenantID, id string) (*Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok || inv.TenantID != tenantID {
		return nil, ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (m *memInvoices) List(ctx context.Context, tenantID string) ([]*Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var res []*Invoice
	for _, inv := range m.invoices {
		if inv.TenantID == tenantID {
			cp := *inv
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (m *memInvoices) Update(ctx context.Context, inv *Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.invoices[inv.ID]
	if !ok || existing.TenantID != inv.TenantID {
		return ErrNotFound
	}
	cp := *inv
	m.invoices[inv.ID] = &cp
	return nil
}

func seedClient(t *testing.T, svc *Service, tenantID, name string) *Client {
	t.Helper()
	c, err := svc.CreateClient(context.Background(), tenantID, ClientInput{Name: name})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	return c
}

func seedProject(t *testing.T, svc *Service, tenantID, clientID string) *Project {
	t.Helper()
	p, err := svc.CreateProject(context.Background(), tenantID, ProjectInput{
		ClientID: clientID,
		Name:     "Riverside Offices",
		Site:     "12 Quay St",
	})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	return p
}

func TestCreateClientStampsTenant(t *testing.T) {
	svc := NewService(newMemStore())
	c := seedClient(t, svc, "t1", "Acme Holdings")
	if c.TenantID != "t1" {
		t.Fatalf("tenant id not stamped: %+v", c)
	}
	if c.ID == "" {
		t.Fatal("expected generated id")
	}
}

func TestCrossTenantReadIsNotFound(t *testing.T) {
	svc := NewService(newMemStore())
	c := seedClient(t, svc, "t1", "Acme Holdings")

	if _, err := svc.GetClient(context.Background(), "t2", c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// Own tenant still sees it.
	if _, err := svc.GetClient(context.Background(), "t1", c.ID); err != nil {
		t.Fatalf("GetClient: %v", err)
	}
}

func TestCrossTenantUpdateAndDeleteAreNotFound(t *testing.T) {
	svc := NewService(newMemStore())
	c := seedClient(t, svc, "t1", "Acme Holdings")

	if _, err := svc.UpdateClient(context.Background(), "t2", c.ID, ClientInput{Name: "Hijacked"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on update, got %v", err)
	}
	if err := svc.DeleteClient(context.Background(), "t2", c.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on delete, got %v", err)
	}

	got, err := svc.GetClient(context.Background(), "t1", c.ID)
	if err != nil {
		t.Fatalf("GetClient: %v", err)
	}
	if got.Name != "Acme Holdings" {
		t.Fatalf("record was mutated across tenants: %+v", got)
	}
}

func TestListClientsFiltersByTenant(t *testing.T) {
	svc := NewService(newMemStore())
	seedClient(t, svc, "t1", "Acme Holdings")
	seedClient(t, svc, "t1", "Borealis Ltd")
	seedClient(t, svc, "t2", "Other Co")

	list, err := svc.ListClients(context.Background(), "t1")
	if err != nil {
		t.Fatalf("ListClients: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(list))
	}
	for _, c := range list {
		if c.TenantID != "t1" {
			t.Fatalf("foreign client leaked: %+v", c)
		}
	}
}

func TestCreateProjectRejectsForeignClient(t *testing.T) {
	svc := NewService(newMemStore())
	foreign := seedClient(t, svc, "t2", "Other Co")

	_, err := svc.CreateProject(context.Background(), "t1", ProjectInput{
		ClientID: foreign.ID,
		Name:     "Should Not Exist",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign client, got %v", err)
	}
}

func TestTasksAreScopedThroughTheirProject(t *testing.T) {
	svc := NewService(newMemStore())
	client := seedClient(t, svc, "t1", "Acme Holdings")
	project := seedProject(t, svc, "t1", client.ID)

	task, err := svc.CreateTask(context.Background(), "t1", project.ID, TaskInput{Name: "Pour foundation"})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.TenantID != "t1" || task.ProjectID != project.ID {
		t.Fatalf("unexpected task: %+v", task)
	}

	if _, err := svc.ListTasks(context.Background(), "t2", project.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign project, got %v", err)
	}
	if _, err := svc.UpdateTask(context.Background(), "t2", task.ID, TaskInput{Name: "Hijacked"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on cross-tenant task update, got %v", err)
	}
}

func TestInvoiceLifecycle(t *testing.T) {
	svc := NewService(newMemStore())
	client := seedClient(t, svc, "t1", "Acme Holdings")
	project := seedProject(t, svc, "t1", client.ID)

	inv, err := svc.CreateInvoice(context.Background(), "t1", InvoiceInput{
		ProjectID:   project.ID,
		Number:      "INV-0001",
		AmountCents: 250_000,
		Currency:    "eur",
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if inv.Status != InvoiceDraft {
		t.Fatalf("new invoices must be drafts, got %s", inv.Status)
	}
	if inv.Currency != "EUR" {
		t.Fatalf("currency not normalized: %s", inv.Currency)
	}

	// Skipping a step is refused.
	if _, err := svc.AdvanceInvoice(context.Background(), "t1", inv.ID, InvoicePaid); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}

	if _, err := svc.AdvanceInvoice(context.Background(), "t1", inv.ID, InvoiceSent); err != nil {
		t.Fatalf("draft -> sent: %v", err)
	}
	got, err := svc.AdvanceInvoice(context.Background(), "t1", inv.ID, InvoicePaid)
	if err != nil {
		t.Fatalf("sent -> paid: %v", err)
	}
	if got.Status != InvoicePaid {
		t.Fatalf("unexpected status: %s", got.Status)
	}

	// Paid is terminal.
	if _, err := svc.AdvanceInvoice(context.Background(), "t1", inv.ID, InvoiceSent); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from paid, got %v", err)
	}
}

func TestAdvanceInvoiceCrossTenantIsNotFound(t *testing.T) {
	svc := NewService(newMemStore())
	client := seedClient(t, svc, "t1", "Acme Holdings")
	project := seedProject(t, svc, "t1", client.ID)
	inv, err := svc.CreateInvoice(context.Background(), "t1", InvoiceInput{
		ProjectID:   project.ID,
		Number:      "INV-0002",
		AmountCents: 1000,
		Currency:    "EUR",
	})
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	if _, err := svc.AdvanceInvoice(context.Background(), "t2", inv.ID, InvoiceSent); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEmptyTenantBehavesAsNotFound(t *testing.T) {
	svc := NewService(newMemStore())
	if _, err := svc.ListClients(context.Background(), ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty tenant, got %v", err)
	}
}
