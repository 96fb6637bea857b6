package projects

import "time"

// Client is a customer of a tenant's construction business.
type Client struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"-"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectStatus tracks a project through its lifecycle.
type ProjectStatus string

const (
	ProjectPlanned   ProjectStatus = "planned"
	ProjectActive    ProjectStatus = "active"
	ProjectOnHold    ProjectStatus = "on_hold"
	ProjectCompleted ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectPlanned, ProjectActive, ProjectOnHold, ProjectCompleted:
		return true
	}
	return false
}

// Project is a construction project executed for a client at a site.
type Project struct {
	ID          string        `json:"id"`
	TenantID    string        `json:"-"`
	ClientID    string        `json:"client_id"`
	Name        string        `json:"name"`
	Site        string        `json:"site,omitempty"`
	Status      ProjectStatus `json:"status"`
	BudgetCents int64         `json:"budget_cents"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// TaskStatus tracks a single work item.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// Task is a work item within a project, optionally assigned to a user.
type Task struct {
	ID         string     `json:"id"`
	TenantID   string     `json:"-"`
	ProjectID  string     `json:"project_id"`
	Name       string     `json:"name"`
	Status     TaskStatus `json:"status"`
	AssigneeID string     `json:"assignee_id,omitempty"`
	DueOn      *time.Time `json:"due_on,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// InvoiceStatus moves strictly forward: draft -> sent -> paid.
type InvoiceStatus string

const (
	InvoiceDraft InvoiceStatus = "draft"
	InvoiceSent  InvoiceStatus = "sent"
	InvoicePaid  InvoiceStatus = "paid"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceDraft, InvoiceSent, InvoicePaid:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may advance to next.
func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	switch s {
	case InvoiceDraft:
		return next == InvoiceSent
	case InvoiceSent:
		return next == InvoicePaid
	}
	return false
}

// Invoice bills a client for work on a project.
type Invoice struct {
	ID          string        `json:"id"`
	TenantID    string        `json:"-"`
	ProjectID   string        `json:"project_id"`
	Number      string        `json:"number"`
	AmountCents int64         `json:"amount_cents"`
	Currency    string        `json:"currency"`
	Status      InvoiceStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}
