package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sitewise.dev/internal/projects"
)

type projectRequest struct {
	ClientID    string `json:"client_id"`
	Name        string `json:"name"`
	Site        string `json:"site"`
	Status      string `json:"status"`
	BudgetCents int64  `json:"budget_cents"`
}

func (req projectRequest) input() projects.ProjectInput {
	return projects.ProjectInput{
		ClientID:    req.ClientID,
		Name:        req.Name,
		Site:        req.Site,
		Status:      projects.ProjectStatus(req.Status),
		BudgetCents: req.BudgetCents,
	}
}

type taskRequest struct {
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	AssigneeID string     `json:"assignee_id"`
	DueOn      *time.Time `json:"due_on"`
}

func (req taskRequest) input() projects.TaskInput {
	return projects.TaskInput{
		Name:       req.Name,
		Status:     projects.TaskStatus(req.Status),
		AssigneeID: req.AssigneeID,
		DueOn:      req.DueOn,
	}
}

func (a *API) listProjects(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	items, err := a.domain.ListProjects(r.Context(), p.TenantID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) createProject(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	project, err := a.domain.CreateProject(r.Context(), p.TenantID, req.input())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (a *API) getProject(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	project, err := a.domain.GetProject(r.Context(), p.TenantID, chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (a *API) updateProject(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req projectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	project, err := a.domain.UpdateProject(r.Context(), p.TenantID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (a *API) deleteProject(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if err := a.domain.DeleteProject(r.Context(), p.TenantID, chi.URLParam(r, "id")); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) listTasks(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	items, err := a.domain.ListTasks(r.Context(), p.TenantID, chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) createTask(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	task, err := a.domain.CreateTask(r.Context(), p.TenantID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (a *API) updateTask(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req taskRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	task, err := a.domain.UpdateTask(r.Context(), p.TenantID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (a *API) deleteTask(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if err := a.domain.DeleteTask(r.Context(), p.TenantID, chi.URLParam(r, "id")); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
