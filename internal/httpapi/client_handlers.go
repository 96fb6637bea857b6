package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sitewise.dev/internal/projects"
)

// clientRequest deliberately has no tenant field; the tenant always comes
// from the principal.
type clientRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (req clientRequest) input() projects.ClientInput {
	return projects.ClientInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
}

func (a *API) listClients(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	items, err := a.domain.ListClients(r.Context(), p.TenantID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) createClient(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req clientRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	client, err := a.domain.CreateClient(r.Context(), p.TenantID, req.input())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

func (a *API) getClient(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	client, err := a.domain.GetClient(r.Context(), p.TenantID, chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (a *API) updateClient(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req clientRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	client, err := a.domain.UpdateClient(r.Context(), p.TenantID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (a *API) deleteClient(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	if err := a.domain.DeleteClient(r.Context(), p.TenantID, chi.URLParam(r, "id")); err != nil {
		handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
