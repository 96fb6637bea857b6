package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"sitewise.dev/internal/audit"
	"sitewise.dev/internal/projects"
)

type invoiceRequest struct {
	ProjectID   string `json:"project_id"`
	Number      string `json:"number"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
}

type invoiceStatusRequest struct {
	Status string `json:"status"`
}

func (a *API) listInvoices(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	items, err := a.domain.ListInvoices(r.Context(), p.TenantID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) createInvoice(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req invoiceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	invoice, err := a.domain.CreateInvoice(r.Context(), p.TenantID, projects.InvoiceInput{
		ProjectID:   req.ProjectID,
		Number:      req.Number,
		AmountCents: req.AmountCents,
		Currency:    req.Currency,
	})
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, invoice)
}

func (a *API) getInvoice(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	invoice, err := a.domain.GetInvoice(r.Context(), p.TenantID, chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

func (a *API) advanceInvoice(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	var req invoiceStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	invoice, err := a.domain.AdvanceInvoice(r.Context(), p.TenantID, id, projects.InvoiceStatus(req.Status))
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "invoice.status.advanced", map[string]any{
		"invoice_id": id,
		"status":     invoice.Status,
	})
	writeJSON(w, http.StatusOK, invoice)
}
