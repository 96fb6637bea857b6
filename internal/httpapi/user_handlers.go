package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sitewise.dev/internal/audit"
	"sitewise.dev/internal/auth"
)

// userPayload is the wire shape for a user record. Password hashes never
// leave the auth package boundary.
type userPayload struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	FullName  string    `json:"full_name"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *API) listUsers(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	users, err := a.auth.Users(r.Context(), p.TenantID)
	if err != nil {
		handleDomainError(w, r, err)
		return
	}
	items := make([]userPayload, 0, len(users))
	for _, u := range users {
		items = append(items, userPayload{
			ID:        u.ID,
			Username:  u.Username,
			FullName:  u.FullName,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) deleteUser(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if id == p.UserID {
		writeError(w, r, http.StatusBadRequest, "cannot delete own account")
		return
	}
	if err := a.auth.RemoveUser(r.Context(), p.TenantID, id); err != nil {
		handleDomainError(w, r, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "auth.user.removed", map[string]any{"removed_user_id": id})
	w.WriteHeader(http.StatusNoContent)
}
