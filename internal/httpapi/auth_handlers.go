package httpapi

import (
	"errors"
	"net/http"
	"time"

	"sitewise.dev/internal/audit"
	"sitewise.dev/internal/auth"
	"sitewise.dev/internal/obs"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	CompanyName string `json:"company_name"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	TenantID  string    `json:"tenant_id"`
}

func sessionPayload(s auth.Session) sessionResponse {
	return sessionResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		Username:  s.Principal.Username,
		Role:      string(s.Principal.Role),
		TenantID:  s.Principal.TenantID,
	}
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	session, err := a.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			obs.CountLogin("rejected")
			// One message for unknown username and wrong password.
			_ = audit.LogEvent(r.Context(), "auth.login.rejected", nil)
			writeError(w, r, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	obs.CountLogin("ok")
	_ = audit.LogEvent(r.Context(), "auth.login.ok", map[string]any{
		"user_id":   session.Principal.UserID,
		"tenant_id": session.Principal.TenantID,
	})
	writeJSON(w, http.StatusOK, sessionPayload(session))
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	session, err := a.auth.Register(r.Context(), auth.Registration{
		CompanyName: req.CompanyName,
		FullName:    req.FullName,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAlreadyExists):
			writeError(w, r, http.StatusConflict, "company or email already registered")
		case errors.Is(err, auth.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, err.Error())
		default:
			writeError(w, r, http.StatusInternalServerError, "internal error")
		}
		return
	}

	_ = audit.LogEvent(r.Context(), "auth.tenant.registered", map[string]any{
		"user_id":   session.Principal.UserID,
		"tenant_id": session.Principal.TenantID,
	})
	writeJSON(w, http.StatusOK, sessionPayload(session))
}
