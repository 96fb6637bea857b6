package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"sitewise.dev/internal/auth"
	"sitewise.dev/internal/obs"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// withAuth is the single dispatch point for credential validation. Routes
// mounted behind it require a verified principal; routes mounted outside it
// (login, register, health, metrics) never see this code and never get a
// principal. Validation is all-or-nothing and the rejection is uniform: a
// missing header, a forged signature and an expired token all answer 401
// with the same body.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			obs.CountTokenRejection("missing")
			unauthorized(w, r)
			return
		}

		principal, err := a.auth.Verify(token)
		if err != nil {
			// The error detail stays server-side; logging the token
			// itself is forbidden.
			obs.CountTokenRejection("invalid")
			unauthorized(w, r)
			return
		}

		ctx := auth.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="sitewise"`)
	writeError(w, r, http.StatusUnauthorized, "authentication required")
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if len(header) < len(bearer) || !strings.EqualFold(header[:len(bearer)], bearer) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
