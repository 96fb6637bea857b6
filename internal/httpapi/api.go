// Package httpapi is the HTTP surface of sitewise-api. Route wiring decides
// the authentication capability per route: everything mounted inside the
// protected group passes the credential validator first, everything outside
// it is explicitly anonymous.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sitewise.dev/internal/auth"
	"sitewise.dev/internal/obs"
	"sitewise.dev/internal/projects"
)

// Pinger is the readiness dependency, usually the database pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options tunes transport-level behavior.
type Options struct {
	Version           string
	Ready             Pinger
	AuthRateBurst     int
	AuthRatePerSecond int
	MaxBodyBytes      int64
}

// API is the HTTP layer.
type API struct {
	router  chi.Router
	auth    *auth.Service
	domain  *projects.Service
	ready   Pinger
	version string
}

// New wires all routes and middleware.
func New(authSvc *auth.Service, domainSvc *projects.Service, opts Options) *API {
	if opts.AuthRateBurst <= 0 {
		opts.AuthRateBurst = 10
	}
	if opts.AuthRatePerSecond <= 0 {
		opts.AuthRatePerSecond = 5
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}

	a := &API{
		router:  chi.NewRouter(),
		auth:    authSvc,
		domain:  domainSvc,
		ready:   opts.Ready,
		version: opts.Version,
	}

	r := a.router
	r.Use(RequestID)
	r.Use(Logging)
	r.Use(SecurityHeaders)
	r.Use(MaxBodyBytes(opts.MaxBodyBytes))

	// Anonymous surface. Nothing here constructs a principal.
	r.Get("/healthz", a.handleHealthz)
	r.Get("/readyz", a.handleReadyz)
	r.Get("/v1/info", a.handleInfo)
	r.Method(http.MethodGet, "/metrics", obs.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Use(RateLimit(opts.AuthRateBurst, opts.AuthRatePerSecond))
		r.Post("/login", a.handleLogin)
		r.Post("/register", a.handleRegister)
	})

	// Everything below requires a verified principal.
	r.Route("/v1", func(r chi.Router) {
		r.Use(a.withAuth)

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", a.listClients)
			r.Post("/", a.createClient)
			r.Get("/{id}", a.getClient)
			r.Put("/{id}", a.updateClient)
			r.Delete("/{id}", a.deleteClient)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", a.listProjects)
			r.Post("/", a.createProject)
			r.Get("/{id}", a.getProject)
			r.Put("/{id}", a.updateProject)
			r.Delete("/{id}", a.deleteProject)
			r.Get("/{id}/tasks", a.listTasks)
			r.Post("/{id}/tasks", a.createTask)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Put("/{id}", a.updateTask)
			r.Delete("/{id}", a.deleteTask)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", a.listInvoices)
			r.Post("/", a.createInvoice)
			r.Get("/{id}", a.getInvoice)
			r.With(RequireRole(auth.RoleAdmin, auth.RoleAccountant)).
				Put("/{id}/status", a.advanceInvoice)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", a.listUsers)
			r.With(RequireRole(auth.RoleAdmin)).Delete("/{id}", a.deleteUser)
		})
	})

	return a
}

// Handler returns the root handler wrapped with metrics instrumentation.
func (a *API) Handler() http.Handler {
	return obs.Instrument(a.router)
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "sitewise-api",
		"version": a.version,
	})
}

func (a *API) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if a.ready != nil {
		if err := a.ready.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "not_ready",
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "sitewise-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// principal returns the request principal. It only fails if a handler was
// mounted outside the protected group by mistake; in that case the request
// is refused rather than served unscoped.
func principal(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok || p.TenantID == "" {
		unauthorized(w, r)
		return auth.Principal{}, false
	}
	return p, true
}
