// Package server assembles the HTTP router: middleware, public token
// endpoints, and Bearer-protected enrollment endpoints.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/metric"

	enrollmenthandler "authgate/internal/enrollment/handler"
	enrollmentservice "authgate/internal/enrollment/service"
	healthhandler "authgate/internal/health/handler"
	identityhandler "authgate/internal/identity/handler"
	identityservice "authgate/internal/identity/service"
	"authgate/internal/security"
	"authgate/internal/server/middleware"
)

// Deps holds the service dependencies for the HTTP handlers.
type Deps struct {
	// Auth is the auth service for token, refresh, step-up, and logout endpoints.
	Auth *identityservice.AuthService
	// Enrollment is the phone enrollment service for the protected 2FA endpoints.
	Enrollment *enrollmentservice.Service
	// Tokens validates Bearer access tokens for protected routes.
	Tokens *security.TokenProvider
	// HealthPinger is used for readiness (e.g. *sql.DB). If nil, healthz skips the DB ping.
	HealthPinger healthhandler.Pinger
	// Meter records request metrics. May be nil.
	Meter metric.Meter
}

// New returns the assembled HTTP handler.
//
// Route → handler mapping:
//   - /api/token, /api/token/refresh, /api/2fa/token-verify, /api/logout → internal/identity/handler
//   - /api/2fa/phone-verify, /api/2fa/phone-register (Bearer)            → internal/enrollment/handler
//   - /healthz                                                           → internal/health/handler
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.ResolveClientIP)
	r.Use(middleware.RequestMetrics(deps.Meter))
	r.Use(middleware.OptionalAuth(deps.Tokens))

	r.Method(http.MethodGet, "/healthz", healthhandler.NewHandler(deps.HealthPinger))

	identityhandler.NewHandler(deps.Auth).MountPublic(r)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth(deps.Tokens))
		enrollmenthandler.NewHandler(deps.Enrollment).MountProtected(pr)
	})

	return r
}
