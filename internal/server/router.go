// Package server wires handlers and middleware into the HTTP API router.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	otelmetric "go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	alerthandler "crowdguard/backend/internal/alert/handler"
	"crowdguard/backend/internal/audit"
	audithandler "crowdguard/backend/internal/audit/handler"
	dashboardhandler "crowdguard/backend/internal/dashboard/handler"
	"crowdguard/backend/internal/health"
	identityhandler "crowdguard/backend/internal/identity/handler"
	invitationhandler "crowdguard/backend/internal/invitation/handler"
	membershiphandler "crowdguard/backend/internal/membership/handler"
	organizationhandler "crowdguard/backend/internal/organization/handler"
	"crowdguard/backend/internal/platform/httpx"
	quicklinkhandler "crowdguard/backend/internal/quicklink/handler"
	"crowdguard/backend/internal/server/middleware"
	userhandler "crowdguard/backend/internal/user/handler"
)

// Deps holds everything the router needs. All fields are required except
// AuditLogger, TracerProvider and MeterProvider, which may be nil to disable
// the corresponding middleware.
type Deps struct {
	Logger *zap.Logger

	Health        *health.Handler
	Identity      *identityhandler.Handler
	Users         *userhandler.Handler
	Organizations *organizationhandler.Handler
	Memberships   *membershiphandler.Handler
	Invitations   *invitationhandler.Handler
	Alerts        *alerthandler.Handler
	QuickLinks    *quicklinkhandler.Handler
	Dashboard     *dashboardhandler.Handler
	AuditLogs     *audithandler.Handler

	Tokens   middleware.TokenValidator
	Resolver middleware.IdentityResolver

	AuditLogger    audit.AuditLogger
	TracerProvider oteltrace.TracerProvider
	MeterProvider  otelmetric.MeterProvider

	CORSOrigins []string
}

// NewRouter builds the full API router. Routes under /api (except /api/auth)
// require a valid bearer token.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if d.TracerProvider != nil && d.MeterProvider != nil {
		r.Use(middleware.Telemetry(d.TracerProvider, d.MeterProvider))
	}
	if d.Logger != nil {
		r.Use(middleware.Logging(d.Logger))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", d.Health.Check)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", d.Identity.Signup)
			r.Post("/login", d.Identity.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(d.Tokens, d.Resolver))
			if d.AuditLogger != nil {
				r.Use(middleware.Audit(d.AuditLogger))
			}

			r.Route("/orgs", func(r chi.Router) {
				r.Post("/", d.Organizations.Create)
				r.Get("/", d.Organizations.ListMine)

				r.Route("/{orgId}", func(r chi.Router) {
					r.Get("/", d.Organizations.GetDetails)
					r.Get("/dashboard", d.Dashboard.Overview)
					r.Post("/invite", d.Invitations.Invite)
					r.Get("/audit-logs", d.AuditLogs.List)

					r.Post("/members", d.Memberships.AddMember)
					r.Put("/members/{userId}", d.Memberships.UpdateRole)
					r.Delete("/members/{userId}", d.Memberships.RemoveMember)

					r.Get("/alerts", d.Alerts.List)
					r.Post("/alerts", d.Alerts.Create)

					r.Get("/quick-links", d.QuickLinks.List)
					r.Post("/quick-links", d.QuickLinks.Add)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/all", d.Users.ListAll)
				r.Get("/me", d.Users.GetMe)
				r.Put("/me", d.Users.UpdateMe)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.Error(w, http.StatusNotFound, "Not found")
	})

	return r
}
