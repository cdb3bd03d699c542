package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"crowdguard/backend/internal/audit"
)

// Audit returns middleware that records one audit event for every authenticated
// mutating request. Read-only requests are not audited.
func Audit(logger audit.AuditLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				return
			}
			userID, ok := GetUserID(r.Context())
			if !ok {
				return
			}

			route := r.URL.Path
			orgID := ""
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
				orgID = rctx.URLParam("orgId")
			}

			logger.LogEvent(r.Context(), orgID, userID,
				strings.ToLower(r.Method), route,
				audit.ClientIP(r),
				fmt.Sprintf(`{"status":%d}`, sw.status))
		})
	}
}
