// Package health serves the liveness/readiness probe.
package health

import (
	"context"
	"net/http"
	"time"

	"crowdguard/backend/internal/platform/httpx"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	db Pinger
}

func New(db Pinger) *Handler {
	return &Handler{db: db}
}

// Check handles GET /health. The service is UP only while the database answers.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "DOWN"})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}
