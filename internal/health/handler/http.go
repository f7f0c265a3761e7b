// Package handler serves the liveness/readiness endpoint.
package handler

import (
	"context"
	"net/http"

	"messenger/backend/internal/httputil"
)

// Pinger reports backing-store reachability (e.g. *sql.DB). Nil means the
// server runs on in-memory stores and is ready whenever it is up.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	pinger Pinger
}

func NewHandler(pinger Pinger) *Handler {
	return &Handler{pinger: pinger}
}

// Healthz handles GET /healthz for Kubernetes probes and load balancers.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.WriteError(w, http.StatusMethodNotAllowed, httputil.CodeMethodNotAllowed)
		return
	}
	if h.pinger != nil {
		if err := h.pinger.PingContext(r.Context()); err != nil {
			httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
