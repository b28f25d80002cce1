package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Pinger is the readiness check dependency (e.g. *sql.DB).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handler serves readiness for Kubernetes, load balancers, and CI.
type Handler struct {
	pinger Pinger
}

// NewHandler returns a health handler. pinger may be nil; then the DB ping is skipped.
func NewHandler(pinger Pinger) *Handler {
	return &Handler{pinger: pinger}
}

type healthResponse struct {
	Status string `json:"status"`
}

// ServeHTTP reports 200 when the database answers a ping, 503 otherwise.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.PingContext(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
	}
	writeStatus(w, http.StatusOK, "ok")
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(healthResponse{Status: status})
}
