package main

import (
	"net/http"
	"time"
)

// GET /api/health: liveness plus a database ping. Degraded still answers,
// with a 503 so load balancers can rotate the instance out.
func (a *api) handleHealth(w http.ResponseWriter, r *http.Request) {
	code, status := healthStatus(a.store.Ping(r.Context()))
	writeJSON(w, code, map[string]any{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func healthStatus(pingErr error) (int, string) {
	if pingErr != nil {
		return http.StatusServiceUnavailable, "degraded"
	}
	return http.StatusOK, "ok"
}
