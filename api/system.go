package api

import (
	"context"
	"net/http"
	"time"
)

// Readiness is implemented by health.Service.
type Readiness interface {
	Ready(ctx context.Context) error
}

type SystemHandler struct {
	readiness Readiness
}

func NewSystemHandler(r Readiness) *SystemHandler {
	return &SystemHandler{readiness: r}
}

func (h *SystemHandler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "jobtracker"})
}

func (h *SystemHandler) VersionHandler(version, buildTime string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": version, "buildTime": buildTime})
	}
}

// ReadyHandler answers 503 while any dependency check fails.
func (h *SystemHandler) ReadyHandler(w http.ResponseWriter, r *http.Request) {
	if h.readiness != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.readiness.Ready(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":  "not_ready",
				"details": err.Error(),
			})
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
