package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/planoraa/planoraa-api/openapi"
	"github.com/planoraa/planoraa-api/pkg/api"
)

const healthPingTimeout = 2 * time.Second

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running and the
// store answers a ping, and 503 with {"status":"unavailable"} otherwise.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			slog.WarnContext(ctx, "health: store ping failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, api.HealthResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
}

// GetOpenAPI handles GET /openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openapi.Document)
}
