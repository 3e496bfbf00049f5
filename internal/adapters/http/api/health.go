package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/momentgrid/pkg/metrics"
)

// HealthHandler handles liveness and metrics requests.
type HealthHandler struct {
	deps Dependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HandleMetrics handles GET /healthz by serving the Prometheus registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

type healthResponse struct {
	Status         string `json:"status"`
	CatalogLoaded  bool   `json:"catalogLoaded"`
	CatalogVersion string `json:"catalogVersion,omitempty"`
}

// HandleHealth handles GET /api/health.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	st := h.deps.Stats()
	status := "ok"
	if !st.Loaded {
		status = "degraded"
	}
	writeData(w, http.StatusOK, healthResponse{Status: status, CatalogLoaded: st.Loaded, CatalogVersion: st.Version})
}
