package api

import (
	"net/http"
)

// CacheHandler exposes cache administration.
type CacheHandler struct {
	deps Dependencies
}

// NewCacheHandler creates a new cache handler.
func NewCacheHandler(deps Dependencies) *CacheHandler {
	return &CacheHandler{deps: deps}
}

// HandleStats handles GET /api/cache/stats.
func (h *CacheHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, h.deps.CacheStats())
}

type clearResponse struct {
	Cleared bool `json:"cleared"`
}

// HandleClear handles POST /api/cache/clear.
func (h *CacheHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	h.deps.ClearCache(r.Context())
	writeData(w, http.StatusOK, clearResponse{Cleared: true})
}
