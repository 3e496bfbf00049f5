package api

import (
	"net/http"
)

// GridHandler serves daily grids.
type GridHandler struct {
	deps Dependencies
}

// NewGridHandler creates a new grid handler.
func NewGridHandler(deps Dependencies) *GridHandler {
	return &GridHandler{deps: deps}
}

// HandleDaily handles GET /api/grid/daily?date=YYYY-MM-DD&league=.
func (h *GridHandler) HandleDaily(w http.ResponseWriter, r *http.Request) {
	const op = "api.grid_daily"
	league, err := leagueParam(op, r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	res, err := h.deps.DailyGrid(r.Context(), r.URL.Query().Get("date"), league)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeData(w, http.StatusOK, res)
}

// HandleAnalyze handles GET /api/grid/analyze?date=YYYY-MM-DD&league=.
func (h *GridHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "api.grid_analyze"
	league, err := leagueParam(op, r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	a, err := h.deps.AnalyzeGrid(r.Context(), r.URL.Query().Get("date"), league)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeData(w, http.StatusOK, a)
}
