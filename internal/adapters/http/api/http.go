// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/momentgrid/internal/adapters/cache"
	"github.com/okian/momentgrid/internal/adapters/repository"
	service "github.com/okian/momentgrid/internal/app"
	"github.com/okian/momentgrid/internal/domain/grid"
	"github.com/okian/momentgrid/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	DailyGrid(ctx context.Context, date string, league model.League) (model.GridResult, error)
	AnalyzeGrid(ctx context.Context, date string, league model.League) (service.GridAnalysis, error)
	Validate(ctx context.Context, player string, row, col model.CategoryLabel, league model.League) (service.Validation, error)
	Hint(ctx context.Context, row, col model.CategoryLabel, league model.League) ([]string, error)
	ResolveLabel(raw string) (model.CategoryLabel, error)

	Categories(league model.League) service.Categories
	Players(league model.League) []string
	PlayerMoments(player string, league model.League) []model.Moment
	Moments(league model.League) []model.Moment
	Stats() service.CatalogStats

	CacheStats() []cache.Stats
	ClearCache(ctx context.Context)
	ReloadCatalog(ctx context.Context) (repository.LoadReport, error)
}

var _ Dependencies = (*service.Service)(nil)

// Server wires HTTP routes for the grid API.
type Server struct {
	healthHandler  *HealthHandler
	gridHandler    *GridHandler
	answerHandler  *AnswerHandler
	catalogHandler *CatalogHandler
	cacheHandler   *CacheHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(deps),
		gridHandler:    NewGridHandler(deps),
		answerHandler:  NewAnswerHandler(deps),
		catalogHandler: NewCatalogHandler(deps),
		cacheHandler:   NewCacheHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}
	route("GET /healthz", "healthz", s.healthHandler.HandleMetrics)
	route("GET /api/health", "health", s.healthHandler.HandleHealth)

	route("GET /api/grid/daily", "grid_daily", s.gridHandler.HandleDaily)
	route("GET /api/grid/analyze", "grid_analyze", s.gridHandler.HandleAnalyze)

	route("POST /api/validate", "validate", s.answerHandler.HandleValidate)
	route("GET /api/hint", "hint", s.answerHandler.HandleHint)

	route("GET /api/categories", "categories", s.catalogHandler.HandleCategories)
	route("GET /api/players", "players", s.catalogHandler.HandlePlayers)
	route("GET /api/players/{name}/moments", "player_moments", s.catalogHandler.HandlePlayerMoments)
	route("GET /api/moments", "moments", s.catalogHandler.HandleMoments)
	route("GET /api/stats", "stats", s.catalogHandler.HandleStats)
	route("POST /api/catalog/reload", "catalog_reload", s.catalogHandler.HandleReload)

	route("GET /api/cache/stats", "cache_stats", s.cacheHandler.HandleStats)
	route("POST /api/cache/clear", "cache_clear", s.cacheHandler.HandleClear)
}

// envelope is the body of every /api response.
type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, envelope{Error: &errorBody{Code: code, Message: msg}})
}

// writeFailure maps upstream errors onto status codes.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrBadDate):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, ErrBadLabel), errors.Is(err, model.ErrBadLabel), errors.Is(err, service.ErrUnknownLabel):
		writeError(w, http.StatusBadRequest, "bad_label", err)
	case errors.Is(err, ErrBadLeague):
		writeError(w, http.StatusBadRequest, "bad_league", err)
	case errors.Is(err, repository.ErrNoCatalog):
		writeError(w, http.StatusServiceUnavailable, "catalog_unavailable", err)
	case errors.Is(err, grid.ErrNoTeams):
		writeError(w, http.StatusNotFound, "no_teams", err)
	case errors.Is(err, service.ErrNoSource):
		writeError(w, http.StatusConflict, "no_source", err)
	case errors.Is(err, repository.ErrCatalogLoad):
		writeError(w, http.StatusUnprocessableEntity, "catalog_load_failed", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "cancelled", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

func leagueParam(op string, r *http.Request) (model.League, error) {
	raw := r.URL.Query().Get("league")
	league, ok := model.ParseLeague(raw)
	if !ok {
		return model.LeagueAll, wrapKind(op, ErrBadLeague, errors.New(strings.TrimSpace(raw)))
	}
	return league, nil
}

// labelParam resolves a required label given as "type:value" or a bare value.
func labelParam(op, name, raw string, deps Dependencies) (model.CategoryLabel, error) {
	if strings.TrimSpace(raw) == "" {
		return model.CategoryLabel{}, wrapKind(op, ErrBadLabel, errors.New("missing "+name))
	}
	label, err := deps.ResolveLabel(raw)
	if err != nil {
		return model.CategoryLabel{}, wrapKind(op, ErrBadLabel, err)
	}
	return label, nil
}
