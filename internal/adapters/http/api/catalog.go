package api

import (
	"net/http"
	"strings"

	"github.com/okian/momentgrid/internal/domain/model"
)

// CatalogHandler serves catalog listings and reloads.
type CatalogHandler struct {
	deps Dependencies
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(deps Dependencies) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// HandleCategories handles GET /api/categories?league=.
func (h *CatalogHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	league, err := leagueParam("api.categories", r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeData(w, http.StatusOK, h.deps.Categories(league))
}

type playersResponse struct {
	League  string   `json:"league"`
	Count   int      `json:"count"`
	Players []string `json:"players"`
}

// HandlePlayers handles GET /api/players?league=.
func (h *CatalogHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	league, err := leagueParam("api.players", r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	players := h.deps.Players(league)
	writeData(w, http.StatusOK, playersResponse{League: league.String(), Count: len(players), Players: players})
}

type momentsResponse struct {
	League  string         `json:"league"`
	Player  string         `json:"player,omitempty"`
	Count   int            `json:"count"`
	Moments []model.Moment `json:"moments"`
}

// HandlePlayerMoments handles GET /api/players/{name}/moments?league=.
func (h *CatalogHandler) HandlePlayerMoments(w http.ResponseWriter, r *http.Request) {
	const op = "api.player_moments"
	league, err := leagueParam(op, r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	name := strings.TrimSpace(r.PathValue("name"))
	if name == "" {
		writeFailure(w, wrapKind(op, ErrBadRequest, nil))
		return
	}
	moments := h.deps.PlayerMoments(name, league)
	if moments == nil {
		moments = []model.Moment{}
	}
	writeData(w, http.StatusOK, momentsResponse{League: league.String(), Player: name, Count: len(moments), Moments: moments})
}

// HandleMoments handles GET /api/moments?league=.
func (h *CatalogHandler) HandleMoments(w http.ResponseWriter, r *http.Request) {
	league, err := leagueParam("api.moments", r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	moments := h.deps.Moments(league)
	if moments == nil {
		moments = []model.Moment{}
	}
	writeData(w, http.StatusOK, momentsResponse{League: league.String(), Count: len(moments), Moments: moments})
}

// HandleStats handles GET /api/stats.
func (h *CatalogHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	writeData(w, http.StatusOK, h.deps.Stats())
}

// HandleReload handles POST /api/catalog/reload.
func (h *CatalogHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	report, err := h.deps.ReloadCatalog(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeData(w, http.StatusOK, report)
}
