package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/momentgrid/internal/domain/model"
)

const maxBodyBytes = 1 << 16

// validateRequest is the body of POST /api/validate.
type validateRequest struct {
	Player string `json:"player"`
	Row    string `json:"row"`
	Col    string `json:"col"`
	League string `json:"league"`
}

func (v validateRequest) validate() error {
	switch {
	case strings.TrimSpace(v.Player) == "":
		return errors.New("missing player")
	case strings.TrimSpace(v.Row) == "":
		return errors.New("missing row")
	case strings.TrimSpace(v.Col) == "":
		return errors.New("missing col")
	}
	return nil
}

// AnswerHandler validates answers and serves hints.
type AnswerHandler struct {
	deps Dependencies
}

// NewAnswerHandler creates a new answer handler.
func NewAnswerHandler(deps Dependencies) *AnswerHandler {
	return &AnswerHandler{deps: deps}
}

// HandleValidate handles POST /api/validate.
func (h *AnswerHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	const op = "api.validate"
	var req validateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeFailure(w, wrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeFailure(w, wrapKind(op, ErrBadRequest, err))
		return
	}
	league, ok := model.ParseLeague(req.League)
	if !ok {
		writeFailure(w, wrapKind(op, ErrBadLeague, errors.New(req.League)))
		return
	}
	row, err := labelParam(op, "row", req.Row, h.deps)
	if err != nil {
		writeFailure(w, err)
		return
	}
	col, err := labelParam(op, "col", req.Col, h.deps)
	if err != nil {
		writeFailure(w, err)
		return
	}
	v, err := h.deps.Validate(r.Context(), req.Player, row, col, league)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

type hintResponse struct {
	Row     model.CategoryLabel `json:"row"`
	Col     model.CategoryLabel `json:"col"`
	League  string              `json:"league"`
	Count   int                 `json:"count"`
	Players []string            `json:"players"`
}

// HandleHint handles GET /api/hint?row=&col=&league=.
func (h *AnswerHandler) HandleHint(w http.ResponseWriter, r *http.Request) {
	const op = "api.hint"
	league, err := leagueParam(op, r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	q := r.URL.Query()
	row, err := labelParam(op, "row", q.Get("row"), h.deps)
	if err != nil {
		writeFailure(w, err)
		return
	}
	col, err := labelParam(op, "col", q.Get("col"), h.deps)
	if err != nil {
		writeFailure(w, err)
		return
	}
	players, err := h.deps.Hint(r.Context(), row, col, league)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeData(w, http.StatusOK, hintResponse{Row: row, Col: col, League: league.String(), Count: len(players), Players: players})
}
