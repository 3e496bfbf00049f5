// Package criteria decides whether moments and players satisfy category labels.
package criteria

import (
	"github.com/okian/momentgrid/internal/domain/model"
)

// Reason codes returned with a Verdict.
const (
	ReasonValid         = "valid"
	ReasonUnknownPlayer = "unknown_player"
	ReasonNoRowMatch    = "no_row_match"
	ReasonNoColMatch    = "no_col_match"
	ReasonNoMatch       = "no_match"
)

// Verdict is the outcome of checking a player against a cell.
type Verdict struct {
	Valid    bool   `json:"valid"`
	Reason   string `json:"reason"`
	RowMatch bool   `json:"rowMatch"`
	ColMatch bool   `json:"colMatch"`
}

// Matches reports whether the field selected by label.Type equals label.Value.
func Matches(m model.Moment, label model.CategoryLabel) bool {
	switch label.Type {
	case model.LabelTeam:
		return m.Team == label.Value
	case model.LabelTier:
		return string(m.Tier) == label.Value
	case model.LabelSeason:
		return m.Season == label.Value
	case model.LabelPlayType:
		return m.PlayType == label.Value
	default:
		return false
	}
}

// PlayerSatisfies reports whether any of moments matches label.
func PlayerSatisfies(moments []model.Moment, label model.CategoryLabel) bool {
	for i := range moments {
		if Matches(moments[i], label) {
			return true
		}
	}
	return false
}

// IsValidAnswer reports whether moments satisfy both labels, possibly through different moments.
func IsValidAnswer(moments []model.Moment, row, col model.CategoryLabel) bool {
	return PlayerSatisfies(moments, row) && PlayerSatisfies(moments, col)
}

// Evaluate checks moments against a cell and explains the outcome.
// An empty moment set means the player is unknown.
func Evaluate(moments []model.Moment, row, col model.CategoryLabel) Verdict {
	if len(moments) == 0 {
		return Verdict{Reason: ReasonUnknownPlayer}
	}
	v := Verdict{
		RowMatch: PlayerSatisfies(moments, row),
		ColMatch: PlayerSatisfies(moments, col),
	}
	switch {
	case v.RowMatch && v.ColMatch:
		v.Valid = true
		v.Reason = ReasonValid
	case v.RowMatch:
		v.Reason = ReasonNoColMatch
	case v.ColMatch:
		v.Reason = ReasonNoRowMatch
	default:
		v.Reason = ReasonNoMatch
	}
	return v
}
