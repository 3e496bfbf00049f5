package model

import "strings"

// AxisSize is the number of labels on each grid axis.
const AxisSize = 3

// Grid is 3 row labels by 3 column labels.
type Grid struct {
	Rows [AxisSize]CategoryLabel `json:"rows"`
	Cols [AxisSize]CategoryLabel `json:"cols"`
}

// Cell is one (row, column) pair of a grid.
type Cell struct {
	Row CategoryLabel `json:"row"`
	Col CategoryLabel `json:"col"`
}

// Cells returns the nine cells in row-major order.
func (g Grid) Cells() []Cell {
	cells := make([]Cell, 0, AxisSize*AxisSize)
	for _, r := range g.Rows {
		for _, c := range g.Cols {
			cells = append(cells, Cell{Row: r, Col: c})
		}
	}
	return cells
}

// AxesDistinct reports whether no two rows and no two columns conflict.
func (g Grid) AxesDistinct() bool {
	return axisDistinct(g.Rows) && axisDistinct(g.Cols)
}

// SharesAcrossAxes reports whether some row label also appears as a column label.
func (g Grid) SharesAcrossAxes() bool {
	for _, r := range g.Rows {
		for _, c := range g.Cols {
			if r.ConflictsWith(c) {
				return true
			}
		}
	}
	return false
}

// Key renders the grid as a stable string.
func (g Grid) Key() string {
	var b strings.Builder
	for i, l := range g.Rows {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(l.String())
	}
	b.WriteString("||")
	for i, l := range g.Cols {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(l.String())
	}
	return b.String()
}

func axisDistinct(axis [AxisSize]CategoryLabel) bool {
	for i := 0; i < len(axis); i++ {
		for j := i + 1; j < len(axis); j++ {
			if axis[i].ConflictsWith(axis[j]) {
				return false
			}
		}
	}
	return true
}

// GridSource records how a grid was produced.
type GridSource string

// Grid sources. GridSourceLastResort grids are degraded.
const (
	GridSourceSearch     GridSource = "search"
	GridSourceTeamTeam   GridSource = "team_team"
	GridSourceTeamSeason GridSource = "team_season"
	GridSourceTeamTier   GridSource = "team_tier"
	GridSourceLastResort GridSource = "last_resort"
)

// GridResult is a generated grid with its provenance.
type GridResult struct {
	Date            string     `json:"date"`
	League          League     `json:"league"`
	Seed            uint32     `json:"seed"`
	Grid            Grid       `json:"grid"`
	Score           int        `json:"score"`
	Source          GridSource `json:"source"`
	ValidCandidates int        `json:"validCandidates"`
	Attempts        int        `json:"attempts"`
	Degraded        bool       `json:"degraded"`
	Warning         string     `json:"warning,omitempty"`
	CatalogVersion  string     `json:"catalogVersion,omitempty"`
}

// TeamCount is a team with its distinct player count.
type TeamCount struct {
	Team    string `json:"team"`
	Players int    `json:"players"`
}
