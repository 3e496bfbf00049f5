package grid

import (
	"fmt"

	"github.com/okian/momentgrid/internal/domain/model"
)

// Weights holds the answer-count targets and deviation penalties.
type Weights struct {
	MinAnswers   int
	IdealAnswers int
	MaxAnswers   int

	Empty      int // per cell without answers
	UnderMin   int // per missing answer below MinAnswers
	OverMax    int // per answer above MaxAnswers
	Infeasible int // per cell without answers, on top of Empty
}

// DefaultWeights returns the production scoring weights.
func DefaultWeights() Weights {
	return Weights{
		MinAnswers:   1,
		IdealAnswers: 6,
		MaxAnswers:   15,
		Empty:        1000,
		UnderMin:     20,
		OverMax:      2,
		Infeasible:   10000,
	}
}

// Validate checks 1 <= min <= ideal <= max and infeasible > empty > under-min > over-max >= 1.
func (w Weights) Validate() error {
	if w.MinAnswers < 1 || w.MinAnswers > w.IdealAnswers || w.IdealAnswers > w.MaxAnswers {
		return fmt.Errorf("answer targets out of order: %d, %d, %d", w.MinAnswers, w.IdealAnswers, w.MaxAnswers)
	}
	if w.OverMax < 1 || w.UnderMin <= w.OverMax || w.Empty <= w.UnderMin || w.Infeasible <= w.Empty {
		return fmt.Errorf("penalties out of order: %d, %d, %d, %d", w.Infeasible, w.Empty, w.UnderMin, w.OverMax)
	}
	return nil
}

// CellPenalty scores one cell count. Lower is better.
func (w Weights) CellPenalty(count int) int {
	switch {
	case count == 0:
		return w.Empty + w.Infeasible
	case count < w.MinAnswers:
		return w.UnderMin * (w.MinAnswers - count)
	case count > w.MaxAnswers:
		return w.OverMax * (count - w.MaxAnswers)
	default:
		return abs(count - w.IdealAnswers)
	}
}

// ScoreCounts sums the cell penalties and reports whether every cell has an answer.
func (w Weights) ScoreCounts(counts []int) (score int, feasible bool) {
	feasible = true
	for _, c := range counts {
		if c == 0 {
			feasible = false
		}
		score += w.CellPenalty(c)
	}
	return score, feasible
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Scorer evaluates grids against one league of a catalog.
type Scorer struct {
	catalog Catalog
	league  model.League
	weights Weights
}

// NewScorer binds a scorer to a catalog view.
func NewScorer(c Catalog, league model.League, w Weights) Scorer {
	return Scorer{catalog: c, league: league, weights: w}
}

// Counts returns the valid answer count of every cell in row-major order.
func (s Scorer) Counts(g model.Grid) []int {
	cells := g.Cells()
	counts := make([]int, len(cells))
	for i, cell := range cells {
		counts[i] = s.catalog.CountValidAnswers(cell.Row, cell.Col, s.league)
	}
	return counts
}

// IsValid stops at the first cell below the minimum answer count.
func (s Scorer) IsValid(g model.Grid) bool {
	return s.Check(g) == nil
}

// Check is IsValid reporting the failing cell as ErrInfeasibleGrid.
func (s Scorer) Check(g model.Grid) error {
	for _, cell := range g.Cells() {
		if n := s.catalog.CountValidAnswers(cell.Row, cell.Col, s.league); n < s.weights.MinAnswers {
			return fmt.Errorf("%w: %s x %s has %d answers", ErrInfeasibleGrid, cell.Row, cell.Col, n)
		}
	}
	return nil
}

// Score returns the deviation score of g and whether every cell has an answer.
func (s Scorer) Score(g model.Grid) (int, bool) {
	return s.weights.ScoreCounts(s.Counts(g))
}
