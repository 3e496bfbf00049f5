package grid

import "github.com/okian/momentgrid/internal/domain/model"

// Cell difficulty bands.
const (
	CellHard   = "hard"
	CellMedium = "medium"
	CellEasy   = "easy"
)

// CellAnalysis is the answer count of one cell.
type CellAnalysis struct {
	Row        model.CategoryLabel `json:"row"`
	Col        model.CategoryLabel `json:"col"`
	Count      int                 `json:"count"`
	Difficulty string              `json:"difficulty"`
}

// Analysis summarizes how hard a grid is.
type Analysis struct {
	Cells          []CellAnalysis `json:"cells"`
	AverageAnswers float64        `json:"averageAnswers"`
	HardestCell    CellAnalysis   `json:"hardestCell"`
	EasiestCell    CellAnalysis   `json:"easiestCell"`
	Label          string         `json:"label"`
}

// CellDifficulty bands a cell count: under 5 is hard, under 10 medium.
func CellDifficulty(count int) string {
	switch {
	case count < 5:
		return CellHard
	case count < 10:
		return CellMedium
	default:
		return CellEasy
	}
}

// DifficultyLabel names the difficulty of a grid from its average answers per cell.
func DifficultyLabel(avg float64) string {
	switch {
	case avg < 4:
		return "Very Hard"
	case avg < 6:
		return "Hard"
	case avg < 8:
		return "Medium"
	case avg < 12:
		return "Easy"
	default:
		return "Very Easy"
	}
}

// Analyze counts answers per cell of g in league. The hardest and easiest
// cells are the first minimum and first maximum in row-major order.
func Analyze(c Catalog, g model.Grid, league model.League) Analysis {
	cells := g.Cells()
	a := Analysis{Cells: make([]CellAnalysis, len(cells))}
	total := 0
	for i, cell := range cells {
		n := c.CountValidAnswers(cell.Row, cell.Col, league)
		a.Cells[i] = CellAnalysis{Row: cell.Row, Col: cell.Col, Count: n, Difficulty: CellDifficulty(n)}
		total += n
		if i == 0 || n < a.HardestCell.Count {
			a.HardestCell = a.Cells[i]
		}
		if i == 0 || n > a.EasiestCell.Count {
			a.EasiestCell = a.Cells[i]
		}
	}
	a.AverageAnswers = float64(total) / float64(len(cells))
	a.Label = DifficultyLabel(a.AverageAnswers)
	return a
}
