package grid

import "github.com/okian/momentgrid/internal/domain/model"

// Catalog is the read-only catalog view grid generation runs against.
// Implementations must be safe for concurrent use.
type Catalog interface {
	Teams(league model.League) []string
	Tiers(league model.League) []model.Tier
	Seasons(league model.League) []string
	PlayTypes(league model.League) []string
	CountValidAnswers(row, col model.CategoryLabel, league model.League) int
	TeamsByPlayerCount(league model.League) []model.TeamCount
	MostPopulousTier(league model.League) (model.Tier, bool)
}

// PoolsFor reads the category pools of league from c.
func PoolsFor(c Catalog, league model.League) Pools {
	return Pools{
		Teams:     c.Teams(league),
		Tiers:     c.Tiers(league),
		Seasons:   c.Seasons(league),
		PlayTypes: c.PlayTypes(league),
	}
}
