// Package grid generates daily category grids.
package grid

import (
	"fmt"

	"github.com/okian/momentgrid/internal/domain/model"
)

// Minimum pool sizes a randomized candidate consumes.
const (
	minTeams   = 4
	minTiers   = 1
	minSeasons = 1
)

// Pools holds the sorted category values of one league.
type Pools struct {
	Teams     []string
	Tiers     []model.Tier
	Seasons   []string
	PlayTypes []string
}

// Generator produces structurally valid, unscored candidates from fixed pools.
type Generator struct {
	pools Pools
}

// NewGenerator checks that pools can fill a candidate.
func NewGenerator(p Pools) (*Generator, error) {
	if len(p.Teams) < minTeams || len(p.Tiers) < minTiers || len(p.Seasons) < minSeasons {
		return nil, fmt.Errorf("%w: %d teams, %d tiers, %d seasons",
			ErrPoolTooSmall, len(p.Teams), len(p.Tiers), len(p.Seasons))
	}
	return &Generator{pools: p}, nil
}

// cursor hands out pool entries in shuffled order without replacement.
type cursor[T any] struct {
	items []T
	next  int
}

func (c *cursor[T]) take() T {
	v := c.items[c.next]
	c.next++
	return v
}

// Candidate draws one grid. The pools are shuffled first, in the order teams,
// tiers, seasons, play types. Two draws follow: the first (> 0.6) enables play
// types, the second (> 0.5) puts the tier on the rows. When the tier goes to
// the columns and play types are enabled, a third draw (> 0.5) lets a play type
// replace the season row. Without play types those slots keep their team or
// season, but the draws are still consumed.
func (g *Generator) Candidate(r *LCG) model.Grid {
	teams := &cursor[string]{items: Shuffle(g.pools.Teams, r)}
	tiers := &cursor[model.Tier]{items: Shuffle(g.pools.Tiers, r)}
	seasons := &cursor[string]{items: Shuffle(g.pools.Seasons, r)}
	playTypes := &cursor[string]{items: Shuffle(g.pools.PlayTypes, r)}
	hasPlayTypes := len(playTypes.items) > 0

	usePlayTypes := r.Next() > 0.6
	tierInRows := r.Next() > 0.5

	var out model.Grid
	if tierInRows {
		out.Rows = [3]model.CategoryLabel{
			model.TeamLabel(teams.take()),
			model.TeamLabel(teams.take()),
			model.TierLabel(tiers.take()),
		}
		out.Cols[0] = model.TeamLabel(teams.take())
		if usePlayTypes && hasPlayTypes {
			out.Cols[1] = model.PlayTypeLabel(playTypes.take())
		} else {
			out.Cols[1] = model.TeamLabel(teams.take())
		}
		out.Cols[2] = model.SeasonLabel(seasons.take())
		return out
	}

	out.Rows[0] = model.TeamLabel(teams.take())
	out.Rows[1] = model.TeamLabel(teams.take())
	if usePlayTypes && r.Next() > 0.5 && hasPlayTypes {
		out.Rows[2] = model.PlayTypeLabel(playTypes.take())
	} else {
		out.Rows[2] = model.SeasonLabel(seasons.take())
	}
	out.Cols = [3]model.CategoryLabel{
		model.TeamLabel(teams.take()),
		model.TeamLabel(teams.take()),
		model.TierLabel(tiers.take()),
	}
	return out
}
