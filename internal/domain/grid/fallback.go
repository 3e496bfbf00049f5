package grid

import (
	"context"

	"github.com/okian/momentgrid/internal/domain/model"
	"github.com/okian/momentgrid/pkg/logger"
	"github.com/okian/momentgrid/pkg/metrics"
)

// fallback builds a grid from the best-connected teams when randomized search
// found nothing. Every strategy is bounded, so build always terminates.
type fallback struct {
	topTeams  int
	rotations int
	scorer    Scorer
	log       logger.Logger
}

// build tries team x team, team x season and team x tier in order, then the
// last resort, which reuses the same teams on both axes.
func (f fallback) build(ctx context.Context, c Catalog, league model.League, seed uint32) (model.Grid, model.GridSource, error) {
	ranked := c.TeamsByPlayerCount(league)
	if len(ranked) == 0 {
		return model.Grid{}, "", ErrNoTeams
	}
	top := make([]string, 0, min(f.topTeams, len(ranked)))
	for _, tc := range ranked[:min(f.topTeams, len(ranked))] {
		top = append(top, tc.Team)
	}
	n := len(top)
	r := NewLCG(seed)

	// Windows repeat with period n, so more than n rotations adds nothing.
	rotations := min(f.rotations, n)

	if n >= 6 {
		shuffled := Shuffle(top, r)
		for i := 0; i < rotations; i++ {
			g := model.Grid{
				Rows: teamLabels(shuffled, i, i+1, i+2),
				Cols: teamLabels(shuffled, i+3, i+4, i+5),
			}
			if f.scorer.IsValid(g) {
				return f.done(ctx, g, model.GridSourceTeamTeam)
			}
		}
	}

	if seasons := c.Seasons(league); n >= 3 && len(seasons) >= 3 {
		shuffled := Shuffle(seasons, r)
		cols := [3]model.CategoryLabel{
			model.SeasonLabel(shuffled[0]),
			model.SeasonLabel(shuffled[1]),
			model.SeasonLabel(shuffled[2]),
		}
		for i := 0; i < rotations; i++ {
			g := model.Grid{Rows: teamLabels(top, i, i+1, i+2), Cols: cols}
			if f.scorer.IsValid(g) {
				return f.done(ctx, g, model.GridSourceTeamSeason)
			}
		}
	}

	if tier, ok := c.MostPopulousTier(league); ok && n >= 5 {
		g := model.Grid{
			Rows: teamLabels(top, 0, 1, 2),
			Cols: [3]model.CategoryLabel{model.TierLabel(tier), model.TeamLabel(top[3]), model.TeamLabel(top[4])},
		}
		if f.scorer.IsValid(g) {
			return f.done(ctx, g, model.GridSourceTeamTier)
		}
	}

	g := model.Grid{Rows: teamLabels(top, 0, 1, 2), Cols: teamLabels(top, 0, 1, 2)}
	metrics.RecordGridDegraded()
	f.log.Warn(ctx, "returning degraded grid",
		logger.String("league", league.String()),
		logger.Int("ranked_teams", n),
		logger.String("grid", g.Key()))
	return f.done(ctx, g, model.GridSourceLastResort)
}

func (f fallback) done(ctx context.Context, g model.Grid, source model.GridSource) (model.Grid, model.GridSource, error) {
	metrics.RecordGridFallback(string(source))
	f.log.Info(ctx, "fallback grid built", logger.String("strategy", string(source)))
	return g, source, nil
}

// teamLabels picks three teams at the given positions, wrapping around.
func teamLabels(teams []string, a, b, c int) [3]model.CategoryLabel {
	n := len(teams)
	return [3]model.CategoryLabel{
		model.TeamLabel(teams[a%n]),
		model.TeamLabel(teams[b%n]),
		model.TeamLabel(teams[c%n]),
	}
}
