package grid

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/momentgrid/internal/domain/model"
	"github.com/okian/momentgrid/pkg/logger"
	"github.com/okian/momentgrid/pkg/metrics"
)

const (
	defaultAttempts  = 200
	defaultTopTeams  = 10
	defaultRotations = 50
)

// Searcher runs randomized candidate search with a deterministic fallback.
type Searcher struct {
	attempts  int
	workers   int
	weights   Weights
	topTeams  int
	rotations int
	log       logger.Logger
}

// NewSearcher creates a Searcher.
func NewSearcher(opts ...Option) *Searcher {
	s := &Searcher{
		attempts:  defaultAttempts,
		workers:   runtime.NumCPU(),
		weights:   DefaultWeights(),
		topTeams:  defaultTopTeams,
		rotations: defaultRotations,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns the scoring weights in use.
func (s *Searcher) Weights() Weights { return s.weights }

type attempt struct {
	ok    bool
	grid  model.Grid
	score int
}

// Generate builds the grid for (date, league). Attempt i draws from its own
// generator seeded with seed+i, so attempts run concurrently and the result
// only depends on the inputs: the lowest score wins, ties go to the lowest
// attempt index. When no attempt is feasible the fallback builder takes over.
//
// ctx is checked before each attempt starts; a running attempt is never interrupted.
func (s *Searcher) Generate(ctx context.Context, c Catalog, date string, league model.League) (model.GridResult, error) {
	start := time.Now()
	seed := SeedFor(date, league)
	scorer := NewScorer(c, league, s.weights)
	res := model.GridResult{Date: date, League: league, Seed: seed}

	gen, err := NewGenerator(PoolsFor(c, league))
	if err != nil {
		s.log.Info(ctx, "skipping randomized search",
			logger.String("date", date), logger.String("league", league.String()), logger.Error(err))
	} else {
		results := make([]attempt, s.attempts)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.workers)
		for i := range results {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				candidate := gen.Candidate(NewLCG(seed + uint32(i))) //nolint:gosec // i < attempts
				if !scorer.IsValid(candidate) {
					return nil
				}
				score, _ := scorer.Score(candidate)
				results[i] = attempt{ok: true, grid: candidate, score: score}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return model.GridResult{}, fmt.Errorf("grid search %s/%s: %w", date, league, err)
		}
		res.Attempts = s.attempts

		best := -1
		for i := range results {
			if !results[i].ok {
				continue
			}
			res.ValidCandidates++
			if best < 0 || results[i].score < results[best].score {
				best = i
			}
		}
		if best >= 0 {
			res.Grid = results[best].grid
			res.Score = results[best].score
			res.Source = model.GridSourceSearch
			s.finish(ctx, &res, start, "found")
			return res, nil
		}
	}

	s.log.Warn(ctx, "no feasible candidate, using fallback",
		logger.String("date", date), logger.String("league", league.String()), logger.Int("attempts", res.Attempts))
	fb := fallback{topTeams: s.topTeams, rotations: s.rotations, scorer: scorer, log: s.log}
	grid, source, err := fb.build(ctx, c, league, seed)
	if err != nil {
		metrics.RecordGridGeneration(league.String(), "failed")
		return model.GridResult{}, fmt.Errorf("grid fallback %s/%s: %w", date, league, err)
	}
	res.Grid = grid
	res.Source = source
	res.Score, _ = scorer.Score(grid)
	if source == model.GridSourceLastResort {
		res.Degraded = true
		res.Warning = ErrDegradedGrid.Error()
	}
	s.finish(ctx, &res, start, "exhausted")
	return res, nil
}

func (s *Searcher) finish(ctx context.Context, res *model.GridResult, start time.Time, outcome string) {
	took := time.Since(start)
	metrics.RecordGridGeneration(res.League.String(), outcome)
	metrics.RecordGridSearchDuration(float64(took.Microseconds()) / 1000)
	metrics.RecordGridValidCandidates(res.ValidCandidates)
	metrics.UpdateGridBestScore(res.League.String(), res.Score)
	s.log.Info(ctx, "grid generated",
		logger.String("date", res.Date),
		logger.String("league", res.League.String()),
		logger.String("source", string(res.Source)),
		logger.Int("score", res.Score),
		logger.Int("valid_candidates", res.ValidCandidates),
		logger.Duration("took", took))
}
