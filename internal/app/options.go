package service

import (
	"time"

	"github.com/okian/momentgrid/internal/adapters/cache"
	"github.com/okian/momentgrid/internal/adapters/catalog"
	"github.com/okian/momentgrid/internal/adapters/repository"
	"github.com/okian/momentgrid/internal/config"
	"github.com/okian/momentgrid/internal/domain/grid"
	"github.com/okian/momentgrid/internal/domain/model"
	"github.com/okian/momentgrid/pkg/logger"
)

const (
	defaultGridTTL         = 24 * time.Hour
	defaultHintTTL         = time.Hour
	defaultSuggestionLimit = 5
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the moment store.
func WithStore(store *repository.MomentStore) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithSource sets the catalog source used by ReloadCatalog.
func WithSource(src catalog.Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithSearcher sets the grid searcher.
func WithSearcher(searcher *grid.Searcher) Option {
	return func(s *Service) {
		if searcher != nil {
			s.searcher = searcher
		}
	}
}

// WithGridCache replaces the grid cache.
func WithGridCache(c cache.Cache[model.GridResult]) Option {
	return func(s *Service) {
		if c != nil {
			s.grids = c
		}
	}
}

// WithHintCache replaces the hint cache.
func WithHintCache(c cache.Cache[[]string]) Option {
	return func(s *Service) {
		if c != nil {
			s.hints = c
		}
	}
}

// WithCacheTTLs sets grid and hint lifetimes. Non-positive values are ignored.
func WithCacheTTLs(gridTTL, hintTTL time.Duration) Option {
	return func(s *Service) {
		if gridTTL > 0 {
			s.gridTTL = gridTTL
		}
		if hintTTL > 0 {
			s.hintTTL = hintTTL
		}
	}
}

// WithLocation sets the timezone that decides "today".
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSuggestionLimit caps name suggestions for unknown players.
func WithSuggestionLimit(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.suggestions = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// ConfigOptions translates cfg into service options. The returned
// components log through log.
func ConfigOptions(cfg *config.Config, log logger.Logger) ([]Option, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	roster := model.DefaultRoster()
	if len(cfg.SecondaryRoster) > 0 {
		roster = model.NewRoster(cfg.SecondaryRoster)
	}
	store := repository.New(
		repository.WithRoster(roster),
		repository.WithLogger(log.Named("store")),
	)
	searcher := grid.NewSearcher(
		grid.WithAttempts(cfg.SearchAttempts),
		grid.WithWorkers(cfg.SearchWorkers),
		grid.WithWeights(grid.Weights{
			MinAnswers:   cfg.MinAnswers,
			IdealAnswers: cfg.IdealAnswers,
			MaxAnswers:   cfg.MaxAnswers,
			Empty:        cfg.PenaltyEmpty,
			UnderMin:     cfg.PenaltyUnderMin,
			OverMax:      cfg.PenaltyOverMax,
			Infeasible:   cfg.PenaltyInfeasible,
		}),
		grid.WithFallbackTopTeams(cfg.FallbackTopTeams),
		grid.WithFallbackRotations(cfg.FallbackRotations),
		grid.WithLogger(log.Named("grid-search")),
	)
	opts := []Option{
		WithStore(store),
		WithSearcher(searcher),
		WithGridCache(cache.NewTTL[model.GridResult]("grid",
			cache.WithDefaultTTL(cfg.GridCacheTTL),
			cache.WithSweepInterval(cfg.CacheSweepInterval))),
		WithHintCache(cache.NewTTL[[]string]("hint",
			cache.WithDefaultTTL(cfg.HintCacheTTL),
			cache.WithSweepInterval(cfg.CacheSweepInterval))),
		WithCacheTTLs(cfg.GridCacheTTL, cfg.HintCacheTTL),
		WithLocation(cfg.Location()),
		WithLogger(log.Named("service")),
	}
	if cfg.CatalogPath != "" {
		src, err := catalog.Open(cfg.CatalogFormat, cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithSource(src))
	}
	return opts, nil
}
