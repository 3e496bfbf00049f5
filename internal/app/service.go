// Package service wires the moment store, grid search, caches and validation
// into the operations served by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/okian/momentgrid/internal/adapters/cache"
	"github.com/okian/momentgrid/internal/adapters/catalog"
	"github.com/okian/momentgrid/internal/adapters/repository"
	"github.com/okian/momentgrid/internal/domain/criteria"
	"github.com/okian/momentgrid/internal/domain/grid"
	"github.com/okian/momentgrid/internal/domain/model"
	"github.com/okian/momentgrid/pkg/logger"
	"github.com/okian/momentgrid/pkg/metrics"
)

// Service implements the daily grid operations.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    *repository.MomentStore
	source   catalog.Source
	searcher *grid.Searcher
	grids    cache.Cache[model.GridResult]
	hints    cache.Cache[[]string]

	// Configuration
	gridTTL     time.Duration
	hintTTL     time.Duration
	loc         *time.Location
	now         func() time.Time
	suggestions int

	// State
	started bool

	logger logger.Logger
}

// GridAnalysis is a daily grid together with its difficulty breakdown.
type GridAnalysis struct {
	Result   model.GridResult `json:"result"`
	Analysis grid.Analysis    `json:"analysis"`
}

// Validation is the verdict for one answer.
type Validation struct {
	criteria.Verdict
	Player      string              `json:"player"`
	Row         model.CategoryLabel `json:"row"`
	Col         model.CategoryLabel `json:"col"`
	League      string              `json:"league"`
	Suggestions []string            `json:"suggestions,omitempty"`
}

// Categories are the label pools of a league.
type Categories struct {
	League    string       `json:"league"`
	Teams     []string     `json:"teams"`
	Tiers     []model.Tier `json:"tiers"`
	Seasons   []string     `json:"seasons"`
	PlayTypes []string     `json:"playTypes"`
}

// CatalogStats describes the loaded catalog.
type CatalogStats struct {
	Version  string                `json:"version"`
	Loaded   bool                  `json:"loaded"`
	LoadedAt time.Time             `json:"loadedAt"`
	Report   repository.LoadReport `json:"report"`
	Leagues  []repository.Stats    `json:"leagues"`
	Caches   []cache.Stats         `json:"caches"`
}

// New constructs a Service with default components.
func New(opts ...Option) *Service {
	s := &Service{
		gridTTL:     defaultGridTTL,
		hintTTL:     defaultHintTTL,
		loc:         time.UTC,
		now:         time.Now,
		suggestions: defaultSuggestionLimit,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = repository.New(repository.WithLogger(s.logger.Named("store")))
	}
	if s.searcher == nil {
		s.searcher = grid.NewSearcher(grid.WithLogger(s.logger.Named("grid-search")))
	}
	if s.grids == nil {
		s.grids = cache.NewTTL[model.GridResult]("grid", cache.WithDefaultTTL(s.gridTTL))
	}
	if s.hints == nil {
		s.hints = cache.NewTTL[[]string]("hint", cache.WithDefaultTTL(s.hintTTL))
	}
	return s
}

// Start loads the catalog from the configured source, if any.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting momentgrid service...")

	if s.source != nil {
		if _, err := s.reloadLocked(ctx); err != nil {
			return err
		}
	}

	s.started = true
	s.logger.Info(ctx, "momentgrid service started",
		logger.Bool("catalog_loaded", s.store.Snapshot().Loaded()),
		logger.Duration("grid_ttl", s.gridTTL),
		logger.Duration("hint_ttl", s.hintTTL),
	)
	return nil
}

// Stop releases the caches.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping momentgrid service...")
	_ = s.grids.Close()
	_ = s.hints.Close()
	s.started = false
	s.logger.Info(context.Background(), "momentgrid service stopped")
}

// Started reports whether Start has completed.
func (s *Service) Started() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Store exposes the underlying moment store.
func (s *Service) Store() *repository.MomentStore { return s.store }

// ReloadCatalog reads the configured source, swaps the catalog and drops
// every cached grid and hint.
func (s *Service) ReloadCatalog(ctx context.Context) (repository.LoadReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reloadLocked(ctx)
}

func (s *Service) reloadLocked(ctx context.Context) (repository.LoadReport, error) {
	if s.source == nil {
		return repository.LoadReport{}, ErrNoSource
	}
	records, err := s.source.Read(ctx)
	if err != nil {
		metrics.RecordCatalogLoad("failed")
		metrics.RecordErrorByComponent("catalog", "read_failed")
		return repository.LoadReport{}, fmt.Errorf("%w: %w", repository.ErrCatalogLoad, err)
	}
	return s.load(ctx, records)
}

// LoadRecords replaces the catalog with records and drops cached results.
func (s *Service) LoadRecords(ctx context.Context, records []model.RawMoment) (repository.LoadReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, records)
}

func (s *Service) load(ctx context.Context, records []model.RawMoment) (repository.LoadReport, error) {
	report, err := s.store.Load(ctx, records)
	if err != nil {
		metrics.RecordErrorByComponent("store", "load_failed")
		return report, err
	}
	s.clearCaches(ctx)
	return report, nil
}

// Today is the current date in the configured timezone.
func (s *Service) Today() string {
	return s.now().In(s.loc).Format(model.DateLayout)
}

// NormalizeDate returns date, or today when date is empty.
func (s *Service) NormalizeDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.Today(), nil
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadDate, date)
	}
	return date, nil
}

func (s *Service) snapshot() (*repository.Snapshot, error) {
	snap := s.store.Snapshot()
	if !snap.Loaded() {
		return nil, repository.ErrNoCatalog
	}
	return snap, nil
}

// DailyGrid returns the grid for (date, league), generating it on a cache miss.
// An empty date means today.
func (s *Service) DailyGrid(ctx context.Context, date string, league model.League) (model.GridResult, error) {
	date, err := s.NormalizeDate(date)
	if err != nil {
		return model.GridResult{}, err
	}
	if _, err := s.snapshot(); err != nil {
		return model.GridResult{}, err
	}
	key := fmt.Sprintf("grid-%s-%s", date, league)
	return s.grids.GetOrLoad(ctx, key, s.gridTTL, func(ctx context.Context) (model.GridResult, error) {
		// Read inside the loader: a reload clears the cache after publishing,
		// so every flight started after the clear sees the new catalog.
		snap, err := s.snapshot()
		if err != nil {
			return model.GridResult{}, err
		}
		return s.generate(ctx, snap, date, league)
	})
}

func (s *Service) generate(ctx context.Context, snap *repository.Snapshot, date string, league model.League) (model.GridResult, error) {
	res, err := s.searcher.Generate(ctx, snap, date, league)
	if err != nil {
		metrics.RecordErrorByComponent("grid", "generate_failed")
		return model.GridResult{}, err
	}
	res.CatalogVersion = snap.Version()
	if res.Degraded {
		s.logger.Warn(ctx, "serving degraded grid",
			logger.String("date", date),
			logger.String("league", league.String()),
			logger.String("warning", res.Warning))
	}
	return res, nil
}

// AnalyzeGrid returns the daily grid with per-cell answer counts taken from
// the catalog version that built it.
func (s *Service) AnalyzeGrid(ctx context.Context, date string, league model.League) (GridAnalysis, error) {
	date, err := s.NormalizeDate(date)
	if err != nil {
		return GridAnalysis{}, err
	}
	res, err := s.DailyGrid(ctx, date, league)
	if err != nil {
		return GridAnalysis{}, err
	}
	snap := s.store.Snapshot()
	if res.CatalogVersion != snap.Version() {
		// A reload landed between generation and analysis.
		if res, err = s.generate(ctx, snap, date, league); err != nil {
			return GridAnalysis{}, err
		}
	}
	return GridAnalysis{Result: res, Analysis: grid.Analyze(snap, res.Grid, league)}, nil
}

// Validate checks a player answer for the cell (row, col). An unknown
// player is not an error: the verdict says so and carries name suggestions.
func (s *Service) Validate(ctx context.Context, player string, row, col model.CategoryLabel, league model.League) (Validation, error) {
	snap, err := s.snapshot()
	if err != nil {
		return Validation{}, err
	}
	player = strings.TrimSpace(player)
	v := Validation{
		Verdict: criteria.Evaluate(snap.PlayerMoments(player, league), row, col),
		Player:  player,
		Row:     row,
		Col:     col,
		League:  league.String(),
	}
	if v.Reason == criteria.ReasonUnknownPlayer {
		v.Suggestions = suggest(player, snap.Players(league), s.suggestions)
	}
	metrics.RecordValidation(v.Reason)
	s.logger.Debug(ctx, "answer validated",
		logger.String("player", player),
		logger.String("row", row.String()),
		logger.String("col", col.String()),
		logger.String("reason", v.Reason))
	return v, nil
}

// Hint returns the valid answers of a cell.
func (s *Service) Hint(ctx context.Context, row, col model.CategoryLabel, league model.League) ([]string, error) {
	if _, err := s.snapshot(); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("hint-%s-%s-%s", row, col, league)
	return s.hints.GetOrLoad(ctx, key, s.hintTTL, func(context.Context) ([]string, error) {
		snap, err := s.snapshot()
		if err != nil {
			return nil, err
		}
		return snap.ValidAnswers(row, col, league), nil
	})
}

// Categories returns the label pools of league.
func (s *Service) Categories(league model.League) Categories {
	snap := s.store.Snapshot()
	return Categories{
		League:    league.String(),
		Teams:     snap.Teams(league),
		Tiers:     snap.Tiers(league),
		Seasons:   snap.Seasons(league),
		PlayTypes: snap.PlayTypes(league),
	}
}

// Players lists the distinct players of league.
func (s *Service) Players(league model.League) []string {
	return s.store.Snapshot().Players(league)
}

// PlayerMoments lists one player's moments in league.
func (s *Service) PlayerMoments(player string, league model.League) []model.Moment {
	return s.store.Snapshot().PlayerMoments(strings.TrimSpace(player), league)
}

// Moments lists every moment of league.
func (s *Service) Moments(league model.League) []model.Moment {
	return s.store.Snapshot().Moments(league)
}

// Stats summarizes the catalog for every league view.
func (s *Service) Stats() CatalogStats {
	snap := s.store.Snapshot()
	views := append([]model.League{model.LeagueAll}, model.Leagues()...)
	out := CatalogStats{
		Version:  snap.Version(),
		Loaded:   snap.Loaded(),
		LoadedAt: snap.LoadedAt(),
		Report:   snap.Report(),
		Leagues:  make([]repository.Stats, 0, len(views)),
		Caches:   s.CacheStats(),
	}
	for _, l := range views {
		out.Leagues = append(out.Leagues, snap.Stats(l))
	}
	return out
}

// CacheStats reports the grid and hint caches.
func (s *Service) CacheStats() []cache.Stats {
	return []cache.Stats{s.grids.Stats(), s.hints.Stats()}
}

// ClearCache drops every cached grid and hint.
func (s *Service) ClearCache(ctx context.Context) {
	s.clearCaches(ctx)
	s.logger.Info(ctx, "caches cleared")
}

func (s *Service) clearCaches(ctx context.Context) {
	s.grids.Clear(ctx)
	s.hints.Clear(ctx)
}

// ResolveLabel parses "type:value", or resolves a bare value against the
// catalog trying team, tier, season and play type in that order.
func (s *Service) ResolveLabel(raw string) (model.CategoryLabel, error) {
	label, ok, err := model.ParseLabel(raw)
	if err != nil {
		return model.CategoryLabel{}, err
	}
	if ok {
		return label, nil
	}
	value := strings.TrimSpace(raw)
	snap := s.store.Snapshot()
	candidates := []model.CategoryLabel{model.TeamLabel(value)}
	if tier, ok := model.ParseTier(value); ok {
		candidates = append(candidates, model.TierLabel(tier))
	}
	candidates = append(candidates, model.SeasonLabel(value), model.PlayTypeLabel(value))
	for _, c := range candidates {
		if snap.HasLabel(c, model.LeagueAll) {
			return c, nil
		}
	}
	return model.CategoryLabel{}, fmt.Errorf("%w: %q", ErrUnknownLabel, value)
}

// Prewarm generates and caches the grids of day for the combined view and
// each league. A league without teams is skipped.
func (s *Service) Prewarm(ctx context.Context, day time.Time) error {
	date := day.In(s.loc).Format(model.DateLayout)
	views := append([]model.League{model.LeagueAll}, model.Leagues()...)
	var errs []error
	for _, l := range views {
		if _, err := s.DailyGrid(ctx, date, l); err != nil {
			if errors.Is(err, grid.ErrNoTeams) {
				s.logger.Info(ctx, "skipping pre-warm for empty league", logger.String("league", l.String()))
				continue
			}
			errs = append(errs, fmt.Errorf("prewarm %s/%s: %w", date, l, err))
		}
	}
	return errors.Join(errs...)
}
