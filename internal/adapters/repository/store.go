// Package repository owns the moment catalog and its indices.
package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/momentgrid/internal/domain/model"
	"github.com/okian/momentgrid/pkg/logger"
	"github.com/okian/momentgrid/pkg/metrics"
)

// Rejection reasons recorded in a LoadReport.
const (
	RejectMalformed       = "malformed_record"
	RejectMissingPlayer   = "missing_player"
	RejectMissingTeam     = "missing_team"
	RejectMissingSeason   = "missing_season"
	RejectMissingPlayType = "missing_play_type"
	RejectUnknownTier     = "unknown_tier"
)

// placeholders are values the fetch pipeline writes for absent fields.
var placeholders = map[string]struct{}{ //nolint:gochecknoglobals // fixed lookup table
	"Unknown Player": {},
	"Unknown Team":   {},
	"Unknown Season": {},
}

// LoadReport describes one catalog load.
type LoadReport struct {
	Version  string         `json:"version"`
	Received int            `json:"received"`
	Accepted int            `json:"accepted"`
	Rejected map[string]int `json:"rejected"`
	Players  int            `json:"players"`
	Teams    int            `json:"teams"`
	LoadedAt time.Time      `json:"loadedAt"`
	Duration time.Duration  `json:"duration"`
}

// MomentStore publishes immutable catalog snapshots. Readers never block on a load
// and never observe a partially built index.
type MomentStore struct {
	mu     sync.Mutex // serializes loads
	snap   atomic.Pointer[Snapshot]
	roster model.Roster
	log    logger.Logger
	now    func() time.Time
}

// New creates an empty MomentStore.
func New(opts ...Option) *MomentStore {
	s := &MomentStore{
		roster: model.DefaultRoster(),
		log:    logger.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snap.Store(emptySnapshot(s.roster))
	return s
}

// Snapshot returns the currently published snapshot. It is never nil.
func (s *MomentStore) Snapshot() *Snapshot {
	return s.snap.Load()
}

// Load validates raw records, builds a complete index set and publishes it.
// Individually malformed records are dropped and counted. A record without a
// player field, or a catalog with no usable records, fails the whole load and
// leaves the previous snapshot in place.
func (s *MomentStore) Load(ctx context.Context, records []model.RawMoment) (LoadReport, error) {
	start := s.now()

	report := LoadReport{Received: len(records), Rejected: make(map[string]int)}
	moments := make([]model.Moment, 0, len(records))
	for i := range records {
		m, reason, err := normalize(&records[i])
		if err != nil {
			metrics.RecordCatalogLoad("failed")
			metrics.RecordErrorByComponent("store", "missing_player_field")
			return LoadReport{}, fmt.Errorf("%w: record %d: %w", ErrCatalogLoad, i, err)
		}
		if reason != "" {
			report.Rejected[reason]++
			continue
		}
		moments = append(moments, m)
	}
	if len(moments) == 0 {
		metrics.RecordCatalogLoad("failed")
		return LoadReport{}, fmt.Errorf("%w: %w (received %d)", ErrCatalogLoad, ErrEmptyCatalog, len(records))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	report.Version = uuid.NewString()
	report.Accepted = len(moments)
	report.LoadedAt = s.now()
	report.Duration = report.LoadedAt.Sub(start)

	next := buildSnapshot(report.Version, report.LoadedAt, s.roster, moments, report)
	report.Players = len(next.byPlayer)
	report.Teams = len(next.byTeam)
	next.report = report
	s.snap.Store(next)

	metrics.RecordCatalogLoad("ok")
	metrics.RecordCatalogLoadDuration(float64(report.Duration.Microseconds()) / 1000)
	metrics.UpdateCatalogSize(report.Accepted, report.Players, report.Teams)
	for reason, n := range report.Rejected {
		metrics.RecordCatalogRejected(reason, n)
	}

	fields := []logger.Field{
		logger.String("version", report.Version),
		logger.Int("received", report.Received),
		logger.Int("accepted", report.Accepted),
		logger.Int("players", report.Players),
		logger.Int("teams", report.Teams),
		logger.Duration("took", report.Duration),
	}
	for reason, n := range report.Rejected {
		fields = append(fields, logger.Int("rejected_"+reason, n))
	}
	s.log.Info(ctx, "catalog published", fields...)
	return report, nil
}

// SetRoster republishes the current catalog classified by roster.
func (s *MomentStore) SetRoster(ctx context.Context, roster model.Roster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roster = roster
	cur := s.snap.Load()
	s.snap.Store(buildSnapshot(cur.version, cur.loadedAt, roster, cur.moments, cur.report))
	s.log.Info(ctx, "roster updated", logger.Int("secondary_teams", len(roster.SecondaryTeams())))
}

// normalize turns a raw record into a Moment. A non-empty reason means the
// record is dropped; err means the catalog is structurally broken.
func normalize(r *model.RawMoment) (model.Moment, string, error) {
	if r.Malformed {
		return model.Moment{}, RejectMalformed, nil
	}
	if r.Player == nil {
		return model.Moment{}, "", ErrMissingPlayerField
	}
	player := clean(*r.Player)
	team := clean(r.Team)
	season := clean(r.Season)
	playType := clean(r.PlayType)
	switch {
	case player == "":
		return model.Moment{}, RejectMissingPlayer, nil
	case team == "":
		return model.Moment{}, RejectMissingTeam, nil
	case season == "":
		return model.Moment{}, RejectMissingSeason, nil
	case playType == "":
		return model.Moment{}, RejectMissingPlayType, nil
	}
	tier, ok := model.ParseTier(r.Tier)
	if !ok {
		return model.Moment{}, RejectUnknownTier, nil
	}
	return model.Moment{
		Player:       player,
		Team:         team,
		Tier:         tier,
		Season:       season,
		PlayType:     playType,
		DateOfMoment: parseDate(r.DateOfMoment),
		PlayID:       r.PlayID,
		Metadata:     r.Metadata,
	}, "", nil
}

func clean(v string) string {
	v = strings.TrimSpace(v)
	if _, ok := placeholders[v]; ok {
		return ""
	}
	return v
}

// parseDate accepts a calendar date or an RFC 3339 timestamp. Anything else is the zero time.
func parseDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(model.DateLayout, v); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t
	}
	return time.Time{}
}

// Players returns the sorted players of league in the current snapshot.
func (s *MomentStore) Players(league model.League) []string { return s.Snapshot().Players(league) }

// Teams returns the sorted teams of league in the current snapshot.
func (s *MomentStore) Teams(league model.League) []string { return s.Snapshot().Teams(league) }

// Tiers returns the sorted tiers of league in the current snapshot.
func (s *MomentStore) Tiers(league model.League) []model.Tier { return s.Snapshot().Tiers(league) }

// Seasons returns the sorted seasons of league in the current snapshot.
func (s *MomentStore) Seasons(league model.League) []string { return s.Snapshot().Seasons(league) }

// PlayTypes returns the sorted play types of league in the current snapshot.
func (s *MomentStore) PlayTypes(league model.League) []string { return s.Snapshot().PlayTypes(league) }

// MomentsFor returns all moments of player in the current snapshot.
func (s *MomentStore) MomentsFor(player string) []model.Moment {
	return s.Snapshot().MomentsFor(player)
}

// ValidAnswers returns the players answering (row, col) in league in the current snapshot.
func (s *MomentStore) ValidAnswers(row, col model.CategoryLabel, league model.League) []string {
	return s.Snapshot().ValidAnswers(row, col, league)
}
