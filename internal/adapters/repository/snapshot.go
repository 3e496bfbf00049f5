package repository

import (
	"cmp"
	"slices"
	"time"

	"github.com/okian/momentgrid/internal/domain/criteria"
	"github.com/okian/momentgrid/internal/domain/model"
)

// Snapshot is an immutable, fully indexed catalog. All query methods are safe
// for concurrent use and never fail: unknown keys yield empty results.
type Snapshot struct {
	version  string
	loadedAt time.Time
	roster   model.Roster
	report   LoadReport

	moments []model.Moment

	// key -> positions in moments
	byPlayer   map[string][]int
	byTeam     map[string][]int
	byTier     map[string][]int
	bySeason   map[string][]int
	byPlayType map[string][]int
	byLeague   map[model.League][]int
}

// Stats summarizes one league view of a snapshot.
type Stats struct {
	League        string `json:"league"`
	TotalMoments  int    `json:"totalMoments"`
	UniquePlayers int    `json:"uniquePlayers"`
	Teams         int    `json:"teams"`
	Tiers         int    `json:"tiers"`
	Seasons       int    `json:"seasons"`
	PlayTypes     int    `json:"playTypes"`
}

func emptySnapshot(roster model.Roster) *Snapshot {
	return buildSnapshot("", time.Time{}, roster, nil, LoadReport{})
}

// buildSnapshot indexes moments in a single pass.
func buildSnapshot(version string, loadedAt time.Time, roster model.Roster, moments []model.Moment, report LoadReport) *Snapshot {
	s := &Snapshot{
		version:    version,
		loadedAt:   loadedAt,
		roster:     roster,
		report:     report,
		moments:    moments,
		byPlayer:   make(map[string][]int),
		byTeam:     make(map[string][]int),
		byTier:     make(map[string][]int),
		bySeason:   make(map[string][]int),
		byPlayType: make(map[string][]int),
		byLeague:   make(map[model.League][]int, 2),
	}
	for i := range moments {
		m := &moments[i]
		s.byPlayer[m.Player] = append(s.byPlayer[m.Player], i)
		s.byTeam[m.Team] = append(s.byTeam[m.Team], i)
		s.byTier[string(m.Tier)] = append(s.byTier[string(m.Tier)], i)
		s.bySeason[m.Season] = append(s.bySeason[m.Season], i)
		s.byPlayType[m.PlayType] = append(s.byPlayType[m.PlayType], i)
		league := roster.LeagueOf(m.Team)
		s.byLeague[league] = append(s.byLeague[league], i)
	}
	return s
}

// Version identifies the load that produced the snapshot. Empty before the first load.
func (s *Snapshot) Version() string { return s.version }

// Loaded reports whether the snapshot holds a loaded catalog.
func (s *Snapshot) Loaded() bool { return s.version != "" }

// LoadedAt is when the snapshot was published.
func (s *Snapshot) LoadedAt() time.Time { return s.loadedAt }

// Report is the load report that produced the snapshot.
func (s *Snapshot) Report() LoadReport { return s.report }

// Roster is the league roster the snapshot was indexed with.
func (s *Snapshot) Roster() model.Roster { return s.roster }

// inLeague recomputes league membership from the moment's team.
func (s *Snapshot) inLeague(i int, league model.League) bool {
	return s.roster.Includes(league, s.moments[i].Team)
}

// keysIn returns the sorted keys of index that own at least one moment in league.
func (s *Snapshot) keysIn(index map[string][]int, league model.League) []string {
	out := make([]string, 0, len(index))
	for key, idxs := range index {
		for _, i := range idxs {
			if s.inLeague(i, league) {
				out = append(out, key)
				break
			}
		}
	}
	slices.Sort(out)
	return out
}

// Players returns the sorted distinct players in league.
func (s *Snapshot) Players(league model.League) []string { return s.keysIn(s.byPlayer, league) }

// Teams returns the sorted distinct teams in league.
func (s *Snapshot) Teams(league model.League) []string { return s.keysIn(s.byTeam, league) }

// Seasons returns the sorted distinct seasons in league.
func (s *Snapshot) Seasons(league model.League) []string { return s.keysIn(s.bySeason, league) }

// PlayTypes returns the sorted distinct play types in league.
func (s *Snapshot) PlayTypes(league model.League) []string { return s.keysIn(s.byPlayType, league) }

// Tiers returns the sorted distinct tiers in league.
func (s *Snapshot) Tiers(league model.League) []model.Tier {
	keys := s.keysIn(s.byTier, league)
	out := make([]model.Tier, len(keys))
	for i, k := range keys {
		out[i] = model.Tier(k)
	}
	return out
}

func (s *Snapshot) collect(idxs []int, league model.League) []model.Moment {
	out := make([]model.Moment, 0, len(idxs))
	for _, i := range idxs {
		if s.inLeague(i, league) {
			out = append(out, s.moments[i])
		}
	}
	return out
}

// MomentsFor returns every moment of player. Unknown players yield an empty slice.
func (s *Snapshot) MomentsFor(player string) []model.Moment {
	return s.collect(s.byPlayer[player], model.LeagueAll)
}

// PlayerMoments returns the moments of player restricted to league.
func (s *Snapshot) PlayerMoments(player string, league model.League) []model.Moment {
	return s.collect(s.byPlayer[player], league)
}

// Moments returns every moment in league.
func (s *Snapshot) Moments(league model.League) []model.Moment {
	if league == model.LeagueAll {
		return slices.Clone(s.moments)
	}
	return s.collect(s.byLeague[league], league)
}

// HasPlayer reports whether player has any moment in league.
func (s *Snapshot) HasPlayer(player string, league model.League) bool {
	for _, i := range s.byPlayer[player] {
		if s.inLeague(i, league) {
			return true
		}
	}
	return false
}

// HasLabel reports whether some moment in league matches label.
func (s *Snapshot) HasLabel(label model.CategoryLabel, league model.League) bool {
	for _, i := range s.bucket(label) {
		if s.inLeague(i, league) {
			return true
		}
	}
	return false
}

func (s *Snapshot) bucket(label model.CategoryLabel) []int {
	switch label.Type {
	case model.LabelTeam:
		return s.byTeam[label.Value]
	case model.LabelTier:
		return s.byTier[label.Value]
	case model.LabelSeason:
		return s.bySeason[label.Value]
	case model.LabelPlayType:
		return s.byPlayType[label.Value]
	default:
		return nil
	}
}

// satisfies reports whether player has a league moment matching label.
func (s *Snapshot) satisfies(player string, label model.CategoryLabel, league model.League) bool {
	for _, i := range s.byPlayer[player] {
		if s.inLeague(i, league) && criteria.Matches(s.moments[i], label) {
			return true
		}
	}
	return false
}

// answers walks the smaller label bucket and confirms each candidate against the other label.
func (s *Snapshot) answers(row, col model.CategoryLabel, league model.League, visit func(player string)) {
	seed, other := s.bucket(row), col
	if colBucket := s.bucket(col); len(colBucket) < len(seed) {
		seed, other = colBucket, row
	}
	seen := make(map[string]struct{})
	for _, i := range seed {
		if !s.inLeague(i, league) {
			continue
		}
		player := s.moments[i].Player
		if _, ok := seen[player]; ok {
			continue
		}
		seen[player] = struct{}{}
		if s.satisfies(player, other, league) {
			visit(player)
		}
	}
}

// ValidAnswers returns the sorted distinct players in league satisfying both labels.
func (s *Snapshot) ValidAnswers(row, col model.CategoryLabel, league model.League) []string {
	out := []string{}
	s.answers(row, col, league, func(p string) { out = append(out, p) })
	slices.Sort(out)
	return out
}

// CountValidAnswers returns len(ValidAnswers(row, col, league)) without building the list.
func (s *Snapshot) CountValidAnswers(row, col model.CategoryLabel, league model.League) int {
	n := 0
	s.answers(row, col, league, func(string) { n++ })
	return n
}

// TeamsByPlayerCount ranks the teams of league by distinct player count, descending,
// ties broken by team name.
func (s *Snapshot) TeamsByPlayerCount(league model.League) []model.TeamCount {
	out := make([]model.TeamCount, 0, len(s.byTeam))
	for team, idxs := range s.byTeam {
		if !s.roster.Includes(league, team) {
			continue
		}
		players := make(map[string]struct{})
		for _, i := range idxs {
			players[s.moments[i].Player] = struct{}{}
		}
		if len(players) > 0 {
			out = append(out, model.TeamCount{Team: team, Players: len(players)})
		}
	}
	slices.SortFunc(out, func(a, b model.TeamCount) int {
		if c := cmp.Compare(b.Players, a.Players); c != 0 {
			return c
		}
		return cmp.Compare(a.Team, b.Team)
	})
	return out
}

// MostPopulousTier returns the tier with the most distinct players in league.
// Ties go to the first tier in sorted order.
func (s *Snapshot) MostPopulousTier(league model.League) (model.Tier, bool) {
	var best model.Tier
	bestCount := 0
	for _, tier := range s.Tiers(league) {
		players := make(map[string]struct{})
		for _, i := range s.byTier[string(tier)] {
			if s.inLeague(i, league) {
				players[s.moments[i].Player] = struct{}{}
			}
		}
		if len(players) > bestCount {
			best, bestCount = tier, len(players)
		}
	}
	return best, bestCount > 0
}

// Stats summarizes the league view.
func (s *Snapshot) Stats(league model.League) Stats {
	total := len(s.moments)
	if league != model.LeagueAll {
		total = len(s.byLeague[league])
	}
	return Stats{
		League:        league.String(),
		TotalMoments:  total,
		UniquePlayers: len(s.Players(league)),
		Teams:         len(s.Teams(league)),
		Tiers:         len(s.Tiers(league)),
		Seasons:       len(s.Seasons(league)),
		PlayTypes:     len(s.PlayTypes(league)),
	}
}
