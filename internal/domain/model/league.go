package model

import (
	"slices"
	"strings"
)

// League partitions teams into two disjoint rosters.
type League string

// Leagues. LeagueAll disables league filtering.
const (
	LeagueAll       League = ""
	LeaguePrimary   League = "NBA"
	LeagueSecondary League = "WNBA"
)

// ParseLeague normalizes a league identifier. Empty input means all leagues.
func ParseLeague(s string) (League, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ALL":
		return LeagueAll, true
	case string(LeaguePrimary):
		return LeaguePrimary, true
	case string(LeagueSecondary):
		return LeagueSecondary, true
	default:
		return LeagueAll, false
	}
}

// Leagues returns the concrete leagues.
func Leagues() []League { return []League{LeaguePrimary, LeagueSecondary} }

// String returns the league id, or "ALL" for the unfiltered view.
func (l League) String() string {
	if l == LeagueAll {
		return "ALL"
	}
	return string(l)
}

// DefaultSecondaryRoster is the built-in set of secondary-league team names.
func DefaultSecondaryRoster() []string {
	return []string{
		"Atlanta Dream",
		"Chicago Sky",
		"Connecticut Sun",
		"Dallas Wings",
		"Detroit Shock",
		"Golden State Valkyries",
		"Houston Comets",
		"Indiana Fever",
		"Las Vegas Aces",
		"Los Angeles Sparks",
		"Minnesota Lynx",
		"New York Liberty",
		"Phoenix Mercury",
		"Sacramento Monarchs",
		"San Antonio Silver Stars",
		"Seattle Storm",
		"Washington Mystics",
	}
}

// Roster classifies teams into leagues. The zero value puts every team in the primary league.
type Roster struct {
	secondary map[string]struct{}
}

// NewRoster builds a Roster whose secondary league is exactly the given team names.
func NewRoster(secondaryTeams []string) Roster {
	set := make(map[string]struct{}, len(secondaryTeams))
	for _, t := range secondaryTeams {
		if t = strings.TrimSpace(t); t != "" {
			set[t] = struct{}{}
		}
	}
	return Roster{secondary: set}
}

// DefaultRoster returns a Roster over DefaultSecondaryRoster.
func DefaultRoster() Roster { return NewRoster(DefaultSecondaryRoster()) }

// LeagueOf derives the league of team.
func (r Roster) LeagueOf(team string) League {
	if _, ok := r.secondary[team]; ok {
		return LeagueSecondary
	}
	return LeaguePrimary
}

// Includes reports whether team belongs to league. LeagueAll includes every team.
func (r Roster) Includes(league League, team string) bool {
	return league == LeagueAll || r.LeagueOf(team) == league
}

// SecondaryTeams returns the sorted secondary roster.
func (r Roster) SecondaryTeams() []string {
	out := make([]string, 0, len(r.secondary))
	for t := range r.secondary {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}
