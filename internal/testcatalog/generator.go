// Package testcatalog builds deterministic synthetic moment catalogs for tests
// and local runs.
package testcatalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/okian/momentgrid/internal/domain/model"
)

// File permission constants.
const (
	catalogFilePermission = 0o600
	catalogDirPermission  = 0o750
)

// Tier weights out of 100.
const (
	commonWeight = 60
	rareWeight   = 30
)

const (
	maxCareerTeams  = 3
	firstSeasonYear = 2016
)

// ErrBadConfig reports a generator configuration that cannot produce a catalog.
var ErrBadConfig = errors.New("bad testcatalog config")

// momentNamespace scopes the deterministic moment ids.
var momentNamespace = uuid.MustParse("6f1c2d0e-8a7b-4c1d-9e2f-3a4b5c6d7e8f") //nolint:gochecknoglobals // fixed namespace

var playTypes = []string{"Dunk", "Layup", "Jump Shot", "3 Pointer", "Assist", "Block", "Steal", "Hook Shot"} //nolint:gochecknoglobals // fixed list

// Config shapes a synthetic catalog.
type Config struct {
	Players          int
	PrimaryTeams     int
	SecondaryTeams   int
	Seasons          int
	MomentsPerPlayer int
	Seed             uint64
}

// DefaultConfig returns a catalog shape dense enough for randomized search.
func DefaultConfig() Config {
	return Config{
		Players:          160,
		PrimaryTeams:     10,
		SecondaryTeams:   6,
		Seasons:          5,
		MomentsPerPlayer: 5,
		Seed:             1,
	}
}

func (c Config) validate() error {
	switch {
	case c.Players < 1:
		return fmt.Errorf("%w: players must be positive", ErrBadConfig)
	case c.PrimaryTeams < 1:
		return fmt.Errorf("%w: primary teams must be positive", ErrBadConfig)
	case c.SecondaryTeams < 0 || c.SecondaryTeams > len(model.DefaultSecondaryRoster()):
		return fmt.Errorf("%w: secondary teams must be in [0, %d]", ErrBadConfig, len(model.DefaultSecondaryRoster()))
	case c.Seasons < 1:
		return fmt.Errorf("%w: seasons must be positive", ErrBadConfig)
	case c.MomentsPerPlayer < 1:
		return fmt.Errorf("%w: moments per player must be positive", ErrBadConfig)
	}
	return nil
}

// PrimaryTeamName names the i-th synthetic primary-league team.
func PrimaryTeamName(i int) string { return fmt.Sprintf("Team %02d", i+1) }

// SeasonName names the i-th synthetic season.
func SeasonName(i int) string {
	y := firstSeasonYear + i
	return fmt.Sprintf("%d-%02d", y, (y+1)%100)
}

// Generate builds a catalog. The same Config always yields the same records.
// Every fourth player belongs to the secondary league when it has teams.
func Generate(ctx context.Context, cfg Config) ([]model.RawMoment, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)) //nolint:gosec // deterministic fixtures

	primary := make([]string, cfg.PrimaryTeams)
	for i := range primary {
		primary[i] = PrimaryTeamName(i)
	}
	secondary := model.DefaultSecondaryRoster()[:cfg.SecondaryTeams]

	out := make([]model.RawMoment, 0, cfg.Players*cfg.MomentsPerPlayer)
	for p := 0; p < cfg.Players; p++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generate catalog: %w", err)
		}
		teams := primary
		if len(secondary) > 0 && p%4 == 0 {
			teams = secondary
		}
		career := make([]string, 1+rng.IntN(maxCareerTeams))
		for i := range career {
			career[i] = teams[rng.IntN(len(teams))]
		}
		player := fmt.Sprintf("Player %03d", p+1)
		for m := 0; m < cfg.MomentsPerPlayer; m++ {
			name := player
			season := rng.IntN(cfg.Seasons)
			playID := int64(p*cfg.MomentsPerPlayer + m)
			out = append(out, model.RawMoment{
				Player:       &name,
				Team:         career[rng.IntN(len(career))],
				Tier:         string(pickTier(rng)),
				Season:       SeasonName(season),
				PlayType:     playTypes[rng.IntN(len(playTypes))],
				DateOfMoment: time.Date(firstSeasonYear+season, time.November, 1+rng.IntN(28), 0, 0, 0, 0, time.UTC).Format(model.DateLayout),
				PlayID:       playID,
				Metadata: map[string]any{
					"momentId": uuid.NewSHA1(momentNamespace, fmt.Appendf(nil, "%d/%d", cfg.Seed, playID)).String(),
				},
			})
		}
	}
	return out, nil
}

func pickTier(rng *rand.Rand) model.Tier {
	switch n := rng.IntN(100); {
	case n < commonWeight:
		return model.TierCommon
	case n < commonWeight+rareWeight:
		return model.TierRare
	default:
		return model.TierLegendary
	}
}

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, records []model.RawMoment) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return nil
}

// SaveJSON writes records to path, creating parent directories.
func SaveJSON(path string, records []model.RawMoment) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), catalogDirPermission); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, catalogFilePermission)
	if err != nil {
		return fmt.Errorf("create catalog file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close catalog file: %w", cerr)
		}
	}()
	return WriteJSON(f, records)
}
