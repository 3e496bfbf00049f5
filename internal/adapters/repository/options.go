package repository

import (
	"time"

	"github.com/okian/momentgrid/internal/domain/model"
	"github.com/okian/momentgrid/pkg/logger"
)

// Option applies a configuration option to the MomentStore.
type Option func(*MomentStore)

// WithRoster sets the league roster used to classify teams.
func WithRoster(r model.Roster) Option {
	return func(s *MomentStore) {
		s.roster = r
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *MomentStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *MomentStore) {
		if now != nil {
			s.now = now
		}
	}
}
