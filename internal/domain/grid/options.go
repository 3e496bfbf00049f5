package grid

import (
	"github.com/okian/momentgrid/pkg/logger"
)

// Option applies a configuration option to the Searcher.
type Option func(*Searcher)

// WithAttempts sets the number of randomized candidates per search.
func WithAttempts(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// WithWorkers bounds how many attempts run at once.
func WithWorkers(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithWeights sets the scoring weights. Weights that fail Validate are ignored.
func WithWeights(w Weights) Option {
	return func(s *Searcher) {
		if w.Validate() == nil {
			s.weights = w
		}
	}
}

// WithFallbackTopTeams sets how many ranked teams the fallback builder draws from.
func WithFallbackTopTeams(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.topTeams = n
		}
	}
}

// WithFallbackRotations caps the rotations tried per fallback strategy.
func WithFallbackRotations(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.rotations = n
		}
	}
}

// WithLogger sets the search logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Searcher) {
		if l != nil {
			s.log = l
		}
	}
}
