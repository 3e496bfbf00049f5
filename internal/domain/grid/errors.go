package grid

import "errors"

// Sentinel kinds for grid generation.
var (
	// ErrInfeasibleGrid marks a grid with a cell below the minimum answer count.
	// Search consumes it and moves on to the fallback builder.
	ErrInfeasibleGrid = errors.New("grid is infeasible")
	// ErrDegradedGrid describes a last-resort grid. It is carried on the result, not returned.
	ErrDegradedGrid = errors.New("grid built by last-resort fallback")
	// ErrPoolTooSmall means the category pools cannot fill a randomized candidate.
	ErrPoolTooSmall = errors.New("category pool too small")
	// ErrNoTeams means the league has no teams to build any grid from.
	ErrNoTeams = errors.New("no teams available")
)
