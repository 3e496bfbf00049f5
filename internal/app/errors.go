package service

import "errors"

var (
	// ErrNoSource is returned by ReloadCatalog when no catalog source is configured.
	ErrNoSource = errors.New("no catalog source configured")
	// ErrBadDate is returned for dates not in YYYY-MM-DD form.
	ErrBadDate = errors.New("invalid date")
	// ErrUnknownLabel is returned when a bare label value matches no pool.
	ErrUnknownLabel = errors.New("unknown category label")
)
