package repository

import "errors"

// Sentinel kinds for catalog errors.
var (
	// ErrCatalogLoad marks a catalog that cannot be used at all. The previous snapshot stays published.
	ErrCatalogLoad = errors.New("catalog load failed")
	// ErrMissingPlayerField marks a record that structurally lacks the player field.
	ErrMissingPlayerField = errors.New("record has no player field")
	// ErrEmptyCatalog marks a catalog with no acceptable records.
	ErrEmptyCatalog = errors.New("catalog has no usable moments")
	// ErrNoCatalog is returned by operations that need a loaded catalog.
	ErrNoCatalog = errors.New("no catalog loaded")
)
