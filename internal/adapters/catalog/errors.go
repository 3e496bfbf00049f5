package catalog

import "errors"

// Sentinel kinds for catalog sources.
var (
	// ErrNotAList means the snapshot is not a list of records.
	ErrNotAList = errors.New("catalog is not a list of records")
	// ErrUnsupportedFormat means no source handles the requested format.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	// ErrReadCatalog wraps I/O and decoding failures.
	ErrReadCatalog = errors.New("read catalog failed")
)
