// Package catalog reads moment catalog snapshots and watches them for changes.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/momentgrid/internal/domain/model"
)

// Formats understood by Open.
const (
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// Source supplies raw moment records to the store.
type Source interface {
	Read(ctx context.Context) ([]model.RawMoment, error)
	// Path is the file the source reads.
	Path() string
}

// Open returns the source for format.
func Open(format, path string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		return NewJSONSource(path), nil
	case FormatSQLite:
		return NewSQLiteSource(path), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
