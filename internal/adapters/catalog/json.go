package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/okian/momentgrid/internal/domain/model"
)

// JSONSource reads a JSON array of moment records.
type JSONSource struct {
	path string
}

// NewJSONSource creates a JSONSource for path.
func NewJSONSource(path string) *JSONSource { return &JSONSource{path: path} }

// Path is the file the source reads.
func (s *JSONSource) Path() string { return s.path }

// Read loads and decodes the file.
func (s *JSONSource) Read(ctx context.Context) ([]model.RawMoment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadCatalog, err)
	}
	defer func() { _ = f.Close() }()
	return DecodeJSON(f)
}

// DecodeJSON decodes a JSON array of moment records from r. Elements that do
// not decode as a record are returned marked Malformed so the load can count
// and drop them; only a document that is not an array fails.
func DecodeJSON(r io.Reader) ([]model.RawMoment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadCatalog, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, ErrNotAList
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadCatalog, err)
	}
	records := make([]model.RawMoment, len(elems))
	for i, raw := range elems {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || raw[0] != '{' {
			records[i] = model.RawMoment{Malformed: true}
			continue
		}
		if err := json.Unmarshal(raw, &records[i]); err != nil {
			records[i] = model.RawMoment{Malformed: true}
		}
	}
	return records, nil
}
