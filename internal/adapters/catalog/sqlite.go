package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/okian/momentgrid/internal/domain/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS moments (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	player         TEXT,
	team           TEXT NOT NULL DEFAULT '',
	tier           TEXT NOT NULL DEFAULT '',
	season         TEXT NOT NULL DEFAULT '',
	play_type      TEXT NOT NULL DEFAULT '',
	date_of_moment TEXT NOT NULL DEFAULT '',
	play_id        INTEGER NOT NULL DEFAULT 0,
	metadata       TEXT
);
`

// SQLiteSource reads moment records from a SQLite snapshot. A NULL player
// column is a record without a player field.
type SQLiteSource struct {
	path string
}

// NewSQLiteSource creates a SQLiteSource for path.
func NewSQLiteSource(path string) *SQLiteSource { return &SQLiteSource{path: path} }

// Path is the file the source reads.
func (s *SQLiteSource) Path() string { return s.path }

// Read loads every row of the moments table in insertion order.
func (s *SQLiteSource) Read(ctx context.Context) (records []model.RawMoment, err error) {
	// sql.Open would silently create a missing file.
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadCatalog, err)
	}
	db, err := sql.Open("sqlite3", "file:"+s.path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadCatalog, err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.QueryContext(ctx, `
		SELECT player, team, tier, season, play_type, date_of_moment, play_id, metadata
		FROM moments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: query moments: %w", ErrReadCatalog, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrReadCatalog, cerr)
		}
	}()

	for rows.Next() {
		var (
			player   sql.NullString
			metadata sql.NullString
			r        model.RawMoment
		)
		if err := rows.Scan(&player, &r.Team, &r.Tier, &r.Season, &r.PlayType, &r.DateOfMoment, &r.PlayID, &metadata); err != nil {
			records = append(records, model.RawMoment{Malformed: true})
			continue
		}
		if player.Valid {
			p := player.String
			r.Player = &p
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &r.Metadata); err != nil {
				records = append(records, model.RawMoment{Malformed: true})
				continue
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadCatalog, err)
	}
	return records, nil
}

// WriteSQLite replaces the moments table at path with records.
func WriteSQLite(ctx context.Context, path string, records []model.RawMoment) (err error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("open catalog db: %w", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init catalog schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog write: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM moments`); err != nil {
		return fmt.Errorf("clear moments: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO moments (player, team, tier, season, play_type, date_of_moment, play_id, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range records {
		r := &records[i]
		var player sql.NullString
		if r.Player != nil {
			player = sql.NullString{String: *r.Player, Valid: true}
		}
		var metadata sql.NullString
		if len(r.Metadata) > 0 {
			b, mErr := json.Marshal(r.Metadata)
			if mErr != nil {
				return fmt.Errorf("encode metadata of record %d: %w", i, mErr)
			}
			metadata = sql.NullString{String: string(b), Valid: true}
		}
		if _, err = stmt.ExecContext(ctx, player, r.Team, r.Tier, r.Season, r.PlayType, r.DateOfMoment, r.PlayID, metadata); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog write: %w", err)
	}
	return nil
}
