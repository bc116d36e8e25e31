package artifact

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/funvibe/siko/internal/codegen"
)

const schema = `
CREATE TABLE IF NOT EXISTS units (
	id       TEXT PRIMARY KEY,
	build_id TEXT NOT NULL,
	module   TEXT NOT NULL,
	file     TEXT NOT NULL,
	digest   TEXT NOT NULL,
	source   BLOB NOT NULL,
	created  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS units_build ON units (build_id);
`

// SQLiteSink records units in a sqlite database, one row per unit,
// keyed by a fresh id and tagged with the build id.
type SQLiteSink struct {
	db      *sql.DB
	buildID string
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(ctx context.Context, path, buildID string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// One connection serializes writers.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema in %s: %w", path, err)
	}
	return &SQLiteSink{db: db, buildID: buildID}, nil
}

func (s *SQLiteSink) Put(ctx context.Context, u codegen.Unit) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO units (id, build_id, module, file, digest, source, created) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), s.buildID, u.Module, u.File, Digest(u), u.Source, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("storing %s: %w", u.File, err)
	}
	return nil
}

// Record is a stored unit.
type Record struct {
	ID      string
	BuildID string
	Module  string
	File    string
	Digest  string
	Source  []byte
}

// Units lists the units of a build in the order they were stored.
func (s *SQLiteSink) Units(ctx context.Context, buildID string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, build_id, module, file, digest, source FROM units WHERE build_id = ? ORDER BY rowid`, buildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.BuildID, &r.Module, &r.File, &r.Digest, &r.Source); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteSink) Close() error { return s.db.Close() }
