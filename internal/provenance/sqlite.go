package provenance

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/schlagwetter/internal/model"
)

// SQLiteStore keeps provenance records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS provenance (
	id              TEXT PRIMARY KEY,
	target          TEXT NOT NULL,
	agents          TEXT NOT NULL,
	activity        TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	primary_sources TEXT NOT NULL DEFAULT '[]',
	sources         TEXT NOT NULL DEFAULT '[]',
	started_at      DATETIME NOT NULL,
	ended_at        DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_provenance_target ON provenance(target);
`

// Migrate creates the provenance table.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Add implements Store.
func (s *SQLiteStore) Add(ctx context.Context, rec model.ProvenanceRecord) error {
	rec = withID(rec)
	cols, err := encodeLists(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO provenance (id, target, agents, activity, description, primary_sources, sources, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Target, cols.agents, rec.Activity, rec.Description, cols.primary, cols.sources,
		rec.StartedAt.UTC(), rec.EndedAt.UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert provenance for %s", rec.Target)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, target string) ([]model.ProvenanceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, target, agents, activity, description, primary_sources, sources, started_at, ended_at
		 FROM provenance WHERE target = ? ORDER BY started_at, rowid`, target)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query provenance")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.ProvenanceRecord
	for rows.Next() {
		var rec model.ProvenanceRecord
		var cols listColumns
		if err := rows.Scan(&rec.ID, &rec.Target, &cols.agents, &rec.Activity, &rec.Description,
			&cols.primary, &cols.sources, &rec.StartedAt, &rec.EndedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan provenance")
		}
		if err := cols.decode(&rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate provenance")
}

// listColumns holds the JSON-encoded list columns shared by the SQL stores.
type listColumns struct {
	agents  string
	primary string
	sources string
}

func encodeLists(rec model.ProvenanceRecord) (listColumns, error) {
	var cols listColumns
	for _, f := range []struct {
		dst *string
		src []string
	}{
		{&cols.agents, rec.Agents},
		{&cols.primary, rec.PrimarySources},
		{&cols.sources, rec.Sources},
	} {
		if f.src == nil {
			f.src = []string{}
		}
		b, err := json.Marshal(f.src)
		if err != nil {
			return cols, eris.Wrap(err, "provenance: encode list")
		}
		*f.dst = string(b)
	}
	return cols, nil
}

func (c listColumns) decode(rec *model.ProvenanceRecord) error {
	for _, f := range []struct {
		src string
		dst *[]string
	}{
		{c.agents, &rec.Agents},
		{c.primary, &rec.PrimarySources},
		{c.sources, &rec.Sources},
	} {
		if err := json.Unmarshal([]byte(f.src), f.dst); err != nil {
			return eris.Wrap(err, "provenance: decode list")
		}
		if len(*f.dst) == 0 {
			*f.dst = nil
		}
	}
	return nil
}
