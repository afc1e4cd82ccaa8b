package provenance

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/schlagwetter/internal/model"
)

// Pool is the subset of pgxpool.Pool the Postgres store uses.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// PostgresStore keeps provenance records in a shared Postgres database.
type PostgresStore struct {
	pool Pool
}

// NewPostgres connects a pool to connString.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return NewPostgresWithPool(pool), nil
}

// NewPostgresWithPool wraps an existing pool.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS provenance (
	id              UUID PRIMARY KEY,
	target          TEXT NOT NULL,
	agents          JSONB NOT NULL,
	activity        TEXT NOT NULL,
	description     TEXT NOT NULL DEFAULT '',
	primary_sources JSONB NOT NULL DEFAULT '[]',
	sources         JSONB NOT NULL DEFAULT '[]',
	started_at      TIMESTAMPTZ NOT NULL,
	ended_at        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_provenance_target ON provenance(target)`

// Migrate creates the provenance table.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Add implements Store.
func (s *PostgresStore) Add(ctx context.Context, rec model.ProvenanceRecord) error {
	rec = withID(rec)
	cols, err := encodeLists(rec)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO provenance (id, target, agents, activity, description, primary_sources, sources, started_at, ended_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.Target, cols.agents, rec.Activity, rec.Description, cols.primary, cols.sources,
		rec.StartedAt, rec.EndedAt,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: insert provenance for %s", rec.Target)
	}
	return nil
}

// List implements Store.
func (s *PostgresStore) List(ctx context.Context, target string) ([]model.ProvenanceRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id::text, target, agents::text, activity, description, primary_sources::text, sources::text, started_at, ended_at
		 FROM provenance WHERE target = $1 ORDER BY started_at`, target)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query provenance")
	}
	defer rows.Close()

	var out []model.ProvenanceRecord
	for rows.Next() {
		var rec model.ProvenanceRecord
		var cols listColumns
		if err := rows.Scan(&rec.ID, &rec.Target, &cols.agents, &rec.Activity, &rec.Description,
			&cols.primary, &cols.sources, &rec.StartedAt, &rec.EndedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan provenance")
		}
		if err := cols.decode(&rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate provenance")
}
