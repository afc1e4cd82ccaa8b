// Package provenance records how derived files were produced: which agent ran
// which activity on which sources, and when.
package provenance

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/schlagwetter/internal/model"
)

// Store persists provenance records keyed by the file they describe.
type Store interface {
	// Add appends a record. An empty ID is filled in.
	Add(ctx context.Context, rec model.ProvenanceRecord) error

	// List returns the records for target, oldest first.
	List(ctx context.Context, target string) ([]model.ProvenanceRecord, error)

	Close() error
}

// Open returns the store for driver: "sidecar", "sqlite" or "postgres".
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "", "sidecar":
		return NewSidecar(), nil
	case "sqlite":
		st, err := NewSQLite(dsn)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close() //nolint:errcheck
			return nil, err
		}
		return st, nil
	case "postgres":
		st, err := NewPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close() //nolint:errcheck
			return nil, err
		}
		return st, nil
	default:
		return nil, eris.Errorf("provenance: unknown driver %q", driver)
	}
}

func withID(rec model.ProvenanceRecord) model.ProvenanceRecord {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	return rec
}
