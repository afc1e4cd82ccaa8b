package provenance

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/schlagwetter/internal/jsonfile"
	"github.com/sells-group/schlagwetter/internal/model"
)

// SidecarExt is appended to a target's path to name its provenance file.
const SidecarExt = ".prov"

// Sidecar keeps the records of each file in a JSON list next to it.
type Sidecar struct{}

// NewSidecar creates a Sidecar store.
func NewSidecar() *Sidecar { return &Sidecar{} }

// Path returns the sidecar file for target.
func (s *Sidecar) Path(target string) string {
	return target + SidecarExt
}

// Add implements Store.
func (s *Sidecar) Add(ctx context.Context, rec model.ProvenanceRecord) error {
	if rec.Target == "" {
		return eris.New("provenance: record has no target")
	}
	records, err := s.List(ctx, rec.Target)
	if err != nil {
		return err
	}
	records = append(records, withID(rec))
	if err := jsonfile.Write(s.Path(rec.Target), records); err != nil {
		return eris.Wrap(err, "provenance: write sidecar")
	}
	return nil
}

// List implements Store.
func (s *Sidecar) List(_ context.Context, target string) ([]model.ProvenanceRecord, error) {
	path := s.Path(target)
	if !jsonfile.Exists(path) {
		return nil, nil
	}
	var records []model.ProvenanceRecord
	if err := jsonfile.Read(path, &records); err != nil {
		return nil, eris.Wrap(err, "provenance: read sidecar")
	}
	return records, nil
}

// Close implements Store.
func (s *Sidecar) Close() error { return nil }
