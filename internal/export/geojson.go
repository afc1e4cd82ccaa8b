package export

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/schlagwetter/internal/model"
)

// CoordinatesFeatureCollection turns the resolved locations into point
// features. Unresolved locations are skipped.
func CoordinatesFeatureCollection(coords model.CoordinateMap) (*geojson.FeatureCollection, error) {
	fc := &geojson.FeatureCollection{}
	for _, name := range coords.Resolved() {
		lat, lon, err := coords[name].Float()
		if err != nil {
			return nil, eris.Wrapf(err, "geojson: location %q", name)
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			ID:         name,
			Geometry:   geom.NewPointFlat(geom.XY, []float64{lon, lat}).SetSRID(4326),
			Properties: map[string]any{"name": name},
		})
	}
	return fc, nil
}

// WriteCoordinatesGeoJSON writes the resolved locations as a GeoJSON file.
func WriteCoordinatesGeoJSON(path string, coords model.CoordinateMap) error {
	fc, err := CoordinatesFeatureCollection(coords)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(fc, "", "    ")
	if err != nil {
		return eris.Wrap(err, "geojson: encode")
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return eris.Wrapf(err, "geojson: write %s", path)
	}
	return nil
}
