package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/schlagwetter/internal/jsonfile"
	"github.com/sells-group/schlagwetter/internal/model"
	"github.com/sells-group/schlagwetter/internal/provenance"
	"github.com/sells-group/schlagwetter/pkg/geocode"
)

// nominatimStub answers every location with one hit except "Atlantis".
func nominatimStub(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.Contains(r.URL.Path, "Atlantis"):
			w.Write([]byte(`[]`))
		case strings.Contains(r.URL.Path, "Essen"):
			w.Write([]byte(`[{"lat":"51.4508","lon":"7.0131"},{"lat":"0","lon":"0"}]`))
		default:
			w.Write([]byte(`[{"lat":"51.4819","lon":"7.2162"}]`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func stubClient(srv *httptest.Server) geocode.Client {
	return geocode.NewClient(geocode.WithURLTemplate(srv.URL + "/search/'{location}'"))
}

func TestRunGeoreference(t *testing.T) {
	dir := testConfig(t)
	writeDataset(t, cfg.Files.JSONData,
		accident("Essen", "Zeche Zollverein", nil),
		accident("Bochum", "Zeche Hannover", nil),
		accident("Essen", "Zeche Anna", nil),
		accident("Atlantis", "Zeche Poseidon", nil),
	)

	var calls atomic.Int32
	srv := nominatimStub(t, &calls)

	p := georefParams{
		Input:   cfg.Files.JSONData,
		Output:  cfg.Files.CoordsData,
		Report:  filepath.Join(dir, "report.md"),
		GeoJSON: filepath.Join(dir, "coords.geojson"),
	}
	var out bytes.Buffer
	require.NoError(t, runGeoreference(context.Background(), &out, stubClient(srv), provenance.NewSidecar(), p))

	assert.Equal(t, int32(3), calls.Load(), "each distinct location is looked up once")
	assert.Equal(t, "Missed:\n[\n    \"Atlantis\"\n]\n", out.String())

	var coords model.CoordinateMap
	require.NoError(t, jsonfile.Read(cfg.Files.CoordsData, &coords))
	require.Len(t, coords, 3)
	assert.Equal(t, &model.Coordinate{Lat: "51.4508", Lon: "7.0131"}, coords["Essen"])
	assert.Equal(t, &model.Coordinate{Lat: "51.4819", Lon: "7.2162"}, coords["Bochum"])
	v, ok := coords["Atlantis"]
	assert.True(t, ok)
	assert.Nil(t, v)

	raw, err := os.ReadFile(cfg.Files.CoordsData)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"Atlantis": null`)

	report, err := os.ReadFile(p.Report)
	require.NoError(t, err)
	assert.Contains(t, string(report), "- Atlantis")

	assert.True(t, jsonfile.Exists(p.GeoJSON))

	records, err := provenance.NewSidecar().List(context.Background(), cfg.Files.CoordsData)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, georeferenceActivity, records[0].Activity)
	assert.Equal(t, []string{cfg.Files.JSONData}, records[0].Sources)
}

func TestRunGeoreference_NoMisses(t *testing.T) {
	testConfig(t)
	writeDataset(t, cfg.Files.JSONData, accident("Bochum", "Zeche Hannover", nil))

	var calls atomic.Int32
	srv := nominatimStub(t, &calls)

	var out bytes.Buffer
	p := georefParams{Input: cfg.Files.JSONData, Output: cfg.Files.CoordsData}
	require.NoError(t, runGeoreference(context.Background(), &out, stubClient(srv), provenance.NewSidecar(), p))
	assert.Equal(t, "Missed:\n[]\n", out.String())
}

func TestRunGeoreference_ExistingOutputWithoutOverwrite(t *testing.T) {
	testConfig(t)
	writeDataset(t, cfg.Files.JSONData, accident("Essen", "Zeche Zollverein", nil))
	require.NoError(t, os.WriteFile(cfg.Files.CoordsData, []byte("original"), 0o644))

	var calls atomic.Int32
	srv := nominatimStub(t, &calls)

	for range 2 {
		var out bytes.Buffer
		p := georefParams{Input: cfg.Files.JSONData, Output: cfg.Files.CoordsData}
		err := runGeoreference(context.Background(), &out, stubClient(srv), provenance.NewSidecar(), p)
		require.ErrorIs(t, err, ErrOutputExists)
		assert.Empty(t, out.String())
	}

	assert.Zero(t, calls.Load(), "no lookups before the guard")
	raw, err := os.ReadFile(cfg.Files.CoordsData)
	require.NoError(t, err)
	assert.Equal(t, "original", string(raw))
	assert.False(t, jsonfile.Exists(provenance.NewSidecar().Path(cfg.Files.CoordsData)))
}

func TestRunGeoreference_Overwrite(t *testing.T) {
	testConfig(t)
	writeDataset(t, cfg.Files.JSONData, accident("Bochum", "Zeche Hannover", nil))
	require.NoError(t, os.WriteFile(cfg.Files.CoordsData, []byte("original"), 0o644))

	var calls atomic.Int32
	srv := nominatimStub(t, &calls)

	var out bytes.Buffer
	p := georefParams{Input: cfg.Files.JSONData, Output: cfg.Files.CoordsData, Overwrite: true}
	require.NoError(t, runGeoreference(context.Background(), &out, stubClient(srv), provenance.NewSidecar(), p))

	var coords model.CoordinateMap
	require.NoError(t, jsonfile.Read(cfg.Files.CoordsData, &coords))
	assert.Contains(t, coords, "Bochum")
}

func TestRunGeoreference_TransportErrorAborts(t *testing.T) {
	testConfig(t)
	writeDataset(t, cfg.Files.JSONData, accident("Essen", "Zeche Zollverein", nil))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	p := georefParams{Input: cfg.Files.JSONData, Output: cfg.Files.CoordsData}
	err := runGeoreference(context.Background(), &out, stubClient(srv), provenance.NewSidecar(), p)
	require.Error(t, err)
	assert.False(t, jsonfile.Exists(cfg.Files.CoordsData))
}

func TestGeoreferenceCmd_ExistingOutputWithoutOverwrite(t *testing.T) {
	testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Files.CoordsData, []byte("original"), 0o644))

	georeferenceCmd.SetContext(context.Background())
	err := georeferenceCmd.RunE(georeferenceCmd, []string{cfg.Files.JSONData})
	require.ErrorIs(t, err, ErrOutputExists)
	assert.Equal(t, "Output file already exists. use --overwrite to replace", err.Error())

	raw, err := os.ReadFile(cfg.Files.CoordsData)
	require.NoError(t, err)
	assert.Equal(t, "original", string(raw))
}
