package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/schlagwetter/internal/config"
	"github.com/sells-group/schlagwetter/internal/jsonfile"
	"github.com/sells-group/schlagwetter/internal/model"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// testConfig installs a config rooted in a temp dir and returns the dir.
func testConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg = &config.Config{
		Files: config.FilesConfig{
			JSONData:      filepath.Join(dir, "mining_accidents_data.json"),
			CoordsData:    filepath.Join(dir, "mine_coordinates.json"),
			TopTrumpsData: filepath.Join(dir, "top_trumps_data.json"),
			XMLData:       filepath.Join(dir, "Data_Ungluecke.xml"),
		},
		Schema: model.DefaultSchema(),
		Source: config.SourceConfig{PrimaryURL: "http://example.test/Data_Ungluecke.xml"},
		Geocode: config.GeocodeConfig{
			URLTemplate: "https://nominatim.openstreetmap.org/search/'{location}'",
			UserAgent:   "schlagwetter-test",
		},
		Cards:      config.CardsConfig{Count: 64},
		Provenance: config.ProvenanceConfig{Agent: "schlagwetter", Driver: "sidecar"},
		Download:   config.DownloadConfig{TimeoutSecs: 5, MaxRetries: 1, UserAgent: "schlagwetter-test"},
		Log:        config.LogConfig{Level: "info", Format: "json"},
	}
	return dir
}

// accident builds a record the way the converter decodes it.
func accident(location, mine string, dead any) map[string]any {
	a := map[string]any{"Ort_Index": location, "Bergwerke_Index": mine}
	if dead != nil {
		a["Tote"] = dead
	}
	return a
}

// writeDataset writes records under Datenbank/Grubenungluecke at path.
func writeDataset(t *testing.T, path string, records ...map[string]any) {
	t.Helper()
	items := make([]any, len(records))
	for i, r := range records {
		items[i] = r
	}
	doc := map[string]any{"Datenbank": map[string]any{"Grubenungluecke": items}}
	require.NoError(t, jsonfile.Write(path, doc))
}

// numberedDataset writes n accidents with distinct dead counts.
func numberedDataset(t *testing.T, path string, n int) {
	t.Helper()
	records := make([]map[string]any, n)
	for i := range records {
		records[i] = accident(fmt.Sprintf("Ort %d", i), fmt.Sprintf("Zeche %d", i), map[string]any{"Tote": fmt.Sprint(i)})
	}
	writeDataset(t, path, records...)
}

// captureOut redirects cmd's output for the duration of the test.
func captureOut(t *testing.T, cmd *cobra.Command) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	t.Cleanup(func() { cmd.SetOut(nil) })
	return &buf
}
