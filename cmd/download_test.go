package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/schlagwetter/internal/provenance"
)

func TestDownloadCmd(t *testing.T) {
	dir := testConfig(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "schlagwetter-test", r.Header.Get("User-Agent"))
		w.Write([]byte(`<Datenbank/>`))
	}))
	defer srv.Close()
	cfg.Source.PrimaryURL = srv.URL + "/Data_Ungluecke.xml"

	target := filepath.Join(dir, "archive.xml")
	old := downloadOutput
	downloadOutput = target
	defer func() { downloadOutput = old }()

	out := captureOut(t, downloadCmd)
	downloadCmd.SetContext(context.Background())
	require.NoError(t, downloadCmd.RunE(downloadCmd, nil))
	assert.Equal(t, target+"\n", out.String())

	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, `<Datenbank/>`, string(raw))

	records, err := provenance.NewSidecar().List(context.Background(), target)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, downloadActivity, records[0].Activity)
	assert.Equal(t, []string{cfg.Source.PrimaryURL}, records[0].PrimarySources)
}

func TestDownloadCmd_NotFound(t *testing.T) {
	testConfig(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	cfg.Source.PrimaryURL = srv.URL

	downloadCmd.SetContext(context.Background())
	err := downloadCmd.RunE(downloadCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
	_, statErr := os.Stat(cfg.Files.XMLData)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadCmd_RequiresURL(t *testing.T) {
	testConfig(t)
	cfg.Source.PrimaryURL = ""

	err := downloadCmd.RunE(downloadCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source.primary_url")
}
