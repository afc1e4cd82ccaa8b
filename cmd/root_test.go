package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	expected := []string{"convert", "georeference", "get-name-patrons", "generate-top-trumps-data", "download", "provenance", "config"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "schlagwetter", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestGeoreferenceCommand_Flags(t *testing.T) {
	flag := georeferenceCmd.Flags().Lookup("overwrite")
	require.NotNil(t, flag)
	assert.Equal(t, "false", flag.DefValue)

	for _, name := range []string{"output", "report", "geojson"} {
		assert.NotNil(t, georeferenceCmd.Flags().Lookup(name), "georeference should have --%s", name)
	}
}

func TestTopTrumpsCommand_Flags(t *testing.T) {
	for _, name := range []string{"seed", "count", "markdown", "xlsx"} {
		assert.NotNil(t, topTrumpsCmd.Flags().Lookup(name), "generate-top-trumps-data should have --%s", name)
	}
}

func TestArgOr(t *testing.T) {
	assert.Equal(t, "a.json", argOr([]string{"a.json"}, 0, "default.json"))
	assert.Equal(t, "default.json", argOr(nil, 0, "default.json"))
	assert.Equal(t, "default.json", argOr([]string{"a.json"}, 1, "default.json"))
	assert.Equal(t, "default.json", argOr([]string{""}, 0, "default.json"))
}
