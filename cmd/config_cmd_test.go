package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/schlagwetter/internal/config"
)

func TestConfigShowCmd(t *testing.T) {
	testConfig(t)

	out := captureOut(t, configShowCmd)
	require.NoError(t, configShowCmd.RunE(configShowCmd, nil))

	assert.Contains(t, out.String(), "schema:")
	assert.Contains(t, out.String(), "records: Grubenungluecke")

	var got config.Config
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, *cfg, got)
}
