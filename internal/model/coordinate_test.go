package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordinateMap_JSON(t *testing.T) {
	t.Parallel()

	m := CoordinateMap{
		"Essen":   {Lat: "51.4582235", Lon: "7.0158171"},
		"Nirgend": nil,
	}

	b, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Essen":["51.4582235","7.0158171"],"Nirgend":null}`, string(b))

	var back CoordinateMap
	require.NoError(t, json.Unmarshal(b, &back))
	require.NotNil(t, back["Essen"])
	assert.Equal(t, "7.0158171", back["Essen"].Lon)
	assert.Nil(t, back["Nirgend"])
	assert.Contains(t, back, "Nirgend")
}

func TestCoordinate_UnmarshalWrongLength(t *testing.T) {
	t.Parallel()

	var c Coordinate
	err := json.Unmarshal([]byte(`["1"]`), &c)
	assert.Error(t, err)
}

func TestCoordinate_Float(t *testing.T) {
	t.Parallel()

	lat, lon, err := Coordinate{Lat: "51.5", Lon: "7.25"}.Float()
	require.NoError(t, err)
	assert.InDelta(t, 51.5, lat, 1e-9)
	assert.InDelta(t, 7.25, lon, 1e-9)

	_, _, err = Coordinate{Lat: "north", Lon: "7"}.Float()
	assert.Error(t, err)
}

func TestCoordinateMap_ResolvedUnresolved(t *testing.T) {
	t.Parallel()

	m := CoordinateMap{
		"Dortmund": {Lat: "51.5", Lon: "7.4"},
		"Bochum":   {Lat: "51.4", Lon: "7.2"},
		"Xanten?":  nil,
	}
	assert.Equal(t, []string{"Bochum", "Dortmund"}, m.Resolved())
	assert.Equal(t, []string{"Xanten?"}, m.Unresolved())
}
