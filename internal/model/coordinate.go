package model

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
)

// Coordinate is a latitude/longitude pair as returned by the geocoder. The
// values stay strings to keep the service's precision untouched. On disk it is
// a two-element array: ["lat", "lon"].
type Coordinate struct {
	Lat string
	Lon string
}

// MarshalJSON implements json.Marshaler.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{c.Lat, c.Lon})
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Coordinate) UnmarshalJSON(b []byte) error {
	var pair []string
	if err := json.Unmarshal(b, &pair); err != nil {
		return eris.Wrap(err, "model: decode coordinate")
	}
	if len(pair) != 2 {
		return eris.Errorf("model: coordinate needs 2 values, got %d", len(pair))
	}
	c.Lat, c.Lon = pair[0], pair[1]
	return nil
}

// Float returns the pair as numbers.
func (c Coordinate) Float() (lat, lon float64, err error) {
	lat, err = strconv.ParseFloat(c.Lat, 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "model: parse latitude %q", c.Lat)
	}
	lon, err = strconv.ParseFloat(c.Lon, 64)
	if err != nil {
		return 0, 0, eris.Wrapf(err, "model: parse longitude %q", c.Lon)
	}
	return lat, lon, nil
}

// CoordinateMap maps a location name to its coordinate. A nil value marks a
// location the geocoder could not resolve and is written as null.
type CoordinateMap map[string]*Coordinate

// Resolved returns the names with a coordinate, sorted.
func (m CoordinateMap) Resolved() []string {
	var out []string
	for name, c := range m {
		if c != nil {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Unresolved returns the names without a coordinate, sorted.
func (m CoordinateMap) Unresolved() []string {
	var out []string
	for name, c := range m {
		if c == nil {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
