package model

import (
	"github.com/rotisserie/eris"
)

// Schema names the fields of the accident database.
type Schema struct {
	Root     string `yaml:"root" mapstructure:"root"`
	Records  string `yaml:"records" mapstructure:"records"`
	Location string `yaml:"location" mapstructure:"location"`
	Mine     string `yaml:"mine" mapstructure:"mine"`
	Dead     string `yaml:"dead" mapstructure:"dead"`
	DeadMin  string `yaml:"dead_min" mapstructure:"dead_min"`
	DeadMax  string `yaml:"dead_max" mapstructure:"dead_max"`
}

// DefaultSchema returns the field names of the 2019 Grubenunglücke export.
func DefaultSchema() Schema {
	return Schema{
		Root:     "Datenbank",
		Records:  "Grubenungluecke",
		Location: "Ort_Index",
		Mine:     "Bergwerke_Index",
		Dead:     "Tote",
		DeadMin:  "Tote_min",
		DeadMax:  "Tote_max",
	}
}

// ErrUnexpectedShape reports a record value whose structure the fixed source
// schema does not allow.
var ErrUnexpectedShape = eris.New("model: unexpected record shape")

// Accident is one decoded accident record. Its shape follows the XML it was
// converted from, so values are strings, nested mappings or lists.
type Accident map[string]any

// Text returns the string value of a field. A missing field or a non-string
// value is an error.
func (a Accident) Text(field string) (string, error) {
	v, ok := a[field]
	if !ok {
		return "", eris.Wrapf(ErrUnexpectedShape, "field %q missing", field)
	}
	s, ok := v.(string)
	if !ok {
		return "", eris.Wrapf(ErrUnexpectedShape, "field %q is %T, not text", field, v)
	}
	return s, nil
}
