// Package dataset loads the converted accident database and walks its records.
package dataset

import (
	"iter"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/schlagwetter/internal/jsonfile"
	"github.com/sells-group/schlagwetter/internal/model"
)

// Dataset is the fully loaded list of accident records, in file order.
type Dataset struct {
	records []model.Accident
}

// Open reads and decodes the JSON file at path. Every call reads the file
// again; nothing is cached between calls.
func Open(path string, s model.Schema) (*Dataset, error) {
	var doc map[string]any
	if err := jsonfile.Read(path, &doc); err != nil {
		return nil, eris.Wrap(err, "dataset: open")
	}
	return FromDocument(doc, s)
}

// FromDocument extracts the record list from a decoded document. A record
// element that occurs once decodes to a mapping rather than a list and is
// treated as a list of one.
func FromDocument(doc map[string]any, s model.Schema) (*Dataset, error) {
	root, ok := doc[s.Root].(map[string]any)
	if !ok {
		return nil, eris.Wrapf(model.ErrUnexpectedShape, "dataset: %q is not a mapping", s.Root)
	}

	var items []any
	switch v := root[s.Records].(type) {
	case []any:
		items = v
	case map[string]any:
		items = []any{v}
	case nil:
		return nil, eris.Wrapf(model.ErrUnexpectedShape, "dataset: %s.%s missing", s.Root, s.Records)
	default:
		return nil, eris.Wrapf(model.ErrUnexpectedShape, "dataset: %s.%s is %T", s.Root, s.Records, v)
	}

	records := make([]model.Accident, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, eris.Wrapf(model.ErrUnexpectedShape, "dataset: record %d is %T", i, item)
		}
		records = append(records, model.Accident(m))
	}

	return &Dataset{records: records}, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.records) }

// All yields the records in file order. The sequence can be ranged over any
// number of times.
func (d *Dataset) All() iter.Seq[model.Accident] {
	return func(yield func(model.Accident) bool) {
		for _, a := range d.records {
			if !yield(a) {
				return
			}
		}
	}
}

// Records returns a copy of the record list.
func (d *Dataset) Records() []model.Accident {
	out := make([]model.Accident, len(d.records))
	copy(out, d.records)
	return out
}

// Unique collects the text value of field from every record, drops
// duplicates and returns them sorted. Records where field is null (an empty
// element in the source) are skipped.
func Unique(records iter.Seq[model.Accident], field string) ([]string, error) {
	seen := make(map[string]struct{})
	i := 0
	for a := range records {
		if v, ok := a[field]; ok && v == nil {
			i++
			continue
		}
		v, err := a.Text(field)
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: record %d", i)
		}
		seen[v] = struct{}{}
		i++
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out, nil
}

// Locations returns the distinct accident locations.
func Locations(d *Dataset, s model.Schema) ([]string, error) {
	return Unique(d.All(), s.Location)
}

// NamePatrons returns the distinct mine names, sorted.
func NamePatrons(d *Dataset, s model.Schema) ([]string, error) {
	return Unique(d.All(), s.Mine)
}
