// Package convert turns the accident archive XML into the JSON document the
// other stages read.
package convert

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/clbanning/mxj/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/sells-group/schlagwetter/internal/jsonfile"
	"github.com/sells-group/schlagwetter/internal/model"
)

// Activity is the provenance activity label of a conversion.
const Activity = "xml_to_json_conversion"

const description = "Convert provided XML-file to JSON."

// ErrInputNotFound is returned when the XML file does not exist.
var ErrInputNotFound = eris.New("convert: input file not found")

func init() {
	// Attributes become "@name" keys and mixed content "#text", the same
	// layout xmltodict produces.
	mxj.SetAttrPrefix("@")
	mxj.XmlCharsetReader = charsetReader
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(charset)
	if err != nil {
		return nil, eris.Wrapf(err, "convert: unsupported charset %q", charset)
	}
	return enc.NewDecoder().Reader(input), nil
}

// Recorder stores provenance records.
type Recorder interface {
	Add(ctx context.Context, rec model.ProvenanceRecord) error
}

// Options configures a conversion.
type Options struct {
	Input         string
	Output        string
	Agent         string
	PrimarySource string
}

// Result summarizes a finished conversion.
type Result struct {
	Output     string
	Provenance model.ProvenanceRecord
}

// XMLToMap parses an XML document into nested maps. Element names become
// keys, repeated elements become lists and leaf text stays a string. Empty
// elements become nil; empty attribute values stay "".
func XMLToMap(r io.Reader) (map[string]any, error) {
	m, err := mxj.NewMapXmlReader(r)
	if err != nil {
		return nil, eris.Wrap(err, "convert: parse xml")
	}
	doc := m.Old()
	nullEmpty(doc)
	return doc, nil
}

// nullEmpty replaces the "" mxj yields for empty elements with nil.
func nullEmpty(m map[string]any) {
	for k, v := range m {
		if strings.HasPrefix(k, "@") {
			continue
		}
		m[k] = nullEmptyValue(v)
	}
}

func nullEmptyValue(v any) any {
	switch val := v.(type) {
	case string:
		if val == "" {
			return nil
		}
	case map[string]any:
		nullEmpty(val)
	case []any:
		for i, item := range val {
			val[i] = nullEmptyValue(item)
		}
	}
	return v
}

// CheckInput returns ErrInputNotFound unless path is an existing file.
func CheckInput(path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return eris.Wrapf(ErrInputNotFound, "File %s does not exist", path)
	}
	return nil
}

// Run converts opts.Input to JSON at opts.Output, replacing any existing
// file, and records the conversion with rec.
func Run(ctx context.Context, opts Options, rec Recorder) (*Result, error) {
	if err := CheckInput(opts.Input); err != nil {
		return nil, err
	}

	started := time.Now().UTC()

	f, err := os.Open(opts.Input)
	if err != nil {
		return nil, eris.Wrap(err, "convert: open input")
	}
	defer f.Close() //nolint:errcheck

	doc, err := XMLToMap(f)
	if err != nil {
		return nil, err
	}

	if err := jsonfile.Write(opts.Output, doc); err != nil {
		return nil, eris.Wrap(err, "convert: write output")
	}

	zap.L().Info("converted xml to json",
		zap.String("input", opts.Input),
		zap.String("output", opts.Output),
	)

	record := model.ProvenanceRecord{
		Target:      opts.Output,
		Agents:      []string{opts.Agent},
		Activity:    Activity,
		Description: description,
		Sources:     []string{opts.Input},
		StartedAt:   started,
		EndedAt:     time.Now().UTC(),
	}
	if opts.PrimarySource != "" {
		record.PrimarySources = []string{opts.PrimarySource}
	}
	if err := rec.Add(ctx, record); err != nil {
		return nil, eris.Wrap(err, "convert: record provenance")
	}

	return &Result{Output: opts.Output, Provenance: record}, nil
}
