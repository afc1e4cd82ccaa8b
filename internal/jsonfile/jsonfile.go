// Package jsonfile reads and writes the indented JSON files the stages use
// to hand data to each other.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
)

const indent = "    "

// Encode writes v to w in the same indented layout as Write.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", indent)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// Write encodes v as indented JSON and replaces path with it.
func Write(path string, v any) error {
	var buf bytes.Buffer
	if err := Encode(&buf, v); err != nil {
		return eris.Wrapf(err, "jsonfile: encode %s", path)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return eris.Wrapf(err, "jsonfile: write %s", path)
	}
	return nil
}

// Read decodes the JSON file at path into v.
func Read(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return eris.Wrapf(err, "jsonfile: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return eris.Wrapf(err, "jsonfile: decode %s", path)
	}
	return nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
