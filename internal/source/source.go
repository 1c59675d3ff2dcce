// Package source materializes the Record Set the pipeline consumes. The
// CLI feeds it a JSON or YAML document, from a file or stdin, holding
// either a top-level list of records or an object with a "records" list.
package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"listpipe/internal/record"
)

// ErrBadDocument is returned when the input parses but is not a record
// list in any recognized shape.
var ErrBadDocument = errors.New("input is not a list of records")

// Source fetches a Record Set once per invocation.
type Source interface {
	Fetch() (record.Set, error)
}

// File reads records from a path, or from stdin when the path is "-".
type File struct {
	Path string
}

// Fetch implements Source.
func (f *File) Fetch() (record.Set, error) {
	var data []byte
	var err error

	if f.Path == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return Parse(data, "")
	}

	data, err = os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read records from %s: %w", f.Path, err)
	}
	return Parse(data, filepath.Ext(f.Path))
}

// Reader wraps an io.Reader, for tests and embedding.
type Reader struct {
	R io.Reader
}

// Fetch implements Source.
func (r *Reader) Fetch() (record.Set, error) {
	data, err := io.ReadAll(r.R)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return Parse(data, "")
}

// Parse decodes a JSON or YAML document into a Record Set. The extension
// hint (".json", ".yaml", ".yml") picks the decoder; without one, JSON is
// tried first since every JSON document is also valid YAML.
func Parse(data []byte, ext string) (record.Set, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return parseJSON(data)
	case ".yaml", ".yml":
		return parseYAML(data)
	}

	if recs, err := parseJSON(data); err == nil {
		return recs, nil
	}
	return parseYAML(data)
}

func parseJSON(data []byte) (record.Set, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return coerceDocument(doc)
}

func parseYAML(data []byte) (record.Set, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return coerceDocument(doc)
}

// coerceDocument accepts a bare record list or an object with a
// "records" list.
func coerceDocument(doc any) (record.Set, error) {
	switch v := doc.(type) {
	case []any:
		return coerceList(v)
	case map[string]any:
		if list, ok := v["records"].([]any); ok {
			return coerceList(list)
		}
	}
	return nil, ErrBadDocument
}

func coerceList(list []any) (record.Set, error) {
	records := make(record.Set, 0, len(list))
	for i, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: element #%d is not an object", ErrBadDocument, i)
		}
		records = append(records, rec)
	}
	return records, nil
}
