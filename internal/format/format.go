// Package format renders the ordered (headers, rows) pair produced by the
// column selector into one of the supported output representations. Every
// formatter is a pure function from rows to a string; terminal
// capabilities are injected through Options rather than probed inside the
// renderers.
package format

import (
	"errors"
	"fmt"
	"strings"

	"listpipe/internal/terminfo"
)

// Sentinel errors.
var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrTableTooWide  = errors.New("the table is too wide to display properly")
)

// Format identifies an output representation.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatCSV   Format = "csv"
	FormatTSV   Format = "tsv"
	FormatTree  Format = "tree"
)

// DefaultCSVDelimiter separates csv cells unless overridden.
const DefaultCSVDelimiter = ','

// Parse validates a format name.
func Parse(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatTable, FormatJSON, FormatYAML, FormatCSV, FormatTSV, FormatTree:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: table, json, yaml, csv, tsv, tree)", ErrUnknownFormat, name)
	}
}

// Options carries per-render settings shared by all formatters.
type Options struct {
	// Terminal holds the injected capabilities probe result; only the
	// table formatter consults it.
	Terminal terminfo.Capabilities
	// Delimiter overrides the csv separator; ignored by tsv, which is
	// always tab.
	Delimiter rune
	// FlexColumn names the single column that absorbs leftover table
	// width. Empty selects the conventional "Description" column when
	// present.
	FlexColumn string
	// Markdown enables inline markdown rendering in the flexible column
	// of interactive tables.
	Markdown bool
}

// Formatter renders one representation of the extracted rows.
type Formatter interface {
	Render(headers []string, rows [][]string, opts Options) (string, error)
}

// New returns the formatter for a format name. Tree is not a row
// formatter: it consumes raw records and lives in the tree package, so
// requesting it here is an error.
func New(f Format) (Formatter, error) {
	switch f {
	case FormatTable:
		return &TableFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatCSV:
		return &DelimitedFormatter{format: FormatCSV}, nil
	case FormatTSV:
		return &DelimitedFormatter{format: FormatTSV}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
}
