package format

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// DelimitedFormatter renders csv or tsv: a header row followed by one
// delimited row per record, with RFC 4180 quoting when a cell contains
// the delimiter, a quote or a newline.
type DelimitedFormatter struct {
	format Format
}

// NewDelimited builds a csv or tsv formatter directly.
func NewDelimited(f Format) *DelimitedFormatter {
	return &DelimitedFormatter{format: f}
}

// Render implements Formatter.
func (f *DelimitedFormatter) Render(headers []string, rows [][]string, opts Options) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	// tsv is always tab; csv honors the delimiter override.
	if f.format == FormatTSV {
		w.Comma = '\t'
	} else if opts.Delimiter != 0 {
		w.Comma = opts.Delimiter
	}

	if err := w.Write(headers); err != nil {
		return "", fmt.Errorf("write header row: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush delimited output: %w", err)
	}

	return buf.String(), nil
}
