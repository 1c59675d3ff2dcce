// Package column compiles named column expressions once and evaluates them
// against every record to produce the (headers, rows) table the rest of the
// pipeline consumes. Expressions are Go text/template fragments evaluated
// with a curated function map; they are pure and side-effect free.
//
// Degradation policy: a field absent from a record renders as an empty
// cell. A template that fails to parse is a construction error; a template
// that fails to execute aborts extraction with an error naming the column
// and the record.
package column

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/sync/errgroup"

	"listpipe/internal/record"
)

// Sentinel errors for selector construction and extraction.
var (
	ErrInvalidConfig = errors.New("invalid column configuration")
	ErrEvalFailed    = errors.New("column evaluation failed")
)

// noValueMarker is what text/template emits for missing map keys. The
// selector normalizes it to an empty cell so missing fields degrade
// instead of leaking template internals into output.
const noValueMarker = "<no value>"

// Config defines one output column: the display header, the template
// expression evaluated per record, and an optional display width hint
// consumed by the table formatter.
type Config struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
	Width int    `yaml:"width,omitempty"`
}

type compiledColumn struct {
	config Config
	tmpl   *template.Template
}

// Selector holds the compiled form of an ordered column list. Compile
// once, extract many times; a Selector is stateless across Extract calls
// except for the active column subset chosen with Select.
type Selector struct {
	columns  []compiledColumn
	selected []int // indices into columns, in display order
	workers  int
}

// Option configures a Selector at construction time.
type Option func(*Selector)

// WithWorkers enables parallel per-record evaluation with at most n
// concurrent workers. Rows are reassembled in record order regardless.
func WithWorkers(n int) Option {
	return func(s *Selector) { s.workers = n }
}

// NewSelector compiles the column configs. It fails fast, naming the
// offending column, on empty names or values, duplicate names, and
// template syntax errors.
func NewSelector(configs []Config, opts ...Option) (*Selector, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("%w: no columns configured", ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(configs))
	columns := make([]compiledColumn, 0, len(configs))
	for _, cfg := range configs {
		if cfg.Name == "" {
			return nil, fmt.Errorf("%w: column name cannot be empty", ErrInvalidConfig)
		}
		if cfg.Value == "" {
			return nil, fmt.Errorf("%w: column %q has no value expression", ErrInvalidConfig, cfg.Name)
		}
		if seen[cfg.Name] {
			return nil, fmt.Errorf("%w: duplicate column name %q", ErrInvalidConfig, cfg.Name)
		}
		seen[cfg.Name] = true

		tmpl, err := template.New(cfg.Name).Funcs(FuncMap()).Parse(cfg.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q: %v", ErrInvalidConfig, cfg.Name, err)
		}
		columns = append(columns, compiledColumn{config: cfg, tmpl: tmpl})
	}

	s := &Selector{columns: columns}
	for i := range columns {
		s.selected = append(s.selected, i)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Select narrows the selector to an ordered subset of columns by header
// name. A nil or empty list restores all configured columns. Unknown
// names are a construction error.
func (s *Selector) Select(names []string) error {
	if len(names) == 0 {
		s.selected = s.selected[:0]
		for i := range s.columns {
			s.selected = append(s.selected, i)
		}
		return nil
	}

	indices := make([]int, 0, len(names))
	for _, name := range names {
		idx := -1
		for i, col := range s.columns {
			if col.config.Name == name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: unknown column %q", ErrInvalidConfig, name)
		}
		indices = append(indices, idx)
	}
	s.selected = indices
	return nil
}

// Headers returns the active column headers in display order.
func (s *Selector) Headers() []string {
	headers := make([]string, len(s.selected))
	for i, idx := range s.selected {
		headers[i] = s.columns[idx].config.Name
	}
	return headers
}

// Widths returns the configured width hints for the active columns;
// zero means no hint.
func (s *Selector) Widths() []int {
	widths := make([]int, len(s.selected))
	for i, idx := range s.selected {
		widths[i] = s.columns[idx].config.Width
	}
	return widths
}

// Extract evaluates every active column against every record. The
// returned headers and rows are index-aligned: len(headers) equals the
// number of active columns and every row has exactly that many cells, in
// record order.
func (s *Selector) Extract(records record.Set) ([]string, [][]string, error) {
	headers := s.Headers()
	rows := make([][]string, len(records))

	if s.workers > 1 && len(records) > 1 {
		if err := s.extractParallel(records, rows); err != nil {
			return nil, nil, err
		}
	} else {
		for i, rec := range records {
			row, err := s.extractRow(rec, i)
			if err != nil {
				return nil, nil, err
			}
			rows[i] = row
		}
	}

	return headers, rows, nil
}

// extractParallel fans record evaluation out over a bounded worker group.
// Each worker writes to its own row index, so the output stays in record
// order without further reassembly.
func (s *Selector) extractParallel(records record.Set, rows [][]string) error {
	g := new(errgroup.Group)
	g.SetLimit(s.workers)

	for i, rec := range records {
		g.Go(func() error {
			row, err := s.extractRow(rec, i)
			if err != nil {
				return err
			}
			rows[i] = row
			return nil
		})
	}
	return g.Wait()
}

func (s *Selector) extractRow(rec record.Record, index int) ([]string, error) {
	row := make([]string, len(s.selected))
	for i, idx := range s.selected {
		col := s.columns[idx]

		var buf bytes.Buffer
		if err := col.tmpl.Execute(&buf, rec); err != nil {
			return nil, fmt.Errorf("%w: column %q, record %s: %v",
				ErrEvalFailed, col.config.Name, recordIdentity(rec, index), err)
		}
		row[i] = normalizeCell(buf.String())
	}
	return row, nil
}

// recordIdentity names a record for error messages: its index, plus its
// "name" field when one exists.
func recordIdentity(rec record.Record, index int) string {
	if name := record.GetString(rec, "name"); name != "" {
		return fmt.Sprintf("#%d (%s)", index, name)
	}
	return fmt.Sprintf("#%d", index)
}

// normalizeCell maps template missing-value markers to empty cells.
func normalizeCell(cell string) string {
	if cell == noValueMarker {
		return ""
	}
	if strings.Contains(cell, noValueMarker) {
		cell = strings.ReplaceAll(cell, noValueMarker, "")
	}
	return cell
}
