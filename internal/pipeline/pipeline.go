// Package pipeline wires the stages together: filter the record set,
// extract columns through the compiled selector, sort, render in the
// requested format, and route the result. All construction-time
// validation happens in New, before any record is touched; Run never
// writes partial output to the data stream.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"listpipe/internal/column"
	"listpipe/internal/filter"
	"listpipe/internal/format"
	"listpipe/internal/output"
	"listpipe/internal/record"
	"listpipe/internal/sorter"
	"listpipe/internal/terminfo"
	"listpipe/internal/tree"
)

// ErrInvalidOptions reports a construction-time configuration problem.
var ErrInvalidOptions = errors.New("invalid pipeline options")

// emptyResultNotice goes to the status stream when filtering leaves
// nothing to render.
const emptyResultNotice = "No records found."

// TreeOptions designates the identity and provenance fields for the
// tree format.
type TreeOptions struct {
	KeyField    string
	ParentField string
}

// Options configures one pipeline construction.
type Options struct {
	// Columns define the extracted table; required for every format
	// except tree.
	Columns []column.Config
	// SelectColumns optionally narrows the rendered columns to an
	// ordered subset of header names.
	SelectColumns []string
	// MaxColumns caps the number of rendered columns; zero means no cap.
	MaxColumns int
	// Filters are AND-composed; an empty chain passes everything.
	Filters filter.Chain
	// SortSpec uses the "column:asc,other:desc" grammar; empty selects
	// the default sort (first column ascending).
	SortSpec string
	// SortTypes optionally assigns comparison semantics per column name.
	SortTypes map[string]sorter.DataType
	// Format picks the output representation.
	Format format.Format
	// Delimiter overrides the csv separator.
	Delimiter rune
	// FlexColumn names the table column that absorbs leftover width.
	FlexColumn string
	// Markdown renders inline markdown in the flexible table column.
	Markdown bool
	// Workers enables parallel column extraction when > 1.
	Workers int
	// Terminal is the injected capabilities probe result.
	Terminal terminfo.Capabilities
	// Tree is consulted only when Format is tree.
	Tree TreeOptions
	// Logger receives stage diagnostics; nil means no logging.
	Logger *zap.Logger
}

// Pipeline is the compiled, reusable form of Options.
type Pipeline struct {
	opts      Options
	selector  *column.Selector
	formatter format.Formatter
	sortKeys  []sorter.Key
	log       *zap.Logger
}

// New validates the whole configuration up front: column expressions
// compile, the column subset resolves, the sort spec parses against the
// selected headers, and the format is known. Any failure here happens
// before a single record is processed.
func New(opts Options) (*Pipeline, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	p := &Pipeline{opts: opts, log: log}

	if opts.Format == format.FormatTree {
		if opts.Tree.KeyField == "" || opts.Tree.ParentField == "" {
			return nil, fmt.Errorf("%w: tree format needs key and parent fields", ErrInvalidOptions)
		}
		return p, nil
	}

	var selectorOpts []column.Option
	if opts.Workers > 1 {
		selectorOpts = append(selectorOpts, column.WithWorkers(opts.Workers))
	}
	selector, err := column.NewSelector(opts.Columns, selectorOpts...)
	if err != nil {
		return nil, err
	}
	if err := selector.Select(opts.SelectColumns); err != nil {
		return nil, err
	}
	p.selector = selector

	headers := selector.Headers()
	if opts.MaxColumns > 0 && len(headers) > opts.MaxColumns {
		if err := selector.Select(headers[:opts.MaxColumns]); err != nil {
			return nil, err
		}
		headers = selector.Headers()
	}

	keys, err := sorter.ParseSpec(opts.SortSpec, headers)
	if err != nil {
		return nil, err
	}
	for i, key := range keys {
		if t, ok := opts.SortTypes[key.Column]; ok {
			keys[i] = key.WithType(t)
		}
	}
	p.sortKeys = keys

	formatter, err := format.New(opts.Format)
	if err != nil {
		return nil, err
	}
	p.formatter = formatter

	return p, nil
}

// Run executes the pipeline once over a materialized record set and
// routes exactly one output: rendered data on success, a short notice on
// an empty result.
func (p *Pipeline) Run(records record.Set, router *output.Router) error {
	runID := uuid.NewString()
	start := time.Now()
	p.log.Debug("pipeline start",
		zap.String("run_id", runID),
		zap.String("format", string(p.opts.Format)),
		zap.Int("records", len(records)))

	filtered := p.opts.Filters.Apply(records)
	p.log.Debug("filter stage done",
		zap.String("run_id", runID),
		zap.Int("in", len(records)),
		zap.Int("out", len(filtered)))

	if len(filtered) == 0 {
		return router.WriteStatus(emptyResultNotice)
	}

	var rendered string
	var err error
	if p.opts.Format == format.FormatTree {
		rendered, err = p.renderTree(filtered)
	} else {
		rendered, err = p.renderRows(filtered, runID)
	}
	if err != nil {
		return err
	}

	p.log.Debug("pipeline done",
		zap.String("run_id", runID),
		zap.Duration("elapsed", time.Since(start)))

	return router.WriteData(rendered)
}

// renderRows is the tabular path: extract, sort, format.
func (p *Pipeline) renderRows(records record.Set, runID string) (string, error) {
	headers, rows, err := p.selector.Extract(records)
	if err != nil {
		return "", err
	}
	p.log.Debug("extract stage done",
		zap.String("run_id", runID),
		zap.Int("columns", len(headers)),
		zap.Int("rows", len(rows)))

	rows = sorter.Sort(rows, p.sortKeys)

	return p.formatter.Render(headers, rows, format.Options{
		Terminal:   p.opts.Terminal,
		Delimiter:  p.opts.Delimiter,
		FlexColumn: p.opts.FlexColumn,
		Markdown:   p.opts.Markdown,
	})
}

// renderTree is the hierarchical path: it consumes the raw filtered
// records, not extracted rows, since parent links live in record fields.
func (p *Pipeline) renderTree(records record.Set) (string, error) {
	roots, err := tree.Build(records, p.opts.Tree.KeyField, p.opts.Tree.ParentField)
	if err != nil {
		return "", err
	}
	return tree.Render(roots), nil
}
