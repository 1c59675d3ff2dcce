package main

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"listpipe/internal/column"
	"listpipe/internal/config"
	"listpipe/internal/filter"
	"listpipe/internal/format"
	"listpipe/internal/output"
	"listpipe/internal/pipeline"
	"listpipe/internal/sorter"
	"listpipe/internal/source"
	"listpipe/internal/terminfo"
)

var (
	flagFormat      string
	flagColumns     []string
	flagColumnDefs  []string
	flagSort        string
	flagSortTypes   []string
	flagFilters     []string
	flagGlobs       []string
	flagBools       []string
	flagDelimiter   string
	flagPlain       bool
	flagMarkdown    bool
	flagWorkers     int
	flagMaxColumns  int
	flagKeyField    string
	flagParentField string
)

// renderCmd runs the full pipeline over a records file (or stdin).
var renderCmd = &cobra.Command{
	Use:   "render [records-file]",
	Short: "Filter, extract, sort and render records",
	Long: `Reads records from a JSON or YAML file ("-" or no argument reads
stdin), applies the configured filters and columns, sorts, and writes
the rendered result to stdout. Status notices go to stderr, so captured
output stays clean.

Examples:
  listpipe render stacks.yaml --glob name=plat-ue2-* --format table
  cat records.json | listpipe render --columns Name,Stage --format csv
  listpipe render stacks.yaml --format tree --parent-field import`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&flagFormat, "format", "o", "", "Output format: table, json, yaml, csv, tsv, tree")
	renderCmd.Flags().StringSliceVar(&flagColumns, "columns", nil, "Comma-separated subset of columns to render, in order")
	renderCmd.Flags().StringArrayVar(&flagColumnDefs, "column", nil, "Column definition Header=template (repeatable, replaces configured columns)")
	renderCmd.Flags().StringVar(&flagSort, "sort", "", "Sort spec, e.g. 'Name:asc,Weight:desc'")
	renderCmd.Flags().StringArrayVar(&flagSortTypes, "sort-type", nil, "Comparison type Column=string|number|bool (repeatable)")
	renderCmd.Flags().StringArrayVar(&flagFilters, "filter", nil, "Exact-match filter field=value (repeatable, AND-composed)")
	renderCmd.Flags().StringArrayVar(&flagGlobs, "glob", nil, "Glob filter field=pattern (repeatable, AND-composed)")
	renderCmd.Flags().StringArrayVar(&flagBools, "bool", nil, "Boolean filter field=true|false (repeatable)")
	renderCmd.Flags().StringVar(&flagDelimiter, "delimiter", "", "CSV delimiter (single character, default ',')")
	renderCmd.Flags().BoolVar(&flagPlain, "plain", false, "Force plain non-interactive output for scripting")
	renderCmd.Flags().BoolVar(&flagMarkdown, "markdown", false, "Render inline markdown in the flexible table column")
	renderCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Parallel extraction workers (0 = sequential)")
	renderCmd.Flags().IntVar(&flagMaxColumns, "max-columns", 0, "Cap the number of rendered columns (0 = no cap)")
	renderCmd.Flags().StringVar(&flagKeyField, "key-field", "", "Record identity field for tree format")
	renderCmd.Flags().StringVar(&flagParentField, "parent-field", "", "Parent reference field for tree format")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		return err
	}

	p, err := pipeline.New(*opts)
	if err != nil {
		return err
	}

	src := recordSource(args)
	records, err := src.Fetch()
	if err != nil {
		return err
	}

	return p.Run(records, output.Default())
}

// buildOptions resolves precedence: explicit flags over config file over
// built-in defaults.
func buildOptions(cfg *config.Config) (*pipeline.Options, error) {
	formatName := cfg.Format
	if flagFormat != "" {
		formatName = flagFormat
	}
	f, err := format.Parse(formatName)
	if err != nil {
		return nil, err
	}

	columns := cfg.Columns
	if len(flagColumnDefs) > 0 {
		columns, err = parseColumnDefs(flagColumnDefs)
		if err != nil {
			return nil, err
		}
	}

	sortSpec := cfg.Sort
	if flagSort != "" {
		sortSpec = flagSort
	}

	sortTypes, err := parseSortTypes(flagSortTypes)
	if err != nil {
		return nil, err
	}

	delimiter, err := resolveDelimiter(cfg.Delimiter)
	if err != nil {
		return nil, err
	}

	filters, err := buildFilters()
	if err != nil {
		return nil, err
	}

	caps := terminfo.Detect(os.Stdout)
	if flagPlain {
		caps = terminfo.Plain()
	}

	keyField := cfg.Tree.KeyField
	if flagKeyField != "" {
		keyField = flagKeyField
	}
	parentField := cfg.Tree.ParentField
	if flagParentField != "" {
		parentField = flagParentField
	}

	return &pipeline.Options{
		Columns:       columns,
		SelectColumns: flagColumns,
		MaxColumns:    flagMaxColumns,
		Filters:       filters,
		SortSpec:      sortSpec,
		SortTypes:     sortTypes,
		Format:        f,
		Delimiter:     delimiter,
		FlexColumn:    cfg.FlexColumn,
		Markdown:      flagMarkdown,
		Workers:       flagWorkers,
		Terminal:      caps,
		Tree: pipeline.TreeOptions{
			KeyField:    keyField,
			ParentField: parentField,
		},
		Logger: logger,
	}, nil
}

// buildFilters assembles the AND chain from the repeatable filter flags.
func buildFilters() (filter.Chain, error) {
	var chain filter.Chain

	for _, spec := range flagGlobs {
		field, pattern, err := splitKeyValue(spec, "--glob")
		if err != nil {
			return nil, err
		}
		f, err := filter.Glob(field, pattern)
		if err != nil {
			return nil, err
		}
		chain = append(chain, f)
	}

	for _, spec := range flagFilters {
		field, value, err := splitKeyValue(spec, "--filter")
		if err != nil {
			return nil, err
		}
		chain = append(chain, filter.Exact(field, value))
	}

	for _, spec := range flagBools {
		field, value, err := splitKeyValue(spec, "--bool")
		if err != nil {
			return nil, err
		}
		var want bool
		switch strings.ToLower(value) {
		case "true":
			want = true
		case "false":
			want = false
		default:
			return nil, fmt.Errorf("--bool %s: value must be true or false", spec)
		}
		chain = append(chain, filter.Bool(field, &want))
	}

	return chain, nil
}

func parseColumnDefs(defs []string) ([]column.Config, error) {
	columns := make([]column.Config, 0, len(defs))
	for _, def := range defs {
		name, value, err := splitKeyValue(def, "--column")
		if err != nil {
			return nil, err
		}
		// Bare field names are sugar for a lookup template.
		if !strings.Contains(value, "{{") {
			value = fmt.Sprintf("{{ .%s }}", value)
		}
		columns = append(columns, column.Config{Name: name, Value: value})
	}
	return columns, nil
}

func parseSortTypes(specs []string) (map[string]sorter.DataType, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	types := make(map[string]sorter.DataType, len(specs))
	for _, spec := range specs {
		name, kind, err := splitKeyValue(spec, "--sort-type")
		if err != nil {
			return nil, err
		}
		switch strings.ToLower(kind) {
		case "string":
			types[name] = sorter.TypeString
		case "number":
			types[name] = sorter.TypeNumber
		case "bool", "boolean":
			types[name] = sorter.TypeBool
		default:
			return nil, fmt.Errorf("--sort-type %s: type must be string, number or bool", spec)
		}
	}
	return types, nil
}

func resolveDelimiter(fromConfig string) (rune, error) {
	text := fromConfig
	if flagDelimiter != "" {
		text = flagDelimiter
	}
	if text == "" {
		return 0, nil
	}
	if utf8.RuneCountInString(text) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", text)
	}
	r, _ := utf8.DecodeRuneInString(text)
	return r, nil
}

func recordSource(args []string) source.Source {
	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	return &source.File{Path: path}
}

func splitKeyValue(spec, flagName string) (string, string, error) {
	key, value, found := strings.Cut(spec, "=")
	if !found || key == "" {
		return "", "", fmt.Errorf("%s %q: expected key=value", flagName, spec)
	}
	return key, value, nil
}
