package format

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"listpipe/internal/terminfo"
)

func sampleData() ([]string, [][]string) {
	headers := []string{"Name", "Stage"}
	rows := [][]string{
		{"vpc", "dev"},
		{"eks", "prod"},
	}
	return headers, rows
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Format
		expectErr bool
	}{
		{"table", "table", FormatTable, false},
		{"json", "json", FormatJSON, false},
		{"yaml", "yaml", FormatYAML, false},
		{"csv", "csv", FormatCSV, false},
		{"tsv", "tsv", FormatTSV, false},
		{"tree", "tree", FormatTree, false},
		{"case insensitive", "JSON", FormatJSON, false},
		{"empty defaults to table", "", FormatTable, false},
		{"unknown", "xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.expectErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRejectsTree(t *testing.T) {
	// Tree is not a row formatter; it consumes raw records.
	_, err := New(FormatTree)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestTableNonInteractiveDegradesToTSV(t *testing.T) {
	headers, rows := sampleData()

	tf := &TableFormatter{}
	got, err := tf.Render(headers, rows, Options{Terminal: terminfo.Plain()})
	require.NoError(t, err)

	tsv, err := NewDelimited(FormatTSV).Render(headers, rows, Options{})
	require.NoError(t, err)

	assert.Equal(t, tsv, got)
	assert.Equal(t, "Name\tStage\nvpc\tdev\neks\tprod\n", got)
}

func TestTableNonInteractiveSingleColumn(t *testing.T) {
	tf := &TableFormatter{}
	got, err := tf.Render([]string{"Name"}, [][]string{{"vpc"}, {"eks"}}, Options{Terminal: terminfo.Plain()})
	require.NoError(t, err)

	// One column: bare values, no header decoration.
	assert.Equal(t, "vpc\neks\n", got)
}

func TestTableInteractive(t *testing.T) {
	headers, rows := sampleData()

	tf := &TableFormatter{}
	got, err := tf.Render(headers, rows, Options{
		Terminal: terminfo.Capabilities{Interactive: true, Width: 80},
	})
	require.NoError(t, err)

	assert.Contains(t, got, "Name")
	assert.Contains(t, got, "Stage")
	assert.Contains(t, got, "vpc")
	assert.Contains(t, got, "prod")
}

func TestTableTooWide(t *testing.T) {
	headers := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	rows := [][]string{{"1", "2", "3", "4", "5", "6", "7", "8"}}

	tf := &TableFormatter{}
	_, err := tf.Render(headers, rows, Options{
		Terminal: terminfo.Capabilities{Interactive: true, Width: 20},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTableTooWide)
}

func TestDistributeWidths(t *testing.T) {
	headers := []string{"Name", "Description"}
	rows := [][]string{
		{"vpc", strings.Repeat("long description ", 10)},
	}

	widths, err := distributeWidths(headers, rows, 1, 120)
	require.NoError(t, err)
	require.Len(t, widths, 2)

	// Compact column stays at its natural width, capped at 20.
	assert.LessOrEqual(t, widths[0], CompactColumnMaxWidth)
	assert.GreaterOrEqual(t, widths[0], MinColumnWidth)
	// Flexible column absorbs the remainder within its bounds.
	assert.GreaterOrEqual(t, widths[1], FlexColumnMinWidth)
	assert.LessOrEqual(t, widths[1], FlexColumnMaxWidth)
}

func TestDistributeWidthsNarrowTerminal(t *testing.T) {
	headers := []string{"Name", "Description"}
	rows := [][]string{{"a-rather-long-name", "text"}}

	widths, err := distributeWidths(headers, rows, 1, 46)
	require.NoError(t, err)

	total := 0
	for _, w := range widths {
		assert.GreaterOrEqual(t, w, MinColumnWidth)
		total += w
	}
	assert.LessOrEqual(t, total, 46-len(headers)*columnPadding)
}

func TestFitCell(t *testing.T) {
	assert.Equal(t, "hello     ", fitCell("hello", 10))
	assert.Equal(t, "hello w...", fitCell("hello world and more", 10))
	assert.Equal(t, "h...", fitCell("hello world", 4))
	assert.Equal(t, "hel", fitCell("hello world", 3))
}

func TestCSVRoundTrip(t *testing.T) {
	headers := []string{"Name", "Notes"}
	rows := [][]string{
		{"vpc", "plain"},
		{"eks", "has, comma"},
		{"rds", "has \"quotes\""},
		{"sqs", "has\nnewline"},
	}

	out, err := NewDelimited(FormatCSV).Render(headers, rows, Options{})
	require.NoError(t, err)

	parsed, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, parsed, len(rows)+1)
	assert.Equal(t, headers, parsed[0])
	for i, row := range rows {
		assert.Equal(t, row, parsed[i+1])
	}
}

func TestCSVCustomDelimiter(t *testing.T) {
	headers, rows := sampleData()
	out, err := NewDelimited(FormatCSV).Render(headers, rows, Options{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, "Name;Stage\nvpc;dev\neks;prod\n", out)
}

func TestTSVRoundTrip(t *testing.T) {
	headers, rows := sampleData()
	out, err := NewDelimited(FormatTSV).Render(headers, rows, Options{})
	require.NoError(t, err)

	r := csv.NewReader(strings.NewReader(out))
	r.Comma = '\t'
	parsed, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, headers, parsed[0])
	assert.Equal(t, rows[0], parsed[1])

	// The delimiter override does not apply to tsv.
	fixed, err := NewDelimited(FormatTSV).Render(headers, rows, Options{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, out, fixed)
}

func TestJSONFormatter(t *testing.T) {
	headers, rows := sampleData()
	out, err := (&JSONFormatter{}).Render(headers, rows, Options{})
	require.NoError(t, err)

	var parsed []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	require.Len(t, parsed, 2)
	assert.Equal(t, "vpc", parsed[0]["Name"])
	assert.Equal(t, "prod", parsed[1]["Stage"])

	// Keys appear in configured column order.
	assert.Less(t, strings.Index(out, `"Name"`), strings.Index(out, `"Stage"`))
}

func TestJSONFormatterEmpty(t *testing.T) {
	out, err := (&JSONFormatter{}).Render([]string{"Name"}, nil, Options{})
	require.NoError(t, err)

	var parsed []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Empty(t, parsed)
}

func TestYAMLFormatter(t *testing.T) {
	headers, rows := sampleData()
	out, err := (&YAMLFormatter{}).Render(headers, rows, Options{})
	require.NoError(t, err)

	var parsed []map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(out), &parsed))
	require.Len(t, parsed, 2)
	assert.Equal(t, "vpc", parsed[0]["Name"])
	assert.Equal(t, "prod", parsed[1]["Stage"])

	// Column order survives node-based marshaling.
	assert.Less(t, strings.Index(out, "Name:"), strings.Index(out, "Stage:"))
}

func TestRaggedRowsSerializeAsEmpty(t *testing.T) {
	headers := []string{"A", "B"}
	rows := [][]string{{"only-a"}}

	out, err := (&JSONFormatter{}).Render(headers, rows, Options{})
	require.NoError(t, err)
	var parsed []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "", parsed[0]["B"])
}
