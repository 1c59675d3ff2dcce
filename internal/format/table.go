package format

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
)

// Width distribution constants for interactive tables.
const (
	// CompactColumnMaxWidth caps every column except the flexible one.
	CompactColumnMaxWidth = 20
	// FlexColumnMaxWidth and FlexColumnMinWidth bound the single
	// flexible column that absorbs leftover terminal width.
	FlexColumnMaxWidth = 60
	FlexColumnMinWidth = 30
	// MinColumnWidth is the absolute floor below which content is
	// truncated with an ellipsis.
	MinColumnWidth = 5
	// columnPadding is the per-column border/padding overhead.
	columnPadding = 3

	// defaultFlexColumn is the conventional free-text column.
	defaultFlexColumn = "Description"

	cellEllipsis = "..."
)

// TableFormatter renders a styled table on interactive terminals and
// degrades to script-friendly plain output when stdout is a pipe.
type TableFormatter struct{}

// Render implements Formatter.
func (f *TableFormatter) Render(headers []string, rows [][]string, opts Options) (string, error) {
	if !opts.Terminal.Interactive {
		return renderPlain(headers, rows)
	}

	termWidth := opts.Terminal.Width
	if termWidth <= 0 {
		termWidth = 80
	}

	flexIdx := findFlexColumn(headers, opts.FlexColumn)

	widths, err := distributeWidths(headers, rows, flexIdx, termWidth)
	if err != nil {
		return "", err
	}

	if opts.Markdown && flexIdx >= 0 {
		rows = renderMarkdownColumn(rows, flexIdx)
	}

	return renderStyledTable(headers, rows, widths), nil
}

// renderPlain is the non-interactive degradation: a bare value list for a
// single column, otherwise tab-separated values with a header row, so
// piping into line-oriented tools keeps working.
func renderPlain(headers []string, rows [][]string) (string, error) {
	if len(headers) == 1 {
		var sb strings.Builder
		for _, row := range rows {
			if len(row) > 0 {
				sb.WriteString(row[0])
			}
			sb.WriteByte('\n')
		}
		return sb.String(), nil
	}

	tsv := &DelimitedFormatter{format: FormatTSV}
	return tsv.Render(headers, rows, Options{})
}

// findFlexColumn picks the flexible column index: the named one when
// configured, the conventional Description column otherwise, -1 if
// neither exists.
func findFlexColumn(headers []string, name string) int {
	if name == "" {
		name = defaultFlexColumn
	}
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	return -1
}

// distributeWidths assigns a display width to every column. Compact
// columns get their natural width capped at CompactColumnMaxWidth; the
// flexible column absorbs the remainder within its bounds; everything
// shrinks toward MinColumnWidth when the terminal is narrow.
func distributeWidths(headers []string, rows [][]string, flexIdx, termWidth int) ([]int, error) {
	numColumns := len(headers)
	if numColumns == 0 {
		return nil, nil
	}

	available := termWidth - numColumns*columnPadding
	if available < numColumns*MinColumnWidth {
		return nil, fmt.Errorf(
			"%w (need %d columns of at least %d cells in %d).\n\nSuggestions:\n- select fewer columns with --columns\n- use --format csv, json or yaml for complete data",
			ErrTableTooWide, numColumns, MinColumnWidth, termWidth)
	}

	natural := naturalWidths(headers, rows)

	widths := make([]int, numColumns)
	for i, w := range natural {
		if i == flexIdx {
			continue
		}
		if w > CompactColumnMaxWidth {
			w = CompactColumnMaxWidth
		}
		if w < MinColumnWidth {
			w = MinColumnWidth
		}
		widths[i] = w
	}

	if flexIdx >= 0 {
		used := 0
		for i, w := range widths {
			if i != flexIdx {
				used += w
			}
		}
		widths[flexIdx] = clamp(available-used, FlexColumnMinWidth, FlexColumnMaxWidth)
	}

	shrinkToFit(widths, available, flexIdx)
	return widths, nil
}

// naturalWidths measures each column's widest content including the
// header, in display cells.
func naturalWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

// shrinkToFit reduces non-flexible columns, then the flexible one, until
// the total fits. Every column stops at MinColumnWidth; the guard in
// distributeWidths guarantees that is enough.
func shrinkToFit(widths []int, available, flexIdx int) {
	total := 0
	for _, w := range widths {
		total += w
	}
	excess := total - available
	if excess <= 0 {
		return
	}

	// Flexible column gives width back first, down to its own floor.
	if flexIdx >= 0 {
		give := min(excess, widths[flexIdx]-FlexColumnMinWidth)
		if give > 0 {
			widths[flexIdx] -= give
			excess -= give
		}
	}

	for i := range widths {
		if excess <= 0 {
			break
		}
		floor := MinColumnWidth
		give := min(excess, widths[i]-floor)
		if give > 0 {
			widths[i] -= give
			excess -= give
		}
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// fitCell truncates with an ellipsis when content exceeds the column
// width, then pads to it so borders align.
func fitCell(s string, width int) string {
	if lipgloss.Width(s) > width {
		tail := cellEllipsis
		if width <= len(cellEllipsis) {
			tail = ""
		}
		s = runewidth.Truncate(s, width, tail)
	}
	return runewidth.FillRight(s, width)
}

// renderStyledTable draws the bordered table: bold header with a rule
// under it, no outer borders, semantic per-cell coloring.
func renderStyledTable(headers []string, rows [][]string, widths []int) string {
	fitted := make([][]string, len(rows))
	for i, row := range rows {
		fitted[i] = make([]string, len(row))
		for j, cell := range row {
			if j < len(widths) {
				fitted[i][j] = fitCell(cell, widths[j])
			} else {
				fitted[i][j] = cell
			}
		}
	}

	paddedHeaders := make([]string, len(headers))
	for i, h := range headers {
		if i < len(widths) {
			paddedHeaders[i] = fitCell(h, widths[i])
		} else {
			paddedHeaders[i] = h
		}
	}

	headerStyle := lipgloss.NewStyle().Bold(true)
	baseStyle := lipgloss.NewStyle()

	t := table.New().
		Headers(paddedHeaders...).
		Rows(fitted...).
		BorderHeader(true).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderRow(false).
		BorderColumn(false).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			base := baseStyle.Padding(0, 1)
			if row >= 0 && row < len(fitted) && col < len(fitted[row]) {
				return cellStyle(strings.TrimSpace(fitted[row][col]), base)
			}
			return base
		})

	return t.String() + "\n"
}

var collapseSpaces = regexp.MustCompile(`\s+`)

// renderMarkdownColumn renders inline markdown (bold, code, links) in the
// flexible column, flattening block output back to a single line. Any
// rendering failure leaves the original cell untouched.
func renderMarkdownColumn(rows [][]string, flexIdx int) [][]string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return rows
	}
	defer renderer.Close()

	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		copy(out[i], row)
		if flexIdx >= len(row) || row[flexIdx] == "" {
			continue
		}
		rendered, err := renderer.Render(row[flexIdx])
		if err != nil {
			continue
		}
		rendered = strings.ReplaceAll(rendered, "\n", " ")
		out[i][flexIdx] = strings.TrimSpace(collapseSpaces.ReplaceAllString(rendered, " "))
	}
	return out
}
