package output

import (
	"fmt"
	"io"
	"strings"
)

// Table accumulates column widths as rows are added, rather than
// rescanning every cell at render time, since shard and share listings
// are built one row per shard/share and rendered exactly once.
type Table struct {
	headers   []string
	rows      [][]string
	widths    []int
	noHeader  bool
	separator string
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	return &Table{
		headers:   headers,
		widths:    widths,
		separator: "  ",
	}
}

// AddRow appends a row, widening any column whose cell exceeds the
// current tracked width (including columns beyond the header count).
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
	if len(cells) > len(t.widths) {
		widths := make([]int, len(cells))
		copy(widths, t.widths)
		t.widths = widths
	}
	for i, cell := range cells {
		if len(cell) > t.widths[i] {
			t.widths[i] = len(cell)
		}
	}
}

// SetNoHeader suppresses the header row and its separator line.
func (t *Table) SetNoHeader(noHeader bool) {
	t.noHeader = noHeader
}

// SetSeparator overrides the default two-space column separator.
func (t *Table) SetSeparator(sep string) {
	t.separator = sep
}

// Render writes the table to w: an optional header and dashed separator
// line, then one padded, separator-joined line per row.
func (t *Table) Render(w io.Writer) error {
	if len(t.headers) == 0 && len(t.rows) == 0 {
		return nil
	}

	if !t.noHeader && len(t.headers) > 0 {
		if err := t.writeLine(w, t.paddedCells(t.headers)); err != nil {
			return err
		}
		if err := t.writeLine(w, t.dashes()); err != nil {
			return err
		}
	}

	for _, row := range t.rows {
		if err := t.writeLine(w, t.paddedCells(row)); err != nil {
			return err
		}
	}

	return nil
}

// String renders the table to a string.
func (t *Table) String() string {
	var sb strings.Builder
	_ = t.Render(&sb)
	return sb.String()
}

// paddedCells left-justifies cells to the tracked column widths,
// padding missing trailing cells with blanks.
func (t *Table) paddedCells(cells []string) []string {
	out := make([]string, len(t.widths))
	for i, width := range t.widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		out[i] = fmt.Sprintf("%-*s", width, cell)
	}
	return out
}

// dashes builds a separator line of dashes matching each column's width.
func (t *Table) dashes() []string {
	out := make([]string, len(t.widths))
	for i, width := range t.widths {
		out[i] = strings.Repeat("-", width)
	}
	return out
}

func (t *Table) writeLine(w io.Writer, cells []string) error {
	_, err := fmt.Fprintln(w, strings.Join(cells, t.separator))
	return err
}
