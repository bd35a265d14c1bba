package render

import (
	"strings"

	"subarray/internal/analysis"

	"github.com/charmbracelet/lipgloss"
)

// Column is a table column. Numeric columns are right-aligned so indices
// and totals line up on their last digit.
type Column struct {
	Header  string
	Numeric bool
}

// Text returns a left-aligned column.
func Text(header string) Column { return Column{Header: header} }

// Number returns a right-aligned column.
func Number(header string) Column { return Column{Header: header, Numeric: true} }

// ResultColumns are the columns filled by Cells, in order.
func ResultColumns() []Column {
	return []Column{Number("Start"), Number("End"), Number("Length"), Number("Total")}
}

// Table renders rows of analysis output with aligned columns.
type Table struct {
	Title   string
	Columns []Column
	Rows    [][]string
}

// NewTable creates a Table with the given title and columns.
func NewTable(title string, columns ...Column) *Table {
	return &Table{Title: title, Columns: columns}
}

// AddRow adds a row. Cells beyond the last column are dropped.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// AddResult adds a row made of leading cells, the result cells of r and
// trailing cells, matching columns built as leading + ResultColumns() + trailing.
func (t *Table) AddResult(leading []string, r analysis.Result, trailing ...string) {
	row := make([]string, 0, len(leading)+4+len(trailing))
	row = append(row, leading...)
	row = append(row, Cells(r)...)
	t.AddRow(append(row, trailing...)...)
}

// View renders the table. A table without rows renders as "".
func (t *Table) View(styles Styles) string {
	if len(t.Rows) == 0 {
		return ""
	}

	widths := t.widths()
	sep := styles.Muted.Render(" | ")

	line := func(cells []string, base lipgloss.Style) string {
		parts := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			style := base.Width(widths[i])
			if col.Numeric {
				style = style.Align(lipgloss.Right)
			}
			parts[i] = style.Render(cell)
		}
		return strings.Join(parts, sep)
	}

	headers := make([]string, len(t.Columns))
	rule := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Header
		rule[i] = strings.Repeat("-", widths[i])
	}

	var sb strings.Builder
	if t.Title != "" {
		sb.WriteString(styles.Title.Render(t.Title) + "\n")
	}
	sb.WriteString(line(headers, styles.Bold) + "\n")
	sb.WriteString(styles.Muted.Render(strings.Join(rule, "-+-")) + "\n")
	for _, row := range t.Rows {
		sb.WriteString(line(row, styles.Body) + "\n")
	}
	return sb.String()
}

func (t *Table) widths() []int {
	widths := make([]int, len(t.Columns))
	for i, col := range t.Columns {
		widths[i] = lipgloss.Width(col.Header)
	}
	for _, row := range t.Rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	return widths
}
