// Package ui renders todoctl output for terminals and pipes.
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	cellMaxWidth = 50
	cellEllipsis = "..."
	columnGap    = 2
)

// Table collects rows and renders them as aligned columns. Cells may carry
// ANSI styling; widths are measured on visible characters.
type Table struct {
	headers []string
	rows    [][]string
}

func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) String() string {
	return FormatTable(t.headers, t.rows)
}

// FormatTable renders headers and rows as an aligned table. Line breaks and
// tabs inside cells are flattened to spaces.
func FormatTable(headers []string, rows [][]string) string {
	all := make([][]string, 0, len(rows)+1)
	all = append(all, normalizeRow(headers))
	for _, row := range rows {
		all = append(all, normalizeRow(row))
	}

	widths := make([]int, len(headers))
	for _, row := range all {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for _, row := range all {
		for i, cell := range row {
			b.WriteString(cell)
			if i == len(row)-1 {
				break
			}
			pad := columnGap
			if i < len(widths) {
				pad += widths[i] - lipgloss.Width(cell)
			}
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// TruncateCell limits a cell to the table's maximum width.
func TruncateCell(value string) string {
	value = normalizeCell(value)
	if lipgloss.Width(value) <= cellMaxWidth {
		return value
	}
	return truncate.StringWithTail(value, cellMaxWidth, cellEllipsis)
}

func normalizeRow(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = normalizeCell(cell)
	}
	return out
}

var cellReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

func normalizeCell(value string) string {
	return cellReplacer.Replace(value)
}
