package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Column defines a table column.
type Column struct {
	Title string
	Width int
	Right bool // right-align, for numbers
}

// Row is a slice of cell values.
type Row []string

// Table renders a lipgloss-styled table.
type Table struct {
	Columns []Column
	Rows    []Row
}

// NewTable creates a new table.
func NewTable(cols []Column) *Table {
	return &Table{Columns: cols}
}

// AddRow appends a row.
func (t *Table) AddRow(r Row) {
	t.Rows = append(t.Rows, r)
}

// pad fits s into exactly width terminal cells, truncating with "…" if needed.
// Widths are measured with lipgloss so multi-byte glyphs line up.
func pad(s string, width int, right bool) string {
	w := lipgloss.Width(s)
	if w > width {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
			r = r[:len(r)-1]
		}
		s = string(r) + "…"
		w = lipgloss.Width(s)
	}
	fill := strings.Repeat(" ", max(width-w, 0))
	if right {
		return fill + s
	}
	return s + fill
}

// Render returns the full table as a string.
// Cells are padded before styling to guarantee exact column widths.
func (t *Table) Render() string {
	var sb strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(ColorValue)
	dimStyle := lipgloss.NewStyle().Foreground(ColorMeta)

	// Header row.
	var headers []string
	for _, col := range t.Columns {
		headers = append(headers, headerStyle.Render(pad(col.Title, col.Width, col.Right)))
	}
	sb.WriteString(strings.Join(headers, " "))
	sb.WriteString("\n")

	// Divider.
	var divParts []string
	for _, col := range t.Columns {
		divParts = append(divParts, dimStyle.Render(strings.Repeat("-", col.Width)))
	}
	sb.WriteString(strings.Join(divParts, " "))
	sb.WriteString("\n")

	// Data rows.
	for _, row := range t.Rows {
		var cells []string
		for j, col := range t.Columns {
			val := ""
			if j < len(row) {
				val = row[j]
			}
			cells = append(cells, cellStyle.Render(pad(val, col.Width, col.Right)))
		}
		sb.WriteString(strings.Join(cells, " "))
		sb.WriteString("\n")
	}

	return sb.String()
}

// KeyValueBlock renders a set of key-value pairs in a bordered box.
func KeyValueBlock(title string, pairs [][2]string) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(StyleTitle.Render(title))
		sb.WriteString("\n")
	}
	for _, p := range pairs {
		key := StyleMeta.Render(fmt.Sprintf("%-16s", p[0]+":"))
		val := StyleValue.Render(p[1])
		sb.WriteString("  " + key + " " + val + "\n")
	}
	return StyleBorder.Render(sb.String())
}
