package model

import (
	"fmt"
	"strings"
)

// Table is a rectangular grid of cells reconstructed from OCR tokens
type Table struct {
	Rows [][]Cell
	Page int // 0-indexed page the table came from; -1 for concatenations
}

// Cell represents a table cell
type Cell struct {
	Text string
	BBox BBox // Union of the contributing tokens; empty for padding
}

// NewTable creates a new table with given dimensions
func NewTable(rows, cols int) *Table {
	table := &Table{
		Rows: make([][]Cell, rows),
	}
	for i := 0; i < rows; i++ {
		table.Rows[i] = make([]Cell, cols)
	}
	return table
}

// NewTableFromStrings builds a table from a grid of strings, padding short
// rows with empty cells.
func NewTableFromStrings(rows [][]string) *Table {
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	table := NewTable(len(rows), cols)
	for i, row := range rows {
		for j, text := range row {
			table.Rows[i][j].Text = text
		}
	}
	return table
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ColCount returns the number of columns in the first row
func (t *Table) ColCount() int {
	if t == nil || len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// IsEmpty reports whether the table has no rows. An empty table means no
// table was found; it is not an error.
func (t *Table) IsEmpty() bool {
	return t.RowCount() == 0
}

// GetCell returns the cell at the given row and column (0-indexed)
func (t *Table) GetCell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return &t.Rows[row][col]
}

// SetCell sets the cell at the given position
func (t *Table) SetCell(row, col int, cell Cell) error {
	if row < 0 || row >= len(t.Rows) {
		return fmt.Errorf("row index %d out of bounds", row)
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return fmt.Errorf("col index %d out of bounds", col)
	}
	t.Rows[row][col] = cell
	return nil
}

// Strings returns the cell texts as a grid of strings
func (t *Table) Strings() [][]string {
	if t == nil {
		return nil
	}
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = make([]string, len(row))
		for j, cell := range row {
			out[i][j] = cell.Text
		}
	}
	return out
}

// Concat joins tables row-wise. Rows are padded to the widest table so the
// result stays rectangular. Nil and empty tables are skipped.
func Concat(tables ...*Table) *Table {
	cols := 0
	rows := 0
	for _, t := range tables {
		if t.IsEmpty() {
			continue
		}
		cols = max(cols, t.ColCount())
		rows += t.RowCount()
	}

	out := &Table{Rows: make([][]Cell, 0, rows), Page: -1}
	for _, t := range tables {
		if t.IsEmpty() {
			continue
		}
		for _, row := range t.Rows {
			padded := make([]Cell, cols)
			copy(padded, row)
			out.Rows = append(out.Rows, padded)
		}
	}
	return out
}

// GetText returns the table as tab-separated lines
func (t *Table) GetText() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			sb.WriteString(cell.Text)
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToMarkdown converts the table to markdown format. The first row is used
// as the header row.
func (t *Table) ToMarkdown() string {
	if len(t.Rows) == 0 {
		return ""
	}

	var sb strings.Builder

	writeRow := func(row []Cell) {
		for _, cell := range row {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(cell.Text, "|", "\\|"))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(t.Rows[0])
	for range t.Rows[0] {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")

	for i := 1; i < len(t.Rows); i++ {
		writeRow(t.Rows[i])
	}

	return sb.String()
}

// ToCSV converts the table to CSV text without a byte order mark
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			text := cell.Text
			if strings.ContainsAny(text, ",\"\r\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(row)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
