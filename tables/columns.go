package tables

import (
	"sort"

	"github.com/JennaRuan/scantables/model"
)

// defaultColumnDivisor derives the column tolerance from the image width
// when none is configured: 1/50 of the page is roughly one character at
// typical statement font sizes.
const defaultColumnDivisor = 50

// columnBands clusters the left edges of all tokens into bands. Two
// neighbouring edges belong to the same band when their gap is at most
// tolerance. The returned map gives the band index for each left edge.
func columnBands(tokens []model.Token, tolerance int) (map[int]int, int) {
	lefts := make([]int, 0, len(tokens))
	seen := make(map[int]bool, len(tokens))
	for _, tok := range tokens {
		if !seen[tok.BBox.Left] {
			seen[tok.BBox.Left] = true
			lefts = append(lefts, tok.BBox.Left)
		}
	}
	sort.Ints(lefts)

	bandOf := make(map[int]int, len(lefts))
	band := -1
	for i, x := range lefts {
		if i == 0 || x-lefts[i-1] > tolerance {
			band++
		}
		bandOf[x] = band
	}
	return bandOf, band + 1
}

// alignByPosition places each token in the column band of its left edge.
// Tokens of one row that share a band are joined with a space.
func (r *Reconstructor) alignByPosition(rows []row, tokens []model.Token, imageWidth int) *model.Table {
	tolerance := r.config.ColumnTolerance
	if tolerance <= 0 {
		tolerance = max(1, imageWidth/defaultColumnDivisor)
	}

	bandOf, cols := columnBands(tokens, tolerance)

	table := model.NewTable(len(rows), cols)
	for i, rw := range rows {
		for _, tok := range rw.tokens {
			cell := &table.Rows[i][bandOf[tok.BBox.Left]]
			if cell.Text == "" {
				cell.Text = tok.Text
			} else {
				cell.Text += " " + tok.Text
			}
			cell.BBox = cell.BBox.Union(tok.BBox)
		}
		for j := range table.Rows[i] {
			table.Rows[i][j].Text = normalizeText(table.Rows[i][j].Text)
		}
	}
	return table
}
