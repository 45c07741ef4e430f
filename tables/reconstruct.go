package tables

import (
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/JennaRuan/scantables/model"
)

// Reconstructor turns OCR tokens into a rectangular table using a fixed
// vertical band for row clustering.
type Reconstructor struct {
	config Config
}

// NewReconstructor creates a reconstructor with default configuration.
func NewReconstructor() *Reconstructor {
	return &Reconstructor{
		config: DefaultConfig(),
	}
}

// Name returns the reconstructor's identifier.
func (r *Reconstructor) Name() string {
	return "bucket"
}

// Configure validates and sets the reconstructor configuration.
func (r *Reconstructor) Configure(config Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	r.config = config
	return nil
}

// Config returns the active configuration.
func (r *Reconstructor) Config() Config {
	return r.config
}

// row is a transient group of tokens sharing a row bucket
type row struct {
	bucket int
	tokens []model.Token
}

// Reconstruct builds a table from tokens. imageWidth is the width of the
// processed image the token coordinates refer to. If no token survives
// filtering the returned table has zero rows.
func (r *Reconstructor) Reconstruct(tokens []model.Token, imageWidth int) *model.Table {
	kept := r.filter(tokens)
	if len(kept) == 0 {
		return model.NewTable(0, 0)
	}

	rows := r.bucketRows(kept)

	switch r.config.Alignment {
	case AlignByPosition:
		return r.alignByPosition(rows, kept, imageWidth)
	default:
		return r.alignByCount(rows)
	}
}

// filter drops blank tokens and tokens at or below the confidence threshold
func (r *Reconstructor) filter(tokens []model.Token) []model.Token {
	kept := make([]model.Token, 0, len(tokens))
	for _, tok := range tokens {
		if tok.IsBlank() || tok.Confidence <= r.config.MinConfidence {
			continue
		}
		kept = append(kept, tok)
	}
	return kept
}

// bucketRows groups tokens by floor(top / RowTolerance), visiting buckets top
// to bottom and ordering each bucket left to right. Equal left offsets keep
// their input order.
func (r *Reconstructor) bucketRows(tokens []model.Token) []row {
	band := r.config.RowTolerance
	if band <= 0 {
		band = DefaultConfig().RowTolerance
	}

	byBucket := make(map[int][]model.Token)
	for _, tok := range tokens {
		key := floorDiv(tok.BBox.Top, band)
		byBucket[key] = append(byBucket[key], tok)
	}

	keys := make([]int, 0, len(byBucket))
	for k := range byBucket {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	rows := make([]row, 0, len(keys))
	for _, k := range keys {
		line := byBucket[k]
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].BBox.Left < line[j].BBox.Left
		})
		rows = append(rows, row{bucket: k, tokens: line})
	}
	return rows
}

// alignByCount pads every row with empty cells up to the longest row
func (r *Reconstructor) alignByCount(rows []row) *model.Table {
	maxCols := 0
	for _, rw := range rows {
		maxCols = max(maxCols, len(rw.tokens))
	}

	table := model.NewTable(len(rows), maxCols)
	for i, rw := range rows {
		for j, tok := range rw.tokens {
			table.Rows[i][j] = model.Cell{
				Text: normalizeText(tok.Text),
				BBox: tok.BBox,
			}
		}
	}
	return table
}

// floorDiv divides rounding towards negative infinity so that bucket
// boundaries behave the same above and below the origin.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// normalizeText collapses whitespace runs into single spaces, trims the
// result and composes it to NFC.
func normalizeText(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}
