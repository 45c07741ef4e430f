// Package tables reconstructs row/column table structure from OCR tokens.
//
// OCR engines return an unordered bag of tokens, each with a bounding box and
// a confidence score. The [Reconstructor] turns that bag into a rectangular
// [model.Table].
//
// # Algorithm
//
//  1. Filter: drop tokens whose trimmed text is empty or whose confidence is
//     at or below [Config.MinConfidence]
//  2. Row bucketing: a token belongs to row floor(top / RowTolerance)
//  3. Ordering: rows top to bottom, tokens left to right (stable)
//  4. Column normalization: pad short rows with empty cells
//  5. Text normalization: collapse whitespace runs, trim, NFC
//
// Bucketing uses a fixed band. Tokens whose tops fall
// in the same band share a printed line, which absorbs small bounding-box
// jitter; a token exactly on a band boundary belongs to the lower-numbered
// (higher on the page) row.
//
// # Column alignment
//
// [AlignByCount] (the default) assumes that the n-th token of every row is in
// column n. [AlignByPosition] instead clusters token left edges across the
// whole page into column bands, so a row with a missing value keeps its
// remaining values under the right headings.
//
// # Configuration
//
//	r := tables.NewReconstructor()
//	config := tables.DefaultConfig()
//	config.RowTolerance = 15
//	if err := r.Configure(config); err != nil {
//	    // handle error
//	}
//	table := r.Reconstruct(tokens, imageWidth)
//
// A table with zero rows means no table was found on the page. It is a
// normal outcome, not an error.
package tables
