// Package model provides the value types that flow through the scan-to-table
// pipeline.
//
// The lifecycle of a document is:
//
//	page image -> processed image -> []Token -> *Table (per page) -> document *Table
//
// # Tokens
//
// A [Token] is one fragment recognized by the OCR engine. Its [BBox] is
// expressed in the pixel space of the processed (enhanced) image, with the
// origin at the top-left corner and Y growing downwards.
//
// # Tables
//
// A [Table] is always rectangular: every row holds exactly [Table.ColCount]
// cells. Tables of several pages are joined with [Concat], which re-pads the
// result to the widest input.
//
//	table := model.Concat(page1, page2)
//	fmt.Print(table.ToCSV())
package model
