package model

// Page holds what the pipeline learned about a single page.
type Page struct {
	Index  int // 0-indexed position within the document
	Width  int // Processed image width in pixels
	Height int // Processed image height in pixels

	Tokens []Token
	Table  *Table
}

// NewPage creates a page with the given processed image dimensions
func NewPage(index, width, height int) *Page {
	return &Page{
		Index:  index,
		Width:  width,
		Height: height,
	}
}

// Number returns the 1-indexed page number
func (p *Page) Number() int {
	return p.Index + 1
}

// HasTable reports whether a non-empty table was reconstructed for the page
func (p *Page) HasTable() bool {
	return p.Table != nil && !p.Table.IsEmpty()
}
