package model

// Document collects the processed pages of one input file.
type Document struct {
	Path      string
	PageCount int // Total pages in the file; 0 when unknown
	Pages     []*Page
}

// NewDocument creates a new empty document for the given path
func NewDocument(path string) *Document {
	return &Document{
		Path:  path,
		Pages: make([]*Page, 0),
	}
}

// AddPage adds a page to the document
func (d *Document) AddPage(page *Page) {
	d.Pages = append(d.Pages, page)
}

// Tables returns the non-empty page tables in page order
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, p := range d.Pages {
		if p.HasTable() {
			tables = append(tables, p.Table)
		}
	}
	return tables
}

// Table concatenates all page tables into the document table
func (d *Document) Table() *Table {
	return Concat(d.Tables()...)
}
