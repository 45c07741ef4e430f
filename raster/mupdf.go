package raster

import (
	"context"
	"fmt"

	"github.com/gen2brain/go-fitz"
)

// MuPDF renders pages in-process through go-fitz
type MuPDF struct{}

// NewMuPDF creates a MuPDF rasterizer
func NewMuPDF() *MuPDF {
	return &MuPDF{}
}

// Name returns the backend name
func (m *MuPDF) Name() string { return BackendMuPDF }

// Rasterize renders the selected pages at opts.DPI
func (m *MuPDF) Rasterize(ctx context.Context, path string, opts Options) ([]Page, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	total := doc.NumPage()
	first := opts.FirstPage - 1
	last := total
	if opts.MaxPages > 0 {
		last = min(total, first+opts.MaxPages)
	}
	if first >= last {
		return nil, ErrNoPages
	}

	pages := make([]Page, 0, last-first)
	for i := first; i < last; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := doc.ImageDPI(i, float64(opts.DPI))
		if err != nil {
			return nil, fmt.Errorf("rendering page %d: %w", i+1, err)
		}
		pages = append(pages, Page{Index: i, Image: img})
	}
	return pages, nil
}
