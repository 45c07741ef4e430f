// Package raster renders PDF pages to images.
//
// Two backends are available:
//
//   - "poppler" runs pdftoppm and decodes the PNG files it writes
//   - "mupdf" renders in-process with go-fitz
//
// [PageCount] reads the page count with pdfcpu without rendering anything.
package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/JennaRuan/scantables/internal/runner"
)

// Backend names accepted by New
const (
	BackendPoppler = "poppler"
	BackendMuPDF   = "mupdf"
)

// DefaultDPI is the rendering resolution used when none is configured
const DefaultDPI = 200

var (
	// ErrNoPages is returned when rendering produced no page images
	ErrNoPages = errors.New("no pages rendered")
	// ErrUnknownBackend is returned by New for unsupported backend names
	ErrUnknownBackend = errors.New("unknown rasterizer backend")
)

// Page is one rendered page
type Page struct {
	Index int // 0-indexed page number in the document
	Image image.Image
}

// Options selects the pages and resolution to render
type Options struct {
	DPI       int // Rendering resolution; 0 means DefaultDPI
	FirstPage int // 1-indexed first page; 0 means 1
	MaxPages  int // Number of pages to render; 0 means all remaining
}

// DefaultOptions renders the first page at DefaultDPI
func DefaultOptions() Options {
	return Options{DPI: DefaultDPI, FirstPage: 1, MaxPages: 1}
}

func (o Options) withDefaults() Options {
	if o.DPI <= 0 {
		o.DPI = DefaultDPI
	}
	if o.FirstPage <= 0 {
		o.FirstPage = 1
	}
	if o.MaxPages < 0 {
		o.MaxPages = 0
	}
	return o
}

// LastPage returns the 1-indexed last page to render, or 0 for "to the end"
func (o Options) LastPage() int {
	o = o.withDefaults()
	if o.MaxPages == 0 {
		return 0
	}
	return o.FirstPage + o.MaxPages - 1
}

// Validate checks the options
func (o Options) Validate() error {
	var errs []error
	if o.DPI < 0 {
		errs = append(errs, fmt.Errorf("DPI must not be negative, got %d", o.DPI))
	}
	if o.FirstPage < 0 {
		errs = append(errs, fmt.Errorf("first page must not be negative, got %d", o.FirstPage))
	}
	if o.MaxPages < 0 {
		errs = append(errs, fmt.Errorf("max pages must not be negative, got %d", o.MaxPages))
	}
	return errors.Join(errs...)
}

// Rasterizer renders pages of a PDF file. Pages are returned in document
// order.
type Rasterizer interface {
	Name() string
	Rasterize(ctx context.Context, path string, opts Options) ([]Page, error)
}

// Config holds backend settings
type Config struct {
	Pdftoppm string // pdftoppm executable for the poppler backend
	TempDir  string // Parent directory for intermediate files; "" uses the OS default
}

// New creates the rasterizer registered under name. An empty name selects
// poppler.
func New(name string, config Config, r runner.Runner) (Rasterizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendPoppler:
		return NewPoppler(config, r), nil
	case BackendMuPDF:
		return NewMuPDF(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}
}
