package raster

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/JennaRuan/scantables/internal/pdftest"
)

func TestMuPDFRasterize(t *testing.T) {
	path := pdftest.Write(t, "blank.pdf", 3)

	pages, err := NewMuPDF().Rasterize(context.Background(), path, Options{DPI: 72, FirstPage: 2, MaxPages: 5})
	if err != nil {
		t.Skipf("MuPDF could not render: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("got %d pages, want 2", len(pages))
	}
	if pages[0].Index != 1 || pages[1].Index != 2 {
		t.Errorf("indexes = %d, %d, want 1, 2", pages[0].Index, pages[1].Index)
	}
	if pages[0].Image.Bounds().Dx() == 0 {
		t.Error("rendered page has zero width")
	}
}

func TestMuPDFPastEnd(t *testing.T) {
	path := pdftest.Write(t, "blank.pdf", 1)

	_, err := NewMuPDF().Rasterize(context.Background(), path, Options{FirstPage: 4})
	if err == nil {
		t.Error("expected error when the first page is past the end")
	}
}

func TestMuPDFMissingFile(t *testing.T) {
	_, err := NewMuPDF().Rasterize(context.Background(), filepath.Join(t.TempDir(), "none.pdf"), DefaultOptions())
	if err == nil {
		t.Error("expected error for missing file")
	}
}
