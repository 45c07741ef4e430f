package raster

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/tiff"
)

func writeScan(t *testing.T, name string, encode func(io.Writer, image.Image) error) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 40, 20))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.SetGray(5, 5, color.Gray{Y: 0})

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadImage(t *testing.T) {
	tests := []struct {
		name   string
		encode func(io.Writer, image.Image) error
	}{
		{"scan.png", png.Encode},
		{"scan.jpg", func(w io.Writer, m image.Image) error { return jpeg.Encode(w, m, nil) }},
		{"scan.tif", func(w io.Writer, m image.Image) error { return tiff.Encode(w, m, nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScan(t, tt.name, tt.encode)

			pages, err := LoadImage(path)
			if err != nil {
				t.Fatalf("LoadImage() failed: %v", err)
			}
			if len(pages) != 1 || pages[0].Index != 0 {
				t.Fatalf("LoadImage() = %d pages, want one page 0", len(pages))
			}
			if b := pages[0].Image.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
				t.Errorf("bounds = %v, want 40x20", b)
			}
		})
	}
}

func TestLoadImageErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadImage(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}

	garbage := filepath.Join(dir, "garbage.png")
	if err := os.WriteFile(garbage, []byte("\x89PNG\r\n\x1a\nnot really"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadImage(garbage); err == nil {
		t.Error("expected error for corrupt image")
	}
}
