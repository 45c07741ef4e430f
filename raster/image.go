package raster

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/tiff"
)

// LoadImage reads a scanned page stored as PNG, JPEG or TIFF and returns
// it as a single page. Only the first image of a multi-page TIFF is read.
func LoadImage(path string) ([]Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if img.Bounds().Empty() {
		return nil, ErrNoPages
	}
	return []Page{{Index: 0, Image: img}}, nil
}
