// Package format detects the kind of input document.
package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned for inputs that are neither PDFs nor scans
var ErrUnsupported = errors.New("unsupported input format")

// Format represents a supported input format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// PNG indicates a single scanned page stored as PNG.
	PNG
	// JPEG indicates a single scanned page stored as JPEG.
	JPEG
	// TIFF indicates a single scanned page stored as TIFF.
	TIFF
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "PDF"
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case TIFF:
		return "TIFF"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	case TIFF:
		return ".tif"
	default:
		return ""
	}
}

// IsImage reports whether the format is a raster image rather than a PDF.
func (f Format) IsImage() bool {
	return f == PNG || f == JPEG || f == TIFF
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return PDF
	case ".png":
		return PNG
	case ".jpg", ".jpeg":
		return JPEG
	case ".tif", ".tiff":
		return TIFF
	default:
		return Unknown
	}
}

var (
	magicPDF    = []byte("%PDF-")
	magicPNG    = []byte("\x89PNG\r\n\x1a\n")
	magicJPEG   = []byte{0xff, 0xd8, 0xff}
	magicTIFFLE = []byte("II*\x00")
	magicTIFFBE = []byte("MM\x00*")
)

// DetectFromMagic checks file magic bytes to determine format.
// Returns Unknown if the format cannot be determined from magic bytes alone.
func DetectFromMagic(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, magicPDF):
		return PDF
	case bytes.HasPrefix(data, magicPNG):
		return PNG
	case bytes.HasPrefix(data, magicJPEG):
		return JPEG
	case bytes.HasPrefix(data, magicTIFFLE), bytes.HasPrefix(data, magicTIFFBE):
		return TIFF
	}

	// Some generators put junk before the PDF header; readers accept it
	// within the first kilobyte.
	if i := bytes.Index(data, magicPDF); i > 0 && i < 1024 {
		return PDF
	}
	return Unknown
}

// DetectFromReader inspects the first kilobyte of r.
func DetectFromReader(r io.Reader) (Format, error) {
	head := make([]byte, 1024)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return Unknown, err
	}
	return DetectFromMagic(head[:n]), nil
}

// DetectFile determines the format of the file at path from its content.
// ErrUnsupported is returned when the content is not recognized; the
// message names the format the extension claims, if any.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	kind, err := DetectFromReader(f)
	if err != nil {
		return Unknown, err
	}
	if kind == Unknown {
		if named := Detect(path); named != Unknown {
			return Unknown, fmt.Errorf("%w: %s is named like a %s but its content is not",
				ErrUnsupported, filepath.Base(path), named)
		}
		return Unknown, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
	}
	return kind, nil
}
