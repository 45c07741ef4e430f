//go:build !ocr

package ocr

import (
	"context"
	"image"

	"github.com/JennaRuan/scantables/model"
)

// Gosseract is a stub engine that returns errors for all operations
type Gosseract struct{}

// NewGosseract returns an error indicating cgo OCR support is not enabled.
// The tesseract CLI engine works without it.
func NewGosseract(Config) (*Gosseract, error) {
	return nil, ErrOCRNotEnabled
}

// Name returns the engine name
func (e *Gosseract) Name() string { return EngineGosseract }

// Recognize returns ErrOCRNotEnabled
func (e *Gosseract) Recognize(context.Context, image.Image) ([]model.Token, error) {
	return nil, ErrOCRNotEnabled
}
