package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/JennaRuan/scantables/internal/runner"
	"github.com/JennaRuan/scantables/model"
)

// Engine names accepted by New
const (
	EngineTesseract = "tesseract"
	EngineGosseract = "gosseract"
)

var (
	// ErrUnknownEngine is returned by New for unsupported engine names
	ErrUnknownEngine = errors.New("unknown OCR engine")
	// ErrNoImage is returned when Recognize is called without an image
	ErrNoImage = errors.New("no image to recognize")
	// ErrOCRNotEnabled is returned when the gosseract engine is requested
	// but was not compiled in. Rebuild with -tags ocr to enable it.
	ErrOCRNotEnabled = errors.New("gosseract engine not enabled; rebuild with -tags ocr")
)

// Engine recognizes text tokens in an image. Coordinates of the returned
// tokens are in the pixel space of the given image. Tokens are returned in
// engine order, including empty and low-confidence ones.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, img image.Image) ([]model.Token, error)
}

// Config controls the OCR engine
type Config struct {
	Languages      []string          // Combined with "+", e.g. spa+eng
	PageSegMode    PageSegMode       // Layout analysis mode
	EngineMode     EngineMode        // Recognition engine
	TessdataPrefix string            // Exported as TESSDATA_PREFIX when set
	Binary         string            // tesseract executable for the CLI engine
	DPI            int               // Resolution hint; 0 lets tesseract guess
	Variables      map[string]string // Extra tesseract variables (-c key=value)
}

// DefaultConfig returns the configuration for Spanish/English statements
func DefaultConfig() Config {
	return Config{
		Languages:   []string{"spa", "eng"},
		PageSegMode: PSM_SINGLE_BLOCK,
		EngineMode:  OEM_DEFAULT,
		Binary:      "tesseract",
	}
}

// Language returns the language hint in tesseract syntax
func (c Config) Language() string {
	return strings.Join(c.Languages, "+")
}

// Validate checks the configuration
func (c Config) Validate() error {
	var errs []error
	if len(c.Languages) == 0 {
		errs = append(errs, errors.New("at least one OCR language is required"))
	}
	for _, lang := range c.Languages {
		if strings.TrimSpace(lang) == "" || strings.Contains(lang, "+") {
			errs = append(errs, fmt.Errorf("invalid OCR language %q", lang))
		}
	}
	if !c.PageSegMode.Valid() {
		errs = append(errs, fmt.Errorf("page segmentation mode %d out of range", c.PageSegMode))
	}
	if !c.EngineMode.Valid() {
		errs = append(errs, fmt.Errorf("engine mode %d out of range", c.EngineMode))
	}
	if c.DPI < 0 {
		errs = append(errs, fmt.Errorf("DPI must not be negative, got %d", c.DPI))
	}
	return errors.Join(errs...)
}

// New creates the engine registered under name. An empty name selects the
// tesseract CLI engine. r is only used by engines that run external tools
// and may be nil.
func New(name string, config Config, r runner.Runner) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EngineTesseract:
		engine, err := NewCLI(config, r)
		if err != nil {
			return nil, err
		}
		return engine, nil
	case EngineGosseract:
		engine, err := NewGosseract(config)
		if err != nil {
			return nil, err
		}
		return engine, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}

// Names lists the supported engine names
func Names() []string {
	return []string{EngineTesseract, EngineGosseract}
}
