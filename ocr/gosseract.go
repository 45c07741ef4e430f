//go:build ocr

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sort"
	"strconv"

	"github.com/otiai10/gosseract/v2"

	"github.com/JennaRuan/scantables/model"
)

// Gosseract wraps libtesseract via gosseract. A new client is created for
// every image so the engine can be shared between goroutines.
type Gosseract struct {
	config Config
}

// NewGosseract creates a cgo-backed engine
func NewGosseract(config Config) (*Gosseract, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Gosseract{config: config}, nil
}

// Name returns the engine name
func (e *Gosseract) Name() string { return EngineGosseract }

// Recognize performs word-level OCR on img. The engine mode is fixed by
// gosseract to the default (LSTM when available).
func (e *Gosseract) Recognize(ctx context.Context, img image.Image) ([]model.Token, error) {
	if img == nil {
		return nil, ErrNoImage
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := e.setup(client); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	tokens := make([]model.Token, 0, len(boxes))
	for i, b := range boxes {
		tokens = append(tokens, model.Token{
			Text:       b.Word,
			BBox:       model.NewBBox(b.Box.Min.X, b.Box.Min.Y, b.Box.Dx(), b.Box.Dy()),
			Confidence: int(b.Confidence),
			Level:      model.LevelWord,
			Word:       i + 1,
		})
	}
	return tokens, nil
}

func (e *Gosseract) setup(client *gosseract.Client) error {
	c := e.config
	if c.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(c.TessdataPrefix); err != nil {
			return fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(c.Languages...); err != nil {
		return fmt.Errorf("set languages: %w", err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(c.PageSegMode)); err != nil {
		return fmt.Errorf("set page segmentation mode: %w", err)
	}
	if c.DPI > 0 {
		if err := client.SetVariable("user_defined_dpi", strconv.Itoa(c.DPI)); err != nil {
			return fmt.Errorf("set dpi: %w", err)
		}
	}

	keys := make([]string, 0, len(c.Variables))
	for k := range c.Variables {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := client.SetVariable(gosseract.SettableVariable(k), c.Variables[k]); err != nil {
			return fmt.Errorf("set variable %s: %w", k, err)
		}
	}
	return nil
}
