package imaging

import (
	"errors"
	"fmt"
	"image"
)

var (
	// ErrEnhance wraps every failure of the enhancement pipeline
	ErrEnhance = errors.New("image enhancement failed")
	// ErrEmptyImage is returned for nil or zero-area input
	ErrEmptyImage = errors.New("empty image")
)

// Stage names reported to an Observer
const (
	StageGrayscale = "grayscale"
	StageResize    = "resize"
	StageCLAHE     = "clahe"
	StageBilateral = "bilateral"
	StageThreshold = "threshold"
	StageClose     = "close"
)

// Observer receives every intermediate image produced by [Enhancer.Enhance].
// The image must not be modified.
type Observer func(stage string, img *image.Gray)

// Enhancer turns page images into binary images suitable for OCR
type Enhancer struct {
	config   Config
	observer Observer
}

// NewEnhancer creates an enhancer with default configuration
func NewEnhancer() *Enhancer {
	return &Enhancer{config: DefaultConfig()}
}

// Configure validates and sets the enhancer configuration
func (e *Enhancer) Configure(config Config) error {
	if err := config.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrEnhance, err)
	}
	e.config = config
	return nil
}

// Config returns the active configuration
func (e *Enhancer) Config() Config {
	return e.config
}

// SetObserver registers fn to receive intermediate images. Pass nil to
// remove it.
func (e *Enhancer) SetObserver(fn Observer) {
	e.observer = fn
}

// Enhance converts img to grayscale, equalizes contrast locally, smooths
// noise, binarizes and closes small gaps. The returned image has the same
// size as the input unless Scale is set, and bounds starting at (0, 0).
func (e *Enhancer) Enhance(img image.Image) (out *image.Gray, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: %v", ErrEnhance, r)
		}
	}()

	if img == nil || img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %w", ErrEnhance, ErrEmptyImage)
	}

	c := e.config
	gray := Grayscale(img)
	e.notify(StageGrayscale, gray)

	if c.Scale != 1 {
		gray = Resize(gray, c.Scale)
		e.notify(StageResize, gray)
	}

	eq := CLAHE(gray, c.ClipLimit, c.TileGridX, c.TileGridY)
	e.notify(StageCLAHE, eq)

	smooth := Bilateral(eq, c.BilateralDiameter, c.SigmaColor, c.SigmaSpace)
	e.notify(StageBilateral, smooth)

	binary := AdaptiveThreshold(smooth, c.ThresholdMethod, c.BlockSize, c.ThresholdC)
	e.notify(StageThreshold, binary)

	closed := Close(binary, c.CloseSize)
	e.notify(StageClose, closed)

	return closed, nil
}

func (e *Enhancer) notify(stage string, img *image.Gray) {
	if e.observer != nil {
		e.observer(stage, img)
	}
}
