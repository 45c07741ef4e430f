package imaging

import (
	"errors"
	"fmt"
	"strings"
)

// AdaptiveMethod selects how the local threshold is computed
type AdaptiveMethod int

const (
	// AdaptiveGaussian weights the window with a Gaussian kernel
	AdaptiveGaussian AdaptiveMethod = iota
	// AdaptiveMean uses the plain window mean
	AdaptiveMean
)

// String returns the configuration name of the method
func (m AdaptiveMethod) String() string {
	switch m {
	case AdaptiveGaussian:
		return "gaussian"
	case AdaptiveMean:
		return "mean"
	default:
		return fmt.Sprintf("AdaptiveMethod(%d)", int(m))
	}
}

// ParseAdaptiveMethod parses "gaussian" or "mean"
func ParseAdaptiveMethod(s string) (AdaptiveMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gaussian":
		return AdaptiveGaussian, nil
	case "mean":
		return AdaptiveMean, nil
	default:
		return 0, fmt.Errorf("unknown threshold method %q (want gaussian or mean)", s)
	}
}

// Config holds the enhancement parameters
type Config struct {
	// Resampling factor applied after grayscale conversion (1 = none)
	Scale float64

	// CLAHE clip limit; 0 disables clipping
	ClipLimit float64
	// CLAHE tile grid
	TileGridX int
	TileGridY int

	// Bilateral neighbourhood diameter in pixels
	BilateralDiameter int
	// Bilateral intensity sigma
	SigmaColor float64
	// Bilateral spatial sigma
	SigmaSpace float64

	// Adaptive threshold window method
	ThresholdMethod AdaptiveMethod
	// Adaptive threshold window size (odd, >= 3)
	BlockSize int
	// Constant subtracted from the local mean
	ThresholdC float64

	// Closing structuring element size (1 disables closing)
	CloseSize int
}

// DefaultConfig returns the parameters used for financial scans
func DefaultConfig() Config {
	return Config{
		Scale:             1.0,
		ClipLimit:         2.0,
		TileGridX:         8,
		TileGridY:         8,
		BilateralDiameter: 9,
		SigmaColor:        75,
		SigmaSpace:        75,
		ThresholdMethod:   AdaptiveGaussian,
		BlockSize:         11,
		ThresholdC:        2,
		CloseSize:         2,
	}
}

// Validate checks the configuration for out-of-range values
func (c Config) Validate() error {
	var errs []error
	if c.Scale <= 0 {
		errs = append(errs, fmt.Errorf("scale must be positive, got %g", c.Scale))
	}
	if c.ClipLimit < 0 {
		errs = append(errs, fmt.Errorf("clip limit must not be negative, got %g", c.ClipLimit))
	}
	if c.TileGridX < 1 || c.TileGridY < 1 {
		errs = append(errs, fmt.Errorf("tile grid must be at least 1x1, got %dx%d", c.TileGridX, c.TileGridY))
	}
	if c.BilateralDiameter < 1 {
		errs = append(errs, fmt.Errorf("bilateral diameter must be positive, got %d", c.BilateralDiameter))
	}
	if c.SigmaColor <= 0 || c.SigmaSpace <= 0 {
		errs = append(errs, fmt.Errorf("bilateral sigmas must be positive, got %g/%g", c.SigmaColor, c.SigmaSpace))
	}
	if c.ThresholdMethod != AdaptiveGaussian && c.ThresholdMethod != AdaptiveMean {
		errs = append(errs, fmt.Errorf("unknown threshold method %v", c.ThresholdMethod))
	}
	if c.BlockSize < 3 || c.BlockSize%2 == 0 {
		errs = append(errs, fmt.Errorf("block size must be odd and >= 3, got %d", c.BlockSize))
	}
	if c.CloseSize < 1 {
		errs = append(errs, fmt.Errorf("close size must be at least 1, got %d", c.CloseSize))
	}
	return errors.Join(errs...)
}
