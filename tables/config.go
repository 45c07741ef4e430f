package tables

import (
	"errors"
	"fmt"
	"strings"
)

// Alignment selects how tokens are assigned to columns
type Alignment int

const (
	// AlignByCount places the n-th token of a row in column n
	AlignByCount Alignment = iota
	// AlignByPosition places tokens in column bands shared by the whole page
	AlignByPosition
)

// String returns the configuration name of the alignment
func (a Alignment) String() string {
	switch a {
	case AlignByCount:
		return "count"
	case AlignByPosition:
		return "position"
	default:
		return fmt.Sprintf("Alignment(%d)", int(a))
	}
}

// ParseAlignment parses "count" or "position"
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "count":
		return AlignByCount, nil
	case "position":
		return AlignByPosition, nil
	default:
		return 0, fmt.Errorf("unknown column alignment %q (want count or position)", s)
	}
}

// Config holds reconstructor configuration
type Config struct {
	// Tokens with confidence at or below this value are discarded (0-100)
	MinConfidence int

	// Height of a row band in pixels
	RowTolerance int

	// Column assignment strategy
	Alignment Alignment

	// Maximum horizontal gap between left edges in the same column band
	// (pixels). Zero derives it from the image width. Only used by
	// AlignByPosition.
	ColumnTolerance int
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinConfidence:   60,
		RowTolerance:    10,
		Alignment:       AlignByCount,
		ColumnTolerance: 0,
	}
}

// Validate checks the configuration for out-of-range values
func (c Config) Validate() error {
	var errs []error
	if c.MinConfidence < -1 || c.MinConfidence > 100 {
		errs = append(errs, fmt.Errorf("min confidence %d out of range [-1, 100]", c.MinConfidence))
	}
	if c.RowTolerance <= 0 {
		errs = append(errs, fmt.Errorf("row tolerance must be positive, got %d", c.RowTolerance))
	}
	if c.ColumnTolerance < 0 {
		errs = append(errs, fmt.Errorf("column tolerance must not be negative, got %d", c.ColumnTolerance))
	}
	if c.Alignment != AlignByCount && c.Alignment != AlignByPosition {
		errs = append(errs, fmt.Errorf("unknown column alignment %v", c.Alignment))
	}
	return errors.Join(errs...)
}
