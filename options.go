package scantables

import (
	"maps"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/JennaRuan/scantables/config"
	"github.com/JennaRuan/scantables/internal/runner"
	"github.com/JennaRuan/scantables/ocr"
	"github.com/JennaRuan/scantables/raster"
)

// ExtractOptions holds configuration for table extraction.
type ExtractOptions struct {
	cfg config.Config

	// Component overrides; nil uses the configured backend
	rasterizer raster.Rasterizer
	engine     ocr.Engine
	runner     runner.Runner

	logger logrus.FieldLogger
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		cfg: config.Default(),
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o
	newOpts.cfg = cloneConfig(o.cfg)
	return newOpts
}

// cloneConfig copies the slices and maps of cfg so chained extractors do
// not share them.
func cloneConfig(cfg config.Config) config.Config {
	cfg.Inputs = slices.Clone(cfg.Inputs)
	cfg.OCR.Languages = slices.Clone(cfg.OCR.Languages)
	cfg.OCR.Variables = maps.Clone(cfg.OCR.Variables)
	return cfg
}
