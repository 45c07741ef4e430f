package pipeline

import (
	"github.com/sirupsen/logrus"

	"github.com/JennaRuan/scantables/config"
	"github.com/JennaRuan/scantables/imaging"
	"github.com/JennaRuan/scantables/internal/runner"
	"github.com/JennaRuan/scantables/ocr"
	"github.com/JennaRuan/scantables/raster"
	"github.com/JennaRuan/scantables/tables"
)

// FromConfig builds a pipeline with every component configured from cfg.
// A nil runner executes external tools with os/exec. Extra options are
// applied last and may replace any configured component.
func FromConfig(cfg config.Config, log logrus.FieldLogger, r runner.Runner, extra ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		r = runner.New()
	}

	rasterizer, err := raster.New(cfg.Raster.Backend, cfg.RasterConfig(), r)
	if err != nil {
		return nil, err
	}
	engine, err := ocr.New(cfg.OCR.Engine, cfg.OCRConfig(), r)
	if err != nil {
		return nil, err
	}

	ic, err := cfg.ImagingConfig()
	if err != nil {
		return nil, err
	}
	enhancer := imaging.NewEnhancer()
	if err := enhancer.Configure(ic); err != nil {
		return nil, err
	}

	tc, err := cfg.TablesConfig()
	if err != nil {
		return nil, err
	}
	reconstructor := tables.NewReconstructor()
	if err := reconstructor.Configure(tc); err != nil {
		return nil, err
	}

	outOpts, err := cfg.OutputOptions()
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithEnhancer(enhancer),
		WithReconstructor(reconstructor),
		WithRasterOptions(cfg.RasterOptions()),
		WithOutput(outOpts),
		WithWorkers(cfg.Workers),
		WithDebugDir(cfg.Imaging.DebugDir),
	}
	if log != nil {
		opts = append(opts, WithLogger(log))
	}
	opts = append(opts, extra...)
	return New(rasterizer, engine, opts...), nil
}
