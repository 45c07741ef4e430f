package scantables

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/JennaRuan/scantables/config"
	"github.com/JennaRuan/scantables/internal/runner"
	"github.com/JennaRuan/scantables/model"
	"github.com/JennaRuan/scantables/ocr"
	"github.com/JennaRuan/scantables/output"
	"github.com/JennaRuan/scantables/pipeline"
	"github.com/JennaRuan/scantables/raster"
	"github.com/JennaRuan/scantables/tables"
)

// ErrNoTable is returned by Save when no page produced a table
var ErrNoTable = errors.New("no table found")

// Extractor provides a fluent interface for extracting tables from scanned
// PDFs. Each configuration method returns a new Extractor instance, making
// it safe for concurrent use and allowing method chaining.
type Extractor struct {
	// Source
	filename string

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		options:  e.options.clone(),
		err:      e.err,
	}
}

// with clones the extractor and applies fn to the copy's configuration
func (e *Extractor) with(fn func(cfg *config.Config)) *Extractor {
	newExt := e.clone()
	fn(&newExt.options.cfg)
	return newExt
}

// fail clones the extractor and records err unless an earlier error exists
func (e *Extractor) fail(err error) *Extractor {
	newExt := e.clone()
	if newExt.err == nil {
		newExt.err = err
	}
	return newExt
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Languages sets the Tesseract languages, tried in the given order.
//
// Example:
//
//	scantables.Open("balance.pdf").Languages("spa", "eng")
func (e *Extractor) Languages(langs ...string) *Extractor {
	if len(langs) == 0 {
		return e.fail(fmt.Errorf("at least one language is required"))
	}
	return e.with(func(cfg *config.Config) {
		cfg.OCR.Languages = append([]string(nil), langs...)
	})
}

// MaxPages limits processing to the first n pages.
func (e *Extractor) MaxPages(n int) *Extractor {
	if n < 1 {
		return e.fail(fmt.Errorf("max pages must be positive, got %d", n))
	}
	return e.with(func(cfg *config.Config) { cfg.MaxPages = n })
}

// AllPages processes every page of the document.
func (e *Extractor) AllPages() *Extractor {
	return e.with(func(cfg *config.Config) { cfg.MaxPages = 0 })
}

// DPI sets the rendering resolution.
func (e *Extractor) DPI(dpi int) *Extractor {
	if dpi <= 0 {
		return e.fail(fmt.Errorf("dpi must be positive, got %d", dpi))
	}
	return e.with(func(cfg *config.Config) { cfg.Raster.DPI = dpi })
}

// MinConfidence drops tokens whose confidence is at or below threshold.
func (e *Extractor) MinConfidence(threshold int) *Extractor {
	return e.with(func(cfg *config.Config) { cfg.Tables.MinConfidence = threshold })
}

// RowTolerance sets the height in pixels of the band used to group tokens
// into rows.
func (e *Extractor) RowTolerance(pixels int) *Extractor {
	if pixels <= 0 {
		return e.fail(fmt.Errorf("row tolerance must be positive, got %d", pixels))
	}
	return e.with(func(cfg *config.Config) { cfg.Tables.RowTolerance = pixels })
}

// ColumnAlignment selects how tokens are assigned to columns: "count" fills
// each row left to right, "position" places tokens by horizontal position.
func (e *Extractor) ColumnAlignment(mode string) *Extractor {
	a, err := tables.ParseAlignment(mode)
	if err != nil {
		return e.fail(err)
	}
	return e.with(func(cfg *config.Config) { cfg.Tables.Alignment = a.String() })
}

// ColumnTolerance sets the gap in pixels that separates two column bands
// when aligning by position. Zero derives it from the page width.
func (e *Extractor) ColumnTolerance(pixels int) *Extractor {
	return e.with(func(cfg *config.Config) { cfg.Tables.ColumnTolerance = pixels })
}

// Enhancement sets the image scale factor and CLAHE clip limit.
func (e *Extractor) Enhancement(scale, clipLimit float64) *Extractor {
	return e.with(func(cfg *config.Config) {
		cfg.Imaging.Scale = scale
		cfg.Imaging.ClipLimit = clipLimit
	})
}

// Backend selects the rasterizer by name ("poppler" or "mupdf").
func (e *Extractor) Backend(name string) *Extractor {
	return e.with(func(cfg *config.Config) { cfg.Raster.Backend = name })
}

// OCREngine selects the OCR engine by name ("tesseract" or "gosseract").
func (e *Extractor) OCREngine(name string) *Extractor {
	return e.with(func(cfg *config.Config) { cfg.OCR.Engine = name })
}

// TessdataPrefix sets the directory Tesseract loads language data from.
func (e *Extractor) TessdataPrefix(dir string) *Extractor {
	return e.with(func(cfg *config.Config) { cfg.OCR.TessdataPrefix = dir })
}

// DebugDir writes each processed page image into dir.
func (e *Extractor) DebugDir(dir string) *Extractor {
	return e.with(func(cfg *config.Config) { cfg.Imaging.DebugDir = dir })
}

// WithConfig replaces the whole configuration.
func (e *Extractor) WithConfig(cfg config.Config) *Extractor {
	newExt := e.clone()
	newExt.options.cfg = cloneConfig(cfg)
	return newExt
}

// WithRasterizer uses r instead of the configured backend.
func (e *Extractor) WithRasterizer(r raster.Rasterizer) *Extractor {
	newExt := e.clone()
	newExt.options.rasterizer = r
	return newExt
}

// WithEngine uses engine instead of the configured OCR engine.
func (e *Extractor) WithEngine(engine ocr.Engine) *Extractor {
	newExt := e.clone()
	newExt.options.engine = engine
	return newExt
}

// WithRunner executes external tools through r.
func (e *Extractor) WithRunner(r runner.Runner) *Extractor {
	newExt := e.clone()
	newExt.options.runner = r
	return newExt
}

// WithLogger sends progress logging to log.
func (e *Extractor) WithLogger(log logrus.FieldLogger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = log
	return newExt
}

// Config returns a copy of the active configuration.
func (e *Extractor) Config() config.Config {
	return cloneConfig(e.options.cfg)
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Document runs the full extraction and returns the processed document.
// Pages that were skipped or held no table are reported as warnings.
//
// Example:
//
//	doc, warnings, err := scantables.Open("balance.pdf").AllPages().Document(ctx)
//	for _, page := range doc.Pages {
//	    fmt.Println(page.Number(), page.Table.RowCount())
//	}
func (e *Extractor) Document(ctx context.Context) (*model.Document, []Warning, error) {
	if e.err != nil {
		return nil, nil, e.err
	}
	if e.filename == "" {
		return nil, nil, fmt.Errorf("no filename specified")
	}
	if _, err := os.Stat(e.filename); err != nil {
		return nil, nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	p, err := e.pipeline()
	if err != nil {
		return nil, nil, err
	}

	doc, pages, err := p.Extract(ctx, e.filename)
	warnings := pageWarnings(pages)
	if err != nil {
		return nil, warnings, err
	}
	return doc, warnings, nil
}

// Table extracts the concatenated table of all processed pages. A document
// without a table yields an empty table and no error.
//
// Example:
//
//	table, warnings, err := scantables.Open("balance.pdf").Table(ctx)
//	if err != nil {
//	    // handle error
//	}
//	fmt.Print(table.ToCSV())
func (e *Extractor) Table(ctx context.Context) (*model.Table, []Warning, error) {
	doc, warnings, err := e.Document(ctx)
	if err != nil {
		return nil, warnings, err
	}
	return doc.Table(), warnings, nil
}

// Tokens returns the raw OCR tokens of every processed page in page order.
func (e *Extractor) Tokens(ctx context.Context) ([]model.Token, []Warning, error) {
	doc, warnings, err := e.Document(ctx)
	if err != nil {
		return nil, warnings, err
	}
	var tokens []model.Token
	for _, page := range doc.Pages {
		tokens = append(tokens, page.Tokens...)
	}
	return tokens, warnings, nil
}

// Save extracts the table and writes it to path. The output format follows
// the file extension (.csv, .xlsx, .html or .md); the encoding comes from
// the configuration. ErrNoTable is returned, and nothing is written, when
// no page produced a table.
//
// Example:
//
//	warnings, err := scantables.Open("balance.pdf").Save(ctx, "balance.xlsx")
func (e *Extractor) Save(ctx context.Context, path string) ([]Warning, error) {
	if e.err != nil {
		return nil, e.err
	}
	opts, err := e.options.cfg.OutputOptions()
	if err != nil {
		return nil, err
	}
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		format, err := output.ParseFormat(ext)
		if err != nil {
			return nil, err
		}
		opts.Format = format
	}
	opts.Title = strings.TrimSuffix(filepath.Base(e.filename), filepath.Ext(e.filename))

	table, warnings, err := e.Table(ctx)
	if err != nil {
		return warnings, err
	}
	if table.IsEmpty() {
		return warnings, ErrNoTable
	}
	if err := output.WriteFile(path, table, opts); err != nil {
		return warnings, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return warnings, nil
}

// PageCount returns the total number of pages in the PDF.
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if e.filename == "" {
		return 0, fmt.Errorf("no filename specified")
	}
	return raster.PageCount(e.filename)
}

// ============================================================================
// Internal Methods
// ============================================================================

// pipeline builds a non-writing pipeline from the extractor configuration
func (e *Extractor) pipeline() (*pipeline.Pipeline, error) {
	log := e.options.logger
	if log == nil {
		log = discardLogger()
	}

	extra := []pipeline.Option{pipeline.WithoutWrite()}
	if e.options.rasterizer != nil {
		extra = append(extra, pipeline.WithRasterizer(e.options.rasterizer))
	}
	if e.options.engine != nil {
		extra = append(extra, pipeline.WithEngine(e.options.engine))
	}

	p, err := pipeline.FromConfig(e.options.cfg, log, e.options.runner, extra...)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return p, nil
}
