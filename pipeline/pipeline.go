// Package pipeline converts scanned PDF documents into table files.
//
// For every document the pipeline rasterizes the selected pages, enhances
// each page image, runs OCR, reconstructs a table per page and concatenates
// the page tables. Non-empty results are written next to the input (or to
// an output directory) with the input's base name.
//
// Failures never abort a run: each document ends with a [Status] in the
// [Report], and the caller decides what to do with failures.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/JennaRuan/scantables/format"
	"github.com/JennaRuan/scantables/imaging"
	"github.com/JennaRuan/scantables/model"
	"github.com/JennaRuan/scantables/ocr"
	"github.com/JennaRuan/scantables/output"
	"github.com/JennaRuan/scantables/raster"
	"github.com/JennaRuan/scantables/tables"
)

// Enhancer prepares a page image for OCR
type Enhancer interface {
	Enhance(img image.Image) (*image.Gray, error)
}

// Reconstructor builds a table from OCR tokens
type Reconstructor interface {
	Reconstruct(tokens []model.Token, imageWidth int) *model.Table
}

// PageCounter returns the number of pages of a PDF
type PageCounter func(path string) (int, error)

// Pipeline wires the processing stages together. It holds no per-document
// state, so one Pipeline can process documents concurrently.
type Pipeline struct {
	rasterizer    raster.Rasterizer
	engine        ocr.Engine
	enhancer      Enhancer
	reconstructor Reconstructor
	countPages    PageCounter

	rasterOpts raster.Options
	outputOpts output.Options
	write      bool
	workers    int
	debugDir   string

	log logrus.FieldLogger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log logrus.FieldLogger) Option {
	return func(p *Pipeline) { p.log = log }
}

// WithRasterizer replaces the rasterizer given to New
func WithRasterizer(r raster.Rasterizer) Option {
	return func(p *Pipeline) { p.rasterizer = r }
}

// WithEngine replaces the OCR engine given to New
func WithEngine(e ocr.Engine) Option {
	return func(p *Pipeline) { p.engine = e }
}

// WithEnhancer replaces the default image enhancer
func WithEnhancer(e Enhancer) Option {
	return func(p *Pipeline) { p.enhancer = e }
}

// WithReconstructor replaces the default table reconstructor
func WithReconstructor(r Reconstructor) Option {
	return func(p *Pipeline) { p.reconstructor = r }
}

// WithPageCounter replaces the pdfcpu page counter. nil disables counting.
func WithPageCounter(fn PageCounter) Option {
	return func(p *Pipeline) { p.countPages = fn }
}

// WithRasterOptions selects the pages and resolution to render
func WithRasterOptions(opts raster.Options) Option {
	return func(p *Pipeline) { p.rasterOpts = opts }
}

// WithOutput sets where and how tables are written
func WithOutput(opts output.Options) Option {
	return func(p *Pipeline) { p.outputOpts = opts }
}

// WithoutWrite disables writing result files
func WithoutWrite() Option {
	return func(p *Pipeline) { p.write = false }
}

// WithWorkers sets how many documents are processed at once (minimum 1)
func WithWorkers(n int) Option {
	return func(p *Pipeline) { p.workers = max(1, n) }
}

// WithDebugDir saves every enhanced page image as PNG in dir
func WithDebugDir(dir string) Option {
	return func(p *Pipeline) { p.debugDir = dir }
}

// New creates a pipeline around a rasterizer and an OCR engine. Enhancement
// and reconstruction use their package defaults unless replaced.
func New(r raster.Rasterizer, e ocr.Engine, opts ...Option) *Pipeline {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	p := &Pipeline{
		rasterizer:    r,
		engine:        e,
		enhancer:      imaging.NewEnhancer(),
		reconstructor: tables.NewReconstructor(),
		countPages:    raster.PageCount,
		rasterOpts:    raster.DefaultOptions(),
		outputOpts:    output.DefaultOptions(),
		write:         true,
		workers:       1,
		log:           discard,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes every path and returns one result per path in input
// order. With more than one worker, documents are processed concurrently.
func (p *Pipeline) Run(ctx context.Context, paths []string) Report {
	report := Report{Documents: make([]DocumentResult, len(paths))}

	if p.workers <= 1 {
		for i, path := range paths {
			report.Documents[i] = p.ProcessDocument(ctx, path)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(p.workers)
		for i, path := range paths {
			g.Go(func() error {
				report.Documents[i] = p.ProcessDocument(ctx, path)
				return nil
			})
		}
		_ = g.Wait()
	}

	p.log.WithFields(logrus.Fields{
		"documents": len(paths),
		"converted": report.Count(StatusSuccess),
		"no_table":  report.Count(StatusNoTable),
		"failed":    report.Count(StatusFailed),
		"missing":   report.Count(StatusMissing),
	}).Info("run finished")
	return report
}

// ProcessDocument runs every stage for one document and writes the result.
// It never panics; internal failures are reported as StatusFailed.
func (p *Pipeline) ProcessDocument(ctx context.Context, path string) (res DocumentResult) {
	start := time.Now()
	log := p.log.WithField("document", path)
	res.Path = path

	defer func() {
		if r := recover(); r != nil {
			log.WithField("stack", string(debug.Stack())).Errorf("panic while processing document: %v", r)
			res.Status = StatusFailed
			res.Err = newDocumentError(path, StageInternal, -1, fmt.Errorf("panic: %v", r))
		}
		res.Duration = time.Since(start)
	}()

	if _, err := os.Stat(path); err != nil {
		res.Err = newDocumentError(path, StageOpen, -1, err)
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("file not found, skipping")
			res.Status = StatusMissing
		} else {
			log.WithError(err).Error("cannot open document")
			res.Status = StatusFailed
		}
		return res
	}

	log.Info("processing document")

	doc, pages, err := p.Extract(ctx, path)
	res.Document = doc
	res.Pages = pages
	if err != nil {
		log.WithError(err).Error("document failed")
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	res.Table = doc.Table()
	if res.Table.IsEmpty() {
		log.Warn("no table found")
		res.Status = StatusNoTable
		return res
	}

	fields := logrus.Fields{"rows": res.Table.RowCount(), "cols": res.Table.ColCount()}
	if p.write {
		opts := p.outputOpts
		opts.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		out := output.Path(path, opts)
		if err := output.WriteFile(out, res.Table, opts); err != nil {
			log.WithError(err).Error("document failed")
			res.Status = StatusFailed
			res.Err = newDocumentError(path, StageWrite, -1, err)
			return res
		}
		res.Output = out
		fields["output"] = out
	}

	log.WithFields(fields).Info("table extracted")
	res.Status = StatusSuccess
	return res
}

// Extract rasterizes, enhances, recognizes and reconstructs the selected
// pages of one document without writing anything. Pages whose enhancement
// fails are skipped; a rasterizer or OCR failure aborts the document and
// is returned as a *DocumentError together with the pages done so far.
func (p *Pipeline) Extract(ctx context.Context, path string) (*model.Document, []PageResult, error) {
	log := p.log.WithField("document", path)
	doc := model.NewDocument(path)

	kind, err := format.DetectFile(path)
	if err != nil {
		return doc, nil, newDocumentError(path, StageOpen, -1, err)
	}
	if err := ctx.Err(); err != nil {
		return doc, nil, newDocumentError(path, StageRasterize, -1, err)
	}

	rendered, err := p.render(ctx, log, doc, kind)
	if err != nil {
		return doc, nil, newDocumentError(path, StageRasterize, -1, err)
	}

	results := make([]PageResult, 0, len(rendered))
	for _, pg := range rendered {
		if err := ctx.Err(); err != nil {
			return doc, results, newDocumentError(path, StageOCR, pg.Index, err)
		}

		plog := log.WithField("page", pg.Index+1)
		plog.Info("processing page")
		pr := PageResult{Index: pg.Index}

		processed, err := p.enhancer.Enhance(pg.Image)
		if err != nil {
			plog.WithError(err).Warn("preprocessing failed, skipping page")
			pr.Status = PageSkipped
			pr.Err = newDocumentError(path, StageEnhance, pg.Index, err)
			results = append(results, pr)
			continue
		}
		p.saveDebugImage(plog, path, pg.Index, processed)

		tokens, err := p.engine.Recognize(ctx, processed)
		if err != nil {
			return doc, results, newDocumentError(path, StageOCR, pg.Index, err)
		}

		b := processed.Bounds()
		page := model.NewPage(pg.Index, b.Dx(), b.Dy())
		page.Tokens = tokens
		page.Table = p.reconstructor.Reconstruct(tokens, b.Dx())
		page.Table.Page = pg.Index
		doc.AddPage(page)

		pr.Tokens = len(tokens)
		pr.Rows = page.Table.RowCount()
		pr.Cols = page.Table.ColCount()
		if page.HasTable() {
			pr.Status = PageOK
		} else {
			pr.Status = PageEmpty
			plog.Info("no table found on page")
		}
		plog.WithFields(logrus.Fields{"tokens": pr.Tokens, "rows": pr.Rows, "cols": pr.Cols}).Debug("page done")
		results = append(results, pr)
	}
	return doc, results, nil
}

// render turns the document into page images. Scanned images are a single
// page and bypass the rasterizer.
func (p *Pipeline) render(ctx context.Context, log logrus.FieldLogger, doc *model.Document, kind format.Format) ([]raster.Page, error) {
	if kind.IsImage() {
		log.WithField("format", kind).Debug("input is a scanned image")
		doc.PageCount = 1
		return raster.LoadImage(doc.Path)
	}

	if p.countPages != nil {
		if n, err := p.countPages(doc.Path); err != nil {
			log.WithError(err).Warn("could not read page count")
		} else {
			doc.PageCount = n
			log.WithField("pages", n).Debug("page count")
		}
	}
	return p.rasterizer.Rasterize(ctx, doc.Path, p.rasterOpts)
}

// saveDebugImage writes the enhanced page when a debug directory is set.
// Failures are logged and otherwise ignored.
func (p *Pipeline) saveDebugImage(log logrus.FieldLogger, path string, index int, img *image.Gray) {
	if p.debugDir == "" {
		return
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name := filepath.Join(p.debugDir, fmt.Sprintf("%s-p%03d.png", base, index+1))

	if err := os.MkdirAll(p.debugDir, 0755); err != nil {
		log.WithError(err).Warn("cannot create debug directory")
		return
	}
	f, err := os.Create(name)
	if err != nil {
		log.WithError(err).Warn("cannot write debug image")
		return
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		log.WithError(err).Warn("cannot write debug image")
	}
}
