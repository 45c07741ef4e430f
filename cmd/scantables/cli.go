package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/JennaRuan/scantables/config"
	"github.com/JennaRuan/scantables/imaging"
	"github.com/JennaRuan/scantables/ocr"
	"github.com/JennaRuan/scantables/pipeline"
)

// flags holds command line overrides. Only flags the user set replace
// configuration values.
type flags struct {
	config     string
	languages  string
	maxPages   int
	allPages   bool
	dpi        int
	scale      float64
	minConf    int
	rowTol     int
	alignment  string
	colTol     int
	format     string
	encoding   string
	outputDir  string
	workers    int
	engine     string
	rasterizer string
	tessdata   string
	logLevel   string
	logFormat  string
	debugDir   string
}

// usageError marks errors that should exit with exitUsage
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// errFailed reports that the run finished with failed documents
var errFailed = errors.New("some documents failed")

// runError wraps failures that happen after configuration succeeded
type runError struct{ err error }

func (e runError) Error() string { return e.err.Error() }
func (e runError) Unwrap() error { return e.err }

// runCLI executes the command line and returns the process exit code.
// Anything that is neither errFailed nor a runError is a usage problem.
func runCLI(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	if errors.Is(err, errFailed) {
		return exitFailures
	}

	fmt.Fprintln(stderr, "Error:", err)
	var re runError
	if errors.As(err, &re) {
		return exitFailures
	}
	return exitUsage
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "scantables [flags] file.pdf...",
		Short: "Extract tables from scanned PDF statements",
		Long: `scantables renders scanned PDF pages, cleans them up for OCR, recognizes
the text with Tesseract and rebuilds the table rows and columns.

Each input file produces a table file with the same base name. Files that
do not exist are reported and skipped; documents without a table produce
no output.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd, f, stderr)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.Inputs = args
			}
			if len(cfg.Inputs) == 0 {
				return usageError{errors.New("no input files")}
			}

			p, err := pipeline.FromConfig(cfg, log, nil)
			if err != nil {
				return usageError{err}
			}

			report := p.Run(cmd.Context(), cfg.Inputs)
			printReport(stdout, report)
			if report.HasFailures() {
				return errFailed
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{err}
	})

	pf := root.PersistentFlags()
	pf.StringVarP(&f.config, "config", "c", "", "YAML configuration file")
	pf.StringVarP(&f.languages, "languages", "l", "", "OCR languages, e.g. spa+eng")
	pf.IntVar(&f.maxPages, "max-pages", 1, "Pages to process per document")
	pf.BoolVar(&f.allPages, "all-pages", false, "Process every page")
	pf.IntVar(&f.dpi, "dpi", 200, "Rendering resolution")
	pf.Float64Var(&f.scale, "scale", 1, "Image scale factor before OCR")
	pf.IntVar(&f.minConf, "min-confidence", 60, "Drop words at or below this OCR confidence")
	pf.IntVar(&f.rowTol, "row-tolerance", 10, "Row band height in pixels")
	pf.StringVar(&f.alignment, "alignment", "count", "Column alignment: count or position")
	pf.IntVar(&f.colTol, "column-tolerance", 0, "Column gap in pixels for position alignment (0 = auto)")
	pf.StringVarP(&f.format, "format", "f", "csv", "Output format: csv, xlsx, html or markdown")
	pf.StringVar(&f.encoding, "encoding", "utf-8-sig", "Text encoding: utf-8-sig, utf-8 or windows-1252")
	pf.StringVarP(&f.outputDir, "output-dir", "o", "", "Directory for result files (default: next to input)")
	pf.IntVarP(&f.workers, "workers", "w", 1, "Documents processed in parallel")
	pf.StringVar(&f.engine, "engine", ocr.EngineTesseract, "OCR engine: tesseract or gosseract")
	pf.StringVar(&f.rasterizer, "rasterizer", "poppler", "PDF renderer: poppler or mupdf")
	pf.StringVar(&f.tessdata, "tessdata", "", "Tesseract language data directory")
	pf.StringVar(&f.logLevel, "log-level", "info", "Log level")
	pf.StringVar(&f.logFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&f.debugDir, "debug-dir", "", "Write processed page images to this directory")

	root.AddCommand(newTokensCmd(f, stdout, stderr))
	return root
}

func newTokensCmd(f *flags, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [flags] file.pdf",
		Short: "Print the raw OCR words of a document as Tesseract TSV",
		Long: `tokens runs rendering, enhancement and OCR on one document and prints
every recognized word as TSV. With --debug-dir the image after each
enhancement stage is saved as PNG.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError{fmt.Errorf("tokens takes exactly one file, got %d", len(args))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(cmd, f, stderr)
			if err != nil {
				return err
			}
			path := args[0]

			ic, err := cfg.ImagingConfig()
			if err != nil {
				return usageError{err}
			}
			enhancer := imaging.NewEnhancer()
			if err := enhancer.Configure(ic); err != nil {
				return usageError{err}
			}

			opts := []pipeline.Option{pipeline.WithoutWrite(), pipeline.WithEnhancer(enhancer)}
			if dir := cfg.Imaging.DebugDir; dir != "" {
				enhancer.SetObserver(stageWriter(dir, path, log))
				// Stages already cover the final image
				opts = append(opts, pipeline.WithDebugDir(""))
			}

			p, err := pipeline.FromConfig(cfg, log, nil, opts...)
			if err != nil {
				return usageError{err}
			}

			doc, _, err := p.Extract(cmd.Context(), path)
			if err != nil {
				return runError{err}
			}
			for _, page := range doc.Pages {
				if err := ocr.WriteTSV(stdout, page.Tokens); err != nil {
					return runError{err}
				}
			}
			return nil
		},
	}
}

// setup loads the configuration, applies flag overrides and builds the
// logger.
func setup(cmd *cobra.Command, f *flags, stderr io.Writer) (config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(f.config)
	if err != nil {
		return config.Config{}, nil, usageError{err}
	}
	applyFlags(cmd, f, &cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, usageError{err}
	}

	log, err := newLogger(cfg.Log, stderr)
	if err != nil {
		return config.Config{}, nil, usageError{err}
	}
	return cfg, log, nil
}

// applyFlags copies the flags the user set into cfg
func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) {
	set := cmd.Flags().Changed

	if set("languages") {
		cfg.OCR.Languages = config.SplitLanguages(f.languages)
	}
	if set("max-pages") {
		cfg.MaxPages = f.maxPages
	}
	if set("all-pages") && f.allPages {
		cfg.MaxPages = 0
	}
	if set("dpi") {
		cfg.Raster.DPI = f.dpi
	}
	if set("scale") {
		cfg.Imaging.Scale = f.scale
	}
	if set("min-confidence") {
		cfg.Tables.MinConfidence = f.minConf
	}
	if set("row-tolerance") {
		cfg.Tables.RowTolerance = f.rowTol
	}
	if set("alignment") {
		cfg.Tables.Alignment = f.alignment
	}
	if set("column-tolerance") {
		cfg.Tables.ColumnTolerance = f.colTol
	}
	if set("format") {
		cfg.Output.Format = f.format
	}
	if set("encoding") {
		cfg.Output.Encoding = f.encoding
	}
	if set("output-dir") {
		cfg.Output.Dir = f.outputDir
	}
	if set("workers") {
		cfg.Workers = f.workers
	}
	if set("engine") {
		cfg.OCR.Engine = f.engine
	}
	if set("rasterizer") {
		cfg.Raster.Backend = f.rasterizer
	}
	if set("tessdata") {
		cfg.OCR.TessdataPrefix = f.tessdata
	}
	if set("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if set("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if set("debug-dir") {
		cfg.Imaging.DebugDir = f.debugDir
	}
}

func newLogger(c config.Log, w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	if c.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}

// printReport writes one line per document followed by the summary
func printReport(w io.Writer, report pipeline.Report) {
	for _, d := range report.Documents {
		switch d.Status {
		case pipeline.StatusSuccess:
			fmt.Fprintf(w, "%s -> %s\n", d.Path, d.Output)
		case pipeline.StatusNoTable:
			fmt.Fprintf(w, "%s: no table found\n", d.Path)
		case pipeline.StatusMissing:
			fmt.Fprintf(w, "%s: file not found\n", d.Path)
		default:
			fmt.Fprintf(w, "%s: %v\n", d.Path, d.Err)
		}
	}
	fmt.Fprintln(w, report.Summary())
}

// stageWriter returns an observer that saves every enhancement stage as
// <base>-NN-<stage>.png in dir.
func stageWriter(dir, input string, log logrus.FieldLogger) imaging.Observer {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	n := 0
	return func(stage string, img *image.Gray) {
		n++
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.WithError(err).Warn("could not create debug directory")
			return
		}
		path := filepath.Join(dir, fmt.Sprintf("%s-%02d-%s.png", base, n, stage))
		if err := savePNG(path, img); err != nil {
			log.WithError(err).WithField("stage", stage).Warn("could not save debug image")
		}
	}
}

func savePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
