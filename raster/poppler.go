package raster

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/JennaRuan/scantables/internal/runner"
)

// Poppler renders pages with pdftoppm
type Poppler struct {
	binary  string
	tempDir string
	runner  runner.Runner
}

// NewPoppler creates a poppler rasterizer. A nil runner uses os/exec.
func NewPoppler(config Config, r runner.Runner) *Poppler {
	if config.Pdftoppm == "" {
		config.Pdftoppm = "pdftoppm"
	}
	if r == nil {
		r = runner.New()
	}
	return &Poppler{binary: config.Pdftoppm, tempDir: config.TempDir, runner: r}
}

// Name returns the backend name
func (p *Poppler) Name() string { return BackendPoppler }

// Rasterize runs pdftoppm -r DPI -f FIRST [-l LAST] -png path prefix in a
// temporary directory and decodes the generated images.
func (p *Poppler) Rasterize(ctx context.Context, path string, opts Options) ([]Page, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	dir, err := os.MkdirTemp(p.tempDir, "scantables-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	prefix := filepath.Join(dir, "page")
	args := []string{"-r", strconv.Itoa(opts.DPI), "-f", strconv.Itoa(opts.FirstPage)}
	if last := opts.LastPage(); last > 0 {
		args = append(args, "-l", strconv.Itoa(last))
	}
	args = append(args, "-png", path, prefix)

	if _, _, err := p.runner.Run(ctx, runner.Command{Name: p.binary, Args: args}); err != nil {
		return nil, fmt.Errorf("pdftoppm: %w", err)
	}

	files, err := renderedFiles(prefix)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoPages
	}

	pages := make([]Page, 0, len(files))
	for _, f := range files {
		img, err := decodePNG(f.path)
		if err != nil {
			return nil, err
		}
		pages = append(pages, Page{Index: f.number - 1, Image: img})
	}
	return pages, nil
}

type renderedFile struct {
	path   string
	number int
}

// renderedFiles lists prefix-N.png files ordered by page number. pdftoppm
// zero-pads N to the width of the document's page count.
func renderedFiles(prefix string) ([]renderedFile, error) {
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return nil, fmt.Errorf("listing rendered pages: %w", err)
	}

	files := make([]renderedFile, 0, len(matches))
	for _, m := range matches {
		suffix := strings.TrimSuffix(strings.TrimPrefix(m, prefix+"-"), ".png")
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		files = append(files, renderedFile{path: m, number: n})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].number < files[j].number })
	return files, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening rendered page: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return img, nil
}
