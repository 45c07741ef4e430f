// Package output writes reconstructed tables to files.
//
// CSV is the default format: comma separated, header-less, standard
// quoting, UTF-8 with a byte order mark so spreadsheet applications detect
// the encoding. XLSX, HTML and Markdown are also available.
package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/JennaRuan/scantables/model"
)

// Format identifies an output file format
type Format string

// Supported formats
const (
	FormatCSV      Format = "csv"
	FormatXLSX     Format = "xlsx"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

var (
	// ErrUnknownFormat is returned for unsupported format names
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrUnknownEncoding is returned for unsupported text encodings
	ErrUnknownEncoding = errors.New("unknown output encoding")
)

// ParseFormat parses a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "html", "htm":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Extension returns the file extension for the format, with leading dot
func (f Format) Extension() string {
	switch f {
	case FormatXLSX:
		return ".xlsx"
	case FormatHTML:
		return ".html"
	case FormatMarkdown:
		return ".md"
	default:
		return ".csv"
	}
}

// Options controls how and where tables are written
type Options struct {
	Format    Format
	Encoding  Encoding // Applies to csv and markdown
	OutputDir string   // Empty writes next to the input file
	Sheet     string   // Worksheet name for xlsx
	Title     string   // Document title for html
}

// DefaultOptions writes UTF-8 CSV with a byte order mark next to the input
func DefaultOptions() Options {
	return Options{
		Format:   FormatCSV,
		Encoding: EncodingUTF8BOM,
		Sheet:    "Sheet1",
	}
}

// Validate checks format and encoding names
func (o Options) Validate() error {
	var errs []error
	if _, err := ParseFormat(string(o.Format)); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseEncoding(string(o.Encoding)); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Writer serializes a table
type Writer interface {
	Write(w io.Writer, table *model.Table) error
}

// NewWriter returns the writer for opts.Format
func NewWriter(opts Options) (Writer, error) {
	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		return nil, err
	}
	enc, err := ParseEncoding(string(opts.Encoding))
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatXLSX:
		return &XLSXWriter{Sheet: opts.Sheet}, nil
	case FormatHTML:
		return &HTMLWriter{Title: opts.Title}, nil
	case FormatMarkdown:
		return &MarkdownWriter{Encoding: enc}, nil
	default:
		return &CSVWriter{Encoding: enc}, nil
	}
}

// Path derives the output path for input: same base name with the format's
// extension, in OutputDir when set or beside the input otherwise.
func Path(input string, opts Options) string {
	format, err := ParseFormat(string(opts.Format))
	if err != nil {
		format = FormatCSV
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + format.Extension()

	dir := filepath.Dir(input)
	if opts.OutputDir != "" {
		dir = opts.OutputDir
	}
	return filepath.Join(dir, base)
}

// WriteFile writes table to path. The file is written to a temporary name
// first and renamed into place, so readers never see partial output.
func WriteFile(path string, table *model.Table, opts Options) error {
	w, err := NewWriter(opts)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".scantables-*")
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := w.Write(tmp, table); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
