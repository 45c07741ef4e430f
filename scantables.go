// Package scantables provides a fluent API for extracting tables from
// scanned financial PDF documents.
//
// Pages are rendered to images, cleaned up for OCR, recognized with
// Tesseract and turned into a rectangular table by grouping words that sit
// on the same line.
//
// Basic usage:
//
//	table, warnings, err := scantables.Open("balance.pdf").Table(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", scantables.FormatWarnings(warnings))
//	}
//
// With options:
//
//	_, err := scantables.Open("balance.pdf").
//	    Languages("spa").
//	    MaxPages(3).
//	    MinConfidence(70).
//	    Save(ctx, "balance.csv")
//
// For batch conversion use [Convert], or the pipeline package directly.
package scantables

import (
	"github.com/JennaRuan/scantables/config"
	"github.com/JennaRuan/scantables/model"
)

// Open returns an Extractor for the PDF at filename, configured with the
// defaults of [config.Default]. Nothing is read until a terminal operation
// such as Table is called.
//
// Example:
//
//	table, warnings, err := scantables.Open("balance.pdf").Table(ctx)
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// OpenWithConfig is like Open but starts from cfg instead of the defaults.
//
// Example:
//
//	cfg, err := config.Load("scantables.yaml")
//	if err != nil {
//	    // handle error
//	}
//	table, _, err := scantables.OpenWithConfig("balance.pdf", cfg).Table(ctx)
func OpenWithConfig(filename string, cfg config.Config) *Extractor {
	e := Open(filename)
	e.options.cfg = cloneConfig(cfg)
	return e
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := scantables.Must(scantables.Open("balance.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustTable is a helper that wraps a call to Table and panics if the error
// is non-nil. It discards warnings and returns just the table.
//
// Example:
//
//	table := scantables.MustTable(scantables.Open("balance.pdf").Table(ctx))
func MustTable(table *model.Table, _ []Warning, err error) *model.Table {
	if err != nil {
		panic(err)
	}
	return table
}
