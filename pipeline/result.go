package pipeline

import (
	"fmt"
	"time"

	"github.com/JennaRuan/scantables/model"
)

// Status is the outcome of one document
type Status string

const (
	StatusSuccess Status = "success"  // A table was written
	StatusNoTable Status = "no_table" // Processed, but no table was found
	StatusFailed  Status = "failed"   // Rasterizing, OCR or writing failed
	StatusMissing Status = "missing"  // The input file does not exist
)

// PageStatus is the outcome of one page
type PageStatus string

const (
	PageOK      PageStatus = "ok"      // A non-empty table was reconstructed
	PageEmpty   PageStatus = "empty"   // No token survived filtering
	PageSkipped PageStatus = "skipped" // Enhancement failed
)

// PageResult describes what happened to one page
type PageResult struct {
	Index  int // 0-indexed page number
	Status PageStatus
	Tokens int // Tokens returned by OCR, before filtering
	Rows   int
	Cols   int
	Err    error
}

// DocumentResult describes what happened to one input file
type DocumentResult struct {
	Path     string
	Output   string // Written file; empty unless Status is StatusSuccess
	Status   Status
	Pages    []PageResult
	Document *model.Document // Nil when the document could not be opened
	Table    *model.Table    // Concatenated page tables
	Err      error
	Duration time.Duration
}

// Report aggregates the results of a run, in input order
type Report struct {
	Documents []DocumentResult
}

// Count returns the number of documents with status s
func (r Report) Count(s Status) int {
	n := 0
	for _, d := range r.Documents {
		if d.Status == s {
			n++
		}
	}
	return n
}

// HasFailures reports whether any document failed
func (r Report) HasFailures() bool {
	return r.Count(StatusFailed) > 0
}

// Summary returns a one-line description of the run
func (r Report) Summary() string {
	return fmt.Sprintf("%d documents: %d converted, %d without table, %d failed, %d missing",
		len(r.Documents), r.Count(StatusSuccess), r.Count(StatusNoTable),
		r.Count(StatusFailed), r.Count(StatusMissing))
}
