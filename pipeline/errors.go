package pipeline

import "fmt"

// Stage names the step a document error occurred in
type Stage string

const (
	StageOpen      Stage = "open"
	StageRasterize Stage = "rasterize"
	StageEnhance   Stage = "enhance"
	StageOCR       Stage = "ocr"
	StageWrite     Stage = "write"
	StageInternal  Stage = "internal"
)

// DocumentError records which stage of which document failed
type DocumentError struct {
	Path  string
	Stage Stage
	Page  int // 0-indexed page, or -1 when the error is not page specific
	Err   error
}

func (e *DocumentError) Error() string {
	if e.Page >= 0 {
		return fmt.Sprintf("%s: %s failed on page %d: %v", e.Path, e.Stage, e.Page+1, e.Err)
	}
	return fmt.Sprintf("%s: %s failed: %v", e.Path, e.Stage, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

func newDocumentError(path string, stage Stage, page int, err error) *DocumentError {
	return &DocumentError{Path: path, Stage: stage, Page: page, Err: err}
}
