package scantables

import (
	"fmt"
	"strings"

	"github.com/JennaRuan/scantables/pipeline"
)

// Warning is a non-fatal problem found while extracting a table
type Warning struct {
	Page    int // 1-indexed page, or 0 for the whole document
	Message string
	Err     error
}

func (w Warning) String() string {
	msg := w.Message
	if w.Err != nil {
		msg += ": " + w.Err.Error()
	}
	if w.Page > 0 {
		return fmt.Sprintf("page %d: %s", w.Page, msg)
	}
	return msg
}

// FormatWarnings joins warnings into a single line
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

// pageWarnings converts skipped and empty pages into warnings
func pageWarnings(pages []pipeline.PageResult) []Warning {
	var warnings []Warning
	for _, p := range pages {
		switch p.Status {
		case pipeline.PageSkipped:
			warnings = append(warnings, Warning{Page: p.Index + 1, Message: "preprocessing failed, page skipped", Err: p.Err})
		case pipeline.PageEmpty:
			warnings = append(warnings, Warning{Page: p.Index + 1, Message: "no table found"})
		}
	}
	return warnings
}
