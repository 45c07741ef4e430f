package model

import "strings"

// Token levels as reported by Tesseract's TSV output.
const (
	LevelPage  = 1
	LevelBlock = 2
	LevelPara  = 3
	LevelLine  = 4
	LevelWord  = 5
)

// NoConfidence marks structural records (pages, blocks, lines) that carry
// no recognition confidence.
const NoConfidence = -1

// Token is a single text fragment recognized by the OCR engine.
type Token struct {
	Text       string
	BBox       BBox
	Confidence int // 0-100, or NoConfidence

	// Layout position reported by the engine. Zero when unknown.
	Level int
	Block int
	Line  int
	Word  int
}

// IsBlank reports whether the token text is empty after trimming
func (t Token) IsBlank() bool {
	return strings.TrimSpace(t.Text) == ""
}
