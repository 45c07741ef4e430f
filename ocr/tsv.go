package ocr

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JennaRuan/scantables/model"
)

// ErrMalformedTSV is returned when tesseract output cannot be parsed
var ErrMalformedTSV = errors.New("malformed tesseract TSV")

// tsvHeader is the column layout of tesseract's tsv output
const tsvHeader = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext"

const tsvFields = 12

// ParseTSV reads tesseract TSV output. Every record becomes a token,
// structural rows included. Confidence is truncated towards zero so that
// 60.9 becomes 60; structural rows keep -1.
func ParseTSV(r io.Reader) ([]model.Token, error) {
	var tokens []model.Token

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}

		fields := strings.SplitN(line, "\t", tsvFields)
		if fields[0] == "level" {
			continue
		}
		if len(fields) < tsvFields-1 {
			return nil, fmt.Errorf("%w: line %d has %d fields", ErrMalformedTSV, lineNo, len(fields))
		}

		var nums [10]int
		for i := range nums {
			n, err := strconv.Atoi(strings.TrimSpace(fields[i]))
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %d: %w", ErrMalformedTSV, lineNo, i+1, err)
			}
			nums[i] = n
		}
		conf, err := strconv.ParseFloat(strings.TrimSpace(fields[10]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d confidence: %w", ErrMalformedTSV, lineNo, err)
		}

		text := ""
		if len(fields) == tsvFields {
			text = fields[11]
		}

		tokens = append(tokens, model.Token{
			Text:       text,
			BBox:       model.NewBBox(nums[6], nums[7], nums[8], nums[9]),
			Confidence: int(conf),
			Level:      nums[0],
			Block:      nums[2],
			Line:       nums[4],
			Word:       nums[5],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading TSV: %w", err)
	}
	return tokens, nil
}

// WriteTSV writes tokens in tesseract's TSV layout, header included.
// Page and paragraph numbers are not tracked and are written as 1 and 0.
func WriteTSV(w io.Writer, tokens []model.Token) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, tsvHeader)
	for _, tok := range tokens {
		text := strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(tok.Text)
		fmt.Fprintf(bw, "%d\t1\t%d\t0\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%s\n",
			tok.Level, tok.Block, tok.Line, tok.Word,
			tok.BBox.Left, tok.BBox.Top, tok.BBox.Width, tok.BBox.Height,
			tok.Confidence, text)
	}
	return bw.Flush()
}
