package output

import (
	"encoding/csv"
	"io"

	"github.com/JennaRuan/scantables/model"
)

// CSVWriter writes header-less, comma separated values
type CSVWriter struct {
	Encoding Encoding
	Comma    rune // Field delimiter; 0 means ','
	CRLF     bool // Terminate lines with \r\n
}

// Write writes every table row as one record
func (c *CSVWriter) Write(w io.Writer, table *model.Table) error {
	enc := encoder(w, c.Encoding)

	cw := csv.NewWriter(enc)
	if c.Comma != 0 {
		cw.Comma = c.Comma
	}
	cw.UseCRLF = c.CRLF

	if err := cw.WriteAll(table.Strings()); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
