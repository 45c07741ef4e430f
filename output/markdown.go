package output

import (
	"io"

	"github.com/JennaRuan/scantables/model"
)

// MarkdownWriter writes a pipe table. The first row becomes the header.
type MarkdownWriter struct {
	Encoding Encoding
}

func (m *MarkdownWriter) Write(w io.Writer, table *model.Table) error {
	enc := encoder(w, m.Encoding)
	if _, err := io.WriteString(enc, table.ToMarkdown()); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}
