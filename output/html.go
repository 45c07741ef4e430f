package output

import (
	"io"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/JennaRuan/scantables/model"
)

// HTMLWriter writes a standalone UTF-8 HTML document with one table
type HTMLWriter struct {
	Title string
}

func (h *HTMLWriter) Write(w io.Writer, table *model.Table) error {
	tbl := element(atom.Table)
	for _, row := range table.Rows {
		tr := element(atom.Tr)
		for _, cell := range row {
			td := element(atom.Td)
			if cell.Text != "" {
				td.AppendChild(&html.Node{Type: html.TextNode, Data: cell.Text})
			}
			tr.AppendChild(td)
		}
		tbl.AppendChild(tr)
	}

	meta := element(atom.Meta)
	meta.Attr = []html.Attribute{{Key: "charset", Val: "utf-8"}}
	head := element(atom.Head)
	head.AppendChild(meta)
	if h.Title != "" {
		title := element(atom.Title)
		title.AppendChild(&html.Node{Type: html.TextNode, Data: h.Title})
		head.AppendChild(title)
	}

	body := element(atom.Body)
	body.AppendChild(tbl)

	root := element(atom.Html)
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)

	return html.Render(w, doc)
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
}
