// Package report renders a compiled unit as an HTML listing that lines up
// every instruction with the source it came from.
package report

import (
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/adhocteam/tern/internal/ir"
	"github.com/adhocteam/tern/internal/source"
)

const style = `
body { font-family: sans-serif; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #ccc; padding: 2px 8px; text-align: left; }
td.code, td.src { font-family: monospace; white-space: pre; }
`

// Write renders u, compiled from src, as a complete HTML document.
func Write(w io.Writer, title, src string, u *ir.Unit) error {
	doc := Document(title, src, u)
	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

// Document builds the node tree Write renders.
func Document(title, src string, u *ir.Unit) *html.Node {
	body := element(atom.Body)
	body.AppendChild(textElement(atom.H1, title))
	for i, c := range u.Closures() {
		name := "main"
		if i > 0 {
			name = "closure " + strconv.Itoa(i-1)
		}
		closure(body, name, src, c)
	}
	if len(u.Names) > 0 {
		body.AppendChild(textElement(atom.H2, "globals"))
		rows := make([][]string, len(u.Names))
		for i, name := range u.Names {
			rows[i] = []string{"@" + strconv.Itoa(i), name}
		}
		body.AppendChild(table([]string{"address", "name"}, rows, nil))
	}

	head := element(atom.Head)
	head.AppendChild(textElement(atom.Title, title))
	head.AppendChild(textElement(atom.Style, style))

	root := element(atom.Html)
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)
	return doc
}

func closure(body *html.Node, name, src string, c *ir.Closure) {
	body.AppendChild(textElement(atom.H2, name))

	rows := make([][]string, len(c.Code))
	for off, in := range c.Code {
		label := ""
		if in.Value.Label != 0 {
			label = "L" + strconv.Itoa(int(in.Value.Label))
		}
		rows[off] = []string{
			fmt.Sprintf("%04d", off),
			label,
			ir.Format(in.Value.Instr),
			in.Pos.String(),
			source.Text(src, in.Pos),
		}
	}
	body.AppendChild(table(
		[]string{"offset", "label", "instruction", "position", "source"},
		rows,
		[]string{"", "", "code", "", "src"},
	))

	pool(body, "strings", c.Strings, strconv.Quote)
	pool(body, "ints", c.Ints, func(v int64) string { return strconv.FormatInt(v, 10) })
	pool(body, "floats", c.Floats, func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) })
}

func pool[T any](body *html.Node, name string, values []T, format func(T) string) {
	if len(values) == 0 {
		return
	}
	body.AppendChild(textElement(atom.H3, name))
	rows := make([][]string, len(values))
	for i, v := range values {
		rows[i] = []string{"#" + strconv.Itoa(i), format(v)}
	}
	body.AppendChild(table([]string{"index", "value"}, rows, []string{"", "code"}))
}

// table builds a table with a header row. classes, when given, sets the
// class attribute of the cells in each column.
func table(header []string, rows [][]string, classes []string) *html.Node {
	t := element(atom.Table)
	thead := element(atom.Thead)
	tr := element(atom.Tr)
	for _, h := range header {
		tr.AppendChild(textElement(atom.Th, h))
	}
	thead.AppendChild(tr)
	t.AppendChild(thead)

	tbody := element(atom.Tbody)
	for _, row := range rows {
		tr := element(atom.Tr)
		for i, cell := range row {
			td := textElement(atom.Td, cell)
			if i < len(classes) && classes[i] != "" {
				td.Attr = append(td.Attr, html.Attribute{Key: "class", Val: classes[i]})
			}
			tr.AppendChild(td)
		}
		tbody.AppendChild(tr)
	}
	t.AppendChild(tbody)
	return t
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a}
}

func textElement(a atom.Atom, text string) *html.Node {
	n := element(a)
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	return n
}
