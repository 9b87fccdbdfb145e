package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/adhocteam/tern/internal/ast"
	"github.com/adhocteam/tern/internal/codegen"
	"github.com/adhocteam/tern/internal/parser"
)

// rows returns the cell texts of every body row of every table in doc.
func rows(doc *html.Node) [][][]string {
	var tables [][][]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.DataAtom {
		case atom.Table:
			tables = append(tables, nil)
		case atom.Tr:
			if n.Parent.DataAtom == atom.Tbody {
				var row []string
				for td := n.FirstChild; td != nil; td = td.NextSibling {
					row = append(row, text(td))
				}
				tables[len(tables)-1] = append(tables[len(tables)-1], row)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return tables
}

func text(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func TestWrite(t *testing.T) {
	src := "print(\"hello\");\nx = 1;"
	prog, err := parser.ParseString(src)
	if err != nil {
		t.Fatal(err)
	}
	unit, err := codegen.Generate(prog, nil)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, "hello.tern", src, unit); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "<!DOCTYPE html>") {
		t.Errorf("missing doctype: %.40s", buf.String())
	}

	doc, err := html.Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	want := [][][]string{
		{
			{"0000", "", "get r0 @0", "1:1-1:5", "print"},
			{"0001", "", "string r1 #0", "1:7-1:13", `"hello"`},
			{"0002", "", "call _ r0 r1 1", "1:1-1:15", `print("hello");`},
			{"0003", "", "int r2 #0", "2:5", "1"},
			{"0004", "", "set @1 r2", "2:1-2:6", "x = 1;"},
		},
		{{"#0", `"hello"`}},
		{{"#0", "1"}},
		{{"@0", "print"}, {"@1", "x"}},
	}
	if diff := cmp.Diff(want, rows(doc)); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestDocumentTitle(t *testing.T) {
	unit, err := codegen.Generate(mustParse(t, "f();"), nil)
	if err != nil {
		t.Fatal(err)
	}
	doc := Document("f.tern", "f();", unit)
	var titles []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.DataAtom == atom.Title || n.DataAtom == atom.H1 {
			titles = append(titles, text(n))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if diff := cmp.Diff([]string{"f.tern", "f.tern"}, titles); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.ParseString(src)
	if err != nil {
		t.Fatal(err)
	}
	return prog
}
