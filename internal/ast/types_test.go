package ast

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/adhocteam/tern/internal/source"
	"github.com/google/go-cmp/cmp"
)

func ident(name string) *Ident { return &Ident{Name: name} }

// a.b = f(1 2.5 "x")([] {k = (y)});
func sampleProgram() *Program {
	return &Program{Stmts: []Stmt{
		&Assign{
			Target: &Field{Head: ident("a"), Field: ident("b")},
			Value: &Call{
				Head: &Call{
					Head: ident("f"),
					Args: []Expr{&Integer{Value: 1}, &Decimal{Value: 2.5}, &String{Value: "x"}},
				},
				Args: []Expr{
					&List{},
					&Map{Entries: []MapEntry{{Key: source.Locate("k", source.Position{}), Value: &Paren{Inner: ident("y")}}}},
				},
			},
		},
		&CallStmt{Head: ident("print"), Args: []Expr{&Field{Head: ident("a"), Field: &Integer{Value: 1}}}},
	}}
}

func TestSexp(t *testing.T) {
	want := `(assign (. a b) (call (call f 1 2.5 "x") (list) (map ("k" (paren y)))))` + "\n" +
		`(call print (. a 1))`
	if diff := cmp.Diff(want, Sexp(sampleProgram())); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{7, "7.0"},
		{2.5, "2.5"},
		{1e21, "1e+21"},
	}
	for _, tt := range tests {
		if got := FormatDecimal(tt.in); got != tt.want {
			t.Errorf("FormatDecimal(%v): want %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestPrettyPrintBreaksLongForms(t *testing.T) {
	long := strings.Repeat("x", 40)
	prog := &Program{Stmts: []Stmt{
		&CallStmt{Head: ident("short"), Args: []Expr{&Integer{Value: 1}}},
		&CallStmt{Head: ident("f"), Args: []Expr{&String{Value: long}, &List{Elems: []Expr{ident(long)}}}},
	}}
	var buf bytes.Buffer
	NewPrettyPrinter(&buf).PrettyPrint(prog)
	want := "(call short 1)\n" +
		"(call\n" +
		"  f\n" +
		"  \"" + long + "\"\n" +
		"  (list " + long + "))\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestPrettyPrintColor(t *testing.T) {
	prog := &Program{Stmts: []Stmt{&CallStmt{Head: ident("f"), Args: []Expr{&String{Value: "s"}}}}}
	var buf bytes.Buffer
	NewPrettyPrinter(&buf).Color(true).PrettyPrint(prog)
	want := "(\x1b[35mcall\x1b[0m f \x1b[32m\"s\"\x1b[0m)\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}

func TestMarshalJSONTagsNodes(t *testing.T) {
	stmt := &CallStmt{Head: ident("f"), Args: []Expr{&Integer{Value: 3}}}
	b, err := json.Marshal(stmt)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Type string
		Node struct {
			Head struct{ Type string }
			Args []struct {
				Type string
				Node struct{ Value int64 }
			}
		}
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if got.Type != "CallStmt" || got.Node.Head.Type != "Ident" {
		t.Errorf("unexpected tags in %s", b)
	}
	if len(got.Node.Args) != 1 || got.Node.Args[0].Type != "Integer" || got.Node.Args[0].Node.Value != 3 {
		t.Errorf("unexpected args in %s", b)
	}
}

func TestInspectOrder(t *testing.T) {
	var got []string
	Inspect(sampleProgram(), func(n Node) bool {
		switch n := n.(type) {
		case *Ident:
			got = append(got, n.Name)
		case *Map:
			got = append(got, "map")
			return false
		}
		return true
	})
	want := []string{"a", "b", "f", "map", "print", "a"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got)\n%s", diff)
	}
}
