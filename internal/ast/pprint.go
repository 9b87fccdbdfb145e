package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	indentSize = 2
	maxLineLen = 80
)

// PrettyPrinter writes a program as s-expressions, one statement per line.
// A form that does not fit in maxLineLen columns is broken up with one child
// per line.
type PrettyPrinter struct {
	w     io.Writer
	depth int
	color bool
}

func NewPrettyPrinter(w io.Writer) *PrettyPrinter {
	return &PrettyPrinter{w: w}
}

// Color turns ANSI highlighting of form heads and literals on or off.
func (p *PrettyPrinter) Color(on bool) *PrettyPrinter {
	p.color = on
	return p
}

func (p *PrettyPrinter) print(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

func (p *PrettyPrinter) println(s string) {
	p.print("%s%s\n", strings.Repeat(" ", p.depth*indentSize), s)
}

func (p *PrettyPrinter) indent() {
	p.depth++
}

func (p *PrettyPrinter) dedent() {
	p.depth--
	if p.depth < 0 {
		p.depth = 0
	}
}

func (p *PrettyPrinter) PrettyPrint(prog *Program) {
	for _, s := range prog.Stmts {
		p.printForm(toForm(s), "")
	}
}

func (p *PrettyPrinter) printForm(f form, closing string) {
	if f.kids == nil || len(f.flat())+p.depth*indentSize <= maxLineLen {
		p.println(f.render(p.color) + closing)
		return
	}
	p.println("(" + f.head(p.color))
	p.indent()
	for i, k := range f.kids {
		c := ""
		if i == len(f.kids)-1 {
			c = ")" + closing
		}
		p.printForm(k, c)
	}
	p.dedent()
}

// Sexp returns the single-line s-expression form of a node.
func Sexp(n Node) string {
	if prog, ok := n.(*Program); ok {
		stmts := make([]string, len(prog.Stmts))
		for i, s := range prog.Stmts {
			stmts[i] = toForm(s).flat()
		}
		return strings.Join(stmts, "\n")
	}
	return toForm(n).flat()
}

// form is a leaf (text only) or a list (text is the head, kids follow).
type form struct {
	text  string
	kids  []form
	style string
}

const (
	styleHead   = "35"
	styleString = "32"
	styleNumber = "36"
)

func leaf(text, style string) form { return form{text: text, style: style} }

func list(head string, kids ...form) form {
	if kids == nil {
		kids = []form{}
	}
	return form{text: head, kids: kids, style: styleHead}
}

func (f form) flat() string {
	return f.render(false)
}

func (f form) head(color bool) string {
	return paint(f.text, f.style, color)
}

func (f form) render(color bool) string {
	if f.kids == nil {
		return paint(f.text, f.style, color)
	}
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(f.head(color))
	for _, k := range f.kids {
		b.WriteString(" ")
		b.WriteString(k.render(color))
	}
	b.WriteString(")")
	return b.String()
}

func paint(s, style string, color bool) string {
	if !color || style == "" {
		return s
	}
	return "\x1b[" + style + "m" + s + "\x1b[0m"
}

func toForm(n Node) form {
	switch n := n.(type) {
	case *Assign:
		return list("assign", toForm(n.Target), toForm(n.Value))
	case *CallStmt:
		return list("call", append([]form{toForm(n.Head)}, exprForms(n.Args)...)...)
	case *Call:
		return list("call", append([]form{toForm(n.Head)}, exprForms(n.Args)...)...)
	case *Ident:
		return leaf(n.Name, "")
	case *Field:
		return list(".", toForm(n.Head), toForm(n.Field))
	case *Integer:
		return leaf(strconv.FormatInt(n.Value, 10), styleNumber)
	case *Decimal:
		return leaf(FormatDecimal(n.Value), styleNumber)
	case *String:
		return leaf(strconv.Quote(n.Value), styleString)
	case *Paren:
		return list("paren", toForm(n.Inner))
	case *List:
		return list("list", exprForms(n.Elems)...)
	case *Map:
		entries := make([]form, len(n.Entries))
		for i, e := range n.Entries {
			entries[i] = list(strconv.Quote(e.Key.Value), toForm(e.Value))
			entries[i].style = styleString
		}
		return list("map", entries...)
	}
	return leaf(fmt.Sprintf("%T", n), "")
}

func exprForms(exprs []Expr) []form {
	out := make([]form, len(exprs))
	for i, e := range exprs {
		out[i] = toForm(e)
	}
	return out
}

// FormatDecimal formats v so that it never reads as an integer literal.
func FormatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}
