package ast

import (
	"encoding/json"

	"github.com/adhocteam/tern/internal/source"
)

// Node is any piece of tern syntax. Every node knows the span of source
// text it was parsed from, including the delimiters it consumed.
type Node interface {
	Pos() source.Position
}

// Stmt is a top-level statement: an assignment or a call.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an atom or a call.
type Expr interface {
	Node
	exprNode()
}

// Atom is an expression that is not a call.
type Atom interface {
	Expr
	atomNode()
}

// Path is an identifier or a chain of field accesses rooted at one. Paths
// are the only assignable and directly callable forms.
type Path interface {
	Atom
	pathNode()
}

type Program struct {
	Stmts []Stmt
	Span  source.Position
}

func (n *Program) Pos() source.Position { return n.Span }

type Assign struct {
	Target Path
	Value  Expr
	Span   source.Position
}

type CallStmt struct {
	Head Path
	Args []Expr
	Span source.Position
}

type Call struct {
	Head Expr
	Args []Expr
	Span source.Position
}

type Ident struct {
	Name string
	Span source.Position
}

// Field is head.field. Field is an *Ident for the a.b form and any other
// atom for a.1, a."key" or a.(expr).
type Field struct {
	Head  Path
	Field Atom
	Span  source.Position
}

type Integer struct {
	Value int64
	Span  source.Position
}

type Decimal struct {
	Value float64
	Span  source.Position
}

type String struct {
	Value string
	Span  source.Position
}

type Paren struct {
	Inner Expr
	Span  source.Position
}

type List struct {
	Elems []Expr
	Span  source.Position
}

// Map is a map literal. Entries keep their source order.
type Map struct {
	Entries []MapEntry
	Span    source.Position
}

type MapEntry struct {
	Key   source.Located[string]
	Value Expr
}

func (n *Assign) Pos() source.Position   { return n.Span }
func (n *CallStmt) Pos() source.Position { return n.Span }
func (n *Call) Pos() source.Position     { return n.Span }
func (n *Ident) Pos() source.Position    { return n.Span }
func (n *Field) Pos() source.Position    { return n.Span }
func (n *Integer) Pos() source.Position  { return n.Span }
func (n *Decimal) Pos() source.Position  { return n.Span }
func (n *String) Pos() source.Position   { return n.Span }
func (n *Paren) Pos() source.Position    { return n.Span }
func (n *List) Pos() source.Position     { return n.Span }
func (n *Map) Pos() source.Position      { return n.Span }

func (*Assign) stmtNode()   {}
func (*CallStmt) stmtNode() {}

func (*Call) exprNode()    {}
func (*Ident) exprNode()   {}
func (*Field) exprNode()   {}
func (*Integer) exprNode() {}
func (*Decimal) exprNode() {}
func (*String) exprNode()  {}
func (*Paren) exprNode()   {}
func (*List) exprNode()    {}
func (*Map) exprNode()     {}

func (*Ident) atomNode()   {}
func (*Field) atomNode()   {}
func (*Integer) atomNode() {}
func (*Decimal) atomNode() {}
func (*String) atomNode()  {}
func (*Paren) atomNode()   {}
func (*List) atomNode()    {}
func (*Map) atomNode()     {}

func (*Ident) pathNode() {}
func (*Field) pathNode() {}

var (
	_ Stmt = (*Assign)(nil)
	_ Stmt = (*CallStmt)(nil)
	_ Expr = (*Call)(nil)
	_ Path = (*Ident)(nil)
	_ Path = (*Field)(nil)
	_ Atom = (*Integer)(nil)
	_ Atom = (*Decimal)(nil)
	_ Atom = (*String)(nil)
	_ Atom = (*Paren)(nil)
	_ Atom = (*List)(nil)
	_ Atom = (*Map)(nil)
)

// tagged wraps a node's fields with its type name so that the JSON form of
// an interface-typed child says which node it is.
func tagged(typ string, node any) ([]byte, error) {
	return json.Marshal(struct {
		Type string
		Node any
	}{typ, node})
}

func (n *Program) MarshalJSON() ([]byte, error) {
	type t Program
	return tagged("Program", (*t)(n))
}

func (n *Assign) MarshalJSON() ([]byte, error) {
	type t Assign
	return tagged("Assign", (*t)(n))
}

func (n *CallStmt) MarshalJSON() ([]byte, error) {
	type t CallStmt
	return tagged("CallStmt", (*t)(n))
}

func (n *Call) MarshalJSON() ([]byte, error) {
	type t Call
	return tagged("Call", (*t)(n))
}

func (n *Ident) MarshalJSON() ([]byte, error) {
	type t Ident
	return tagged("Ident", (*t)(n))
}

func (n *Field) MarshalJSON() ([]byte, error) {
	type t Field
	return tagged("Field", (*t)(n))
}

func (n *Integer) MarshalJSON() ([]byte, error) {
	type t Integer
	return tagged("Integer", (*t)(n))
}

func (n *Decimal) MarshalJSON() ([]byte, error) {
	type t Decimal
	return tagged("Decimal", (*t)(n))
}

func (n *String) MarshalJSON() ([]byte, error) {
	type t String
	return tagged("String", (*t)(n))
}

func (n *Paren) MarshalJSON() ([]byte, error) {
	type t Paren
	return tagged("Paren", (*t)(n))
}

func (n *List) MarshalJSON() ([]byte, error) {
	type t List
	return tagged("List", (*t)(n))
}

func (n *Map) MarshalJSON() ([]byte, error) {
	type t Map
	return tagged("Map", (*t)(n))
}
