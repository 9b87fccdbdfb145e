package source

import "fmt"

// Range is a half-open interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Position is a source span made of a line range and a column range, both
// 0-based and half-open. A token on line 2 covering columns 4 through 6 is
// {Line: {2, 3}, Col: {4, 7}}. For spans crossing lines, Col.Start belongs to
// the first line and Col.End to the last one.
type Position struct {
	Line Range
	Col  Range
}

func New(line, col Range) Position {
	return Position{Line: line, Col: col}
}

// At returns the one-character position at line ln, column col.
func At(ln, col int) Position {
	return Position{Line: Range{ln, ln + 1}, Col: Range{col, col + 1}}
}

// Extend returns p widened so that it ends where other ends.
func (p Position) Extend(other Position) Position {
	p.Line.End = other.Line.End
	p.Col.End = other.Col.End
	return p
}

// After returns the one-character position immediately following p.
func (p Position) After() Position {
	ln := p.Line.End - 1
	if ln < p.Line.Start {
		ln = p.Line.Start
	}
	return At(ln, p.Col.End)
}

func (p Position) IsZero() bool {
	return p == Position{}
}

// String renders p 1-based, as "line:col" for a single character and
// "line:col-line:col" otherwise.
func (p Position) String() string {
	startLn, startCol := p.Line.Start+1, p.Col.Start+1
	endLn, endCol := p.Line.End, p.Col.End
	if endLn <= startLn && endCol <= startCol {
		return fmt.Sprintf("%d:%d", startLn, startCol)
	}
	return fmt.Sprintf("%d:%d-%d:%d", startLn, startCol, endLn, endCol)
}

// Located is a value paired with the span it was derived from.
type Located[T any] struct {
	Value T
	Pos   Position
}

func Locate[T any](value T, pos Position) Located[T] {
	return Located[T]{Value: value, Pos: pos}
}

// Map transforms the payload of l, keeping its span.
func Map[T, U any](l Located[T], f func(T) U) Located[U] {
	return Located[U]{Value: f(l.Value), Pos: l.Pos}
}

func (l Located[T]) String() string {
	return fmt.Sprint(l.Value)
}
